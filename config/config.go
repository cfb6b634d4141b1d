// Package config loads run configuration from an optional YAML file and
// GRIDFIELD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/solver"
	"github.com/notargets/gridfield/utils"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g.
// GRIDFIELD_MESH_NX or GRIDFIELD_SOLVER_TIMESTEP.
const EnvPrefix = "GRIDFIELD"

type Config struct {
	Mesh   mesh.GridConfig    `mapstructure:"mesh"`
	Solver solver.Options     `mapstructure:"solver"`
	Output utils.OutputConfig `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mesh.nx", 16)
	v.SetDefault("mesh.ny", 16)
	v.SetDefault("mesh.nz", 8)
	v.SetDefault("mesh.mxg", 2)
	v.SetDefault("mesh.myg", 2)
	v.SetDefault("mesh.nxpe", 1)
	v.SetDefault("mesh.nype", 1)
	v.SetDefault("mesh.ixseps", 8)
	v.SetDefault("mesh.zlength", 1.0)
	v.SetDefault("mesh.checks", false)

	v.SetDefault("solver.nout", 10)
	v.SetDefault("solver.timestep", 0.1)
	v.SetDefault("solver.dt", 0.01)
	v.SetDefault("solver.max_steps", 0)

	v.SetDefault("output.enabled", true)
	v.SetDefault("output.log_dir", "")
	v.SetDefault("output.level", "info")
}

// Load reads the configuration. With an empty path gridfield.yaml is looked
// for in the working directory and defaults are used if it is missing; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gridfield")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Mesh.Validate(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	return nil
}
