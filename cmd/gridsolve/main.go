package main

import (
	"fmt"
	"os"

	"github.com/notargets/gridfield/config"
	"github.com/notargets/gridfield/mesh"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rank       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridsolve",
		Short: "Structured grid field solver",
		Long: `gridsolve evolves fields on one processor's share of a logically
rectangular grid, packing them into a flat state for a Runge-Kutta
integrator.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./gridfield.yaml)")
	rootCmd.PersistentFlags().IntVar(&rank, "rank", 0, "Processor rank within the decomposition")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(layoutCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds this rank's mesh.
func setup() (*config.Config, *mesh.Mesh, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	m, err := mesh.New(cfg.Mesh, rank)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build mesh: %w", err)
	}
	return cfg, m, nil
}
