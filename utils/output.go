package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// OutputConfig controls where log output goes.
type OutputConfig struct {
	Enabled bool   `mapstructure:"enabled"` // Write to stdout
	LogDir  string `mapstructure:"log_dir"` // If set, also write gridfield.log.<rank> here
	Level   string `mapstructure:"level"`
}

// Output owns the logger and the per-rank log file, if any.
type Output struct {
	*logrus.Logger
	file   *os.File
	stdout bool
}

// NewOutput builds a logger for the given rank.
func NewOutput(cfg OutputConfig, rank int) (*Output, error) {
	lg := logrus.New()
	lg.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})

	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		lg.SetLevel(lvl)
	}

	out := &Output{Logger: lg, stdout: cfg.Enabled}
	var writers []io.Writer
	if cfg.Enabled {
		writers = append(writers, os.Stdout)
	}
	if cfg.LogDir != "" {
		name := filepath.Join(cfg.LogDir, fmt.Sprintf("gridfield.log.%d", rank))
		f, err := os.Create(name)
		if err != nil {
			return nil, fmt.Errorf("could not open log file %s: %w", name, err)
		}
		out.file = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		lg.SetOutput(io.Discard)
	case 1:
		lg.SetOutput(writers[0])
	default:
		lg.SetOutput(io.MultiWriter(writers...))
	}
	return out, nil
}

// Close closes the log file. The logger keeps working on stdout, if enabled.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	if o.stdout {
		o.SetOutput(os.Stdout)
	} else {
		o.SetOutput(io.Discard)
	}
	err := o.file.Close()
	o.file = nil
	return err
}
