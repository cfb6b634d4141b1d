package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutput(t *testing.T) {
	t.Run("log file per rank", func(t *testing.T) {
		dir := t.TempDir()
		out, err := NewOutput(OutputConfig{LogDir: dir, Level: "debug"}, 3)
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, out.GetLevel())

		out.WithField("iteration", 1).Debug("output step")
		require.NoError(t, out.Close())
		require.NoError(t, out.Close(), "second close is a no-op")

		b, err := os.ReadFile(filepath.Join(dir, "gridfield.log.3"))
		require.NoError(t, err)
		assert.Contains(t, string(b), "output step")
		assert.Contains(t, string(b), "iteration=1")

		// Logging after Close must not touch the closed file
		out.Info("after close")
	})

	t.Run("disabled", func(t *testing.T) {
		out, err := NewOutput(OutputConfig{}, 0)
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, out.GetLevel())
		out.Info("discarded")
		assert.NoError(t, out.Close())
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := NewOutput(OutputConfig{Level: "loud"}, 0)
		assert.Error(t, err)
	})

	t.Run("bad directory", func(t *testing.T) {
		_, err := NewOutput(OutputConfig{LogDir: filepath.Join(t.TempDir(), "missing")}, 0)
		assert.Error(t, err)
	})
}
