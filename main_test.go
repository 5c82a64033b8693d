package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/iburimskiy/canvas-eyes/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Run("Only Explicit Flags", func(t *testing.T) {
		cli, err := parseArgs([]string{"-radius", "50", "-surface", "terminal"}, io.Discard)
		require.NoError(t, err)

		require.Equal(t, 50.0, *cli.options.Radius)
		require.Equal(t, config.SurfaceTerminal, *cli.options.Surface)
		require.Nil(t, cli.options.PointerLayer)
		require.Nil(t, cli.options.Width)
		require.False(t, cli.pickImage)
	})

	t.Run("Stray Arguments", func(t *testing.T) {
		_, err := parseArgs([]string{"extra"}, io.Discard)
		require.Error(t, err)
	})

	t.Run("Unknown Flag", func(t *testing.T) {
		_, err := parseArgs([]string{"-colour", "red"}, io.Discard)
		require.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := loadConfig(cliArgs{})
		require.NoError(t, err)
		require.Equal(t, config.Default(), cfg)
	})

	t.Run("Flags Override File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "eyes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("radius: 50\npointerLayer: 300\n"), 0o644))

		cli, err := parseArgs([]string{"-config", path, "-pointer-layer", "450"}, io.Discard)
		require.NoError(t, err)

		cfg, err := loadConfig(cli)
		require.NoError(t, err)
		require.Equal(t, 50.0, cfg.Radius)
		require.Equal(t, 450.0, cfg.PointerLayer)
		require.Equal(t, 810, cfg.Width)
	})

	t.Run("Unknown Surface", func(t *testing.T) {
		cli, err := parseArgs([]string{"-surface", "canvas"}, io.Discard)
		require.NoError(t, err)

		_, err = loadConfig(cli)
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Surface = config.SurfaceTerminal

	l, err := newLogger(cfg)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(0))
}
