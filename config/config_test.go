package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ThePletch/steam-vr-wheel/config"
)

func TestLoad_DefaultsWithNoFileOrFlags(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate_hz: 60\nmetrics_addr: \":9090\"\n"), 0o644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 60, cfg.TickRateHz)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Equal(t, 2, cfg.VirtualDevice, "fields absent from the file keep their default")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate_hz: 60\n"), 0o644))

	cfg, err := config.Load(path, []string{"--tick-rate", "90", "--debug"})
	require.NoError(t, err)
	require.Equal(t, 90, cfg.TickRateHz)
	require.True(t, cfg.Debug)
}
