package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultParsesDurationsAndBools(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.False(t, cfg.Tick.OneRPCPerUpdate)
	require.Equal(t, 10*time.Millisecond, cfg.Tick.MaxTimePerUpdate)
	require.Equal(t, time.Duration(0), cfg.Tick.RecvTimeout)
	require.Equal(t, 60.0, cfg.Tick.HostFrequencyHz)
	require.Equal(t, 0.25, cfg.Stats.SmoothingFactor)
	require.Empty(t, cfg.Debug.Labels)
}

func TestLoadOverridesOnlyProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tick:
  one_rpc_per_update: true
  host_frequency_hz: 120
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Tick.OneRPCPerUpdate)
	require.Equal(t, 120.0, cfg.Tick.HostFrequencyHz)
	// Untouched fields retain their defaults.
	require.Equal(t, 10*time.Millisecond, cfg.Tick.MaxTimePerUpdate)
	require.Equal(t, 0.25, cfg.Stats.SmoothingFactor)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	want, err := Default()
	require.NoError(t, err)
	require.Equal(t, want, cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/override.yaml")
	require.Error(t, err)
}

func TestMergeAppliesOnlyGivenKeys(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	err = Merge(cfg, map[string]any{
		"tick": map[string]any{
			"blocking_recv": true,
			"recv_timeout":  "5ms",
		},
	})
	require.NoError(t, err)

	require.True(t, cfg.Tick.BlockingRecv)
	require.Equal(t, 5*time.Millisecond, cfg.Tick.RecvTimeout)
	require.False(t, cfg.Tick.OneRPCPerUpdate)
	require.Equal(t, 60.0, cfg.Tick.HostFrequencyHz)
}

func TestMergeWithNoOverridesIsNoop(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	before := *cfg
	require.NoError(t, Merge(cfg, nil))
	require.Equal(t, before, *cfg)
}
