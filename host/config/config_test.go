package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widetick/host/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
link:
  device: /dev/ttyUSB3
watch:
  unit: 2
  beacon_ticks: 16384
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB3", cfg.Link.Device)
	assert.Equal(t, 115200, cfg.Link.Baud, "unset fields keep defaults")
	assert.Equal(t, uint8(2), cfg.Watch.Unit)
	assert.Equal(t, uint64(16384), cfg.Watch.BeaconTicks)

	assert.NoError(t, config.Validate(cfg))
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "link: [not a mapping")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty device", func(c *config.Config) { c.Link.Device = "" }},
		{"zero baud", func(c *config.Config) { c.Link.Baud = 0 }},
		{"negative timeout", func(c *config.Config) { c.Link.ReadTimeoutMs = -1 }},
		{"zero beacon", func(c *config.Config) { c.Watch.BeaconTicks = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, config.Validate(cfg))
		})
	}

	assert.NoError(t, config.Validate(config.Default()))
}
