// Package config loads the tickmon monitor configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Link  LinkConfig  `yaml:"link"`
	Watch WatchConfig `yaml:"watch"`
}

// ---- SERIAL LINK ----

type LinkConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- WATCH ----

type WatchConfig struct {
	// Unit is the hardware unit whose events are analyzed.
	Unit uint8 `yaml:"unit"`

	// BeaconTicks is the expected fire-to-fire interval of the
	// firmware's beacon alarm, in counter ticks.
	BeaconTicks uint64 `yaml:"beacon_ticks"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration matching the nrf52 demo firmware.
func Default() *Config {
	return &Config{
		Link: LinkConfig{
			Device:        "/dev/ttyACM0",
			Baud:          115200,
			ReadTimeoutMs: 100,
		},
		Watch: WatchConfig{
			Unit:        2, // the demo firmware's RTC2 unit
			BeaconTicks: 32768,
		},
	}
}

// Validate checks configuration correctness. It does not mutate the
// configuration.
func Validate(cfg *Config) error {
	if cfg.Link.Device == "" {
		return fmt.Errorf("link: device is required")
	}
	if cfg.Link.Baud <= 0 {
		return fmt.Errorf("link: baud must be positive, got %d", cfg.Link.Baud)
	}
	if cfg.Link.ReadTimeoutMs < 0 {
		return fmt.Errorf("link: read_timeout_ms must not be negative")
	}
	if cfg.Watch.BeaconTicks == 0 {
		return fmt.Errorf("watch: beacon_ticks must be positive")
	}
	return nil
}
