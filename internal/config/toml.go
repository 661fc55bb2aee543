// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Player      *string `toml:"player"`
	SettleDelay *string `toml:"settle-delay"`
	ResetDelay  *string `toml:"reset-delay"`
	Seed        *int64  `toml:"seed"`
	Autosave    *bool   `toml:"autosave"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	for _, d := range []*string{cfg.Play.SettleDelay, cfg.Play.ResetDelay} {
		if d == nil {
			continue
		}
		if _, err := ParseDelay(*d); err != nil {
			return FileConfig{}, err
		}
	}
	return cfg, nil
}

// ParseDelay parses a non-negative duration such as "5s" or "1500ms".
func ParseDelay(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid delay %q: must not be negative", value)
	}
	return d, nil
}
