package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Store    StoreConfig    `toml:"store"`
	Category CategoryConfig `toml:"category"`
	Logging  LoggingConfig  `toml:"logging"`
}

type StoreConfig struct {
	Interpolation bool   `toml:"interpolation"`
	Interpolator  string `toml:"interpolator"` // "linear", "nearest" or "lua"
	Script        string `toml:"script"`       // Lua file defining factor(low, t, high)
	DataLimiting  bool   `toml:"data_limiting"`
	FileMode      bool   `toml:"file_mode"`
	DefaultsPath  string `toml:"defaults_path"` // YAML default prefs, optional
}

type CategoryConfig struct {
	CaseSensitive bool `toml:"case_sensitive"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

const (
	InterpolatorLinear  = "linear"
	InterpolatorNearest = "nearest"
	InterpolatorLua     = "lua"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse overlays the TOML document data onto the defaults. name is used in
// error messages only.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Interpolator {
	case InterpolatorLinear, InterpolatorNearest:
	case InterpolatorLua:
		if c.Store.Script == "" {
			return fmt.Errorf("interpolator %q needs store.script", c.Store.Interpolator)
		}
	default:
		return fmt.Errorf("unknown interpolator %q", c.Store.Interpolator)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Interpolation: true,
			Interpolator:  InterpolatorLinear,
			DataLimiting:  false,
			FileMode:      false,
		},
		Category: CategoryConfig{
			CaseSensitive: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
