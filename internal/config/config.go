// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Zoom holds the view zoom constraints applied at startup. Start is
// clamped into [Min, Max] by the view itself.
type Zoom struct {
	Min   int `yaml:"min" json:"min"`
	Max   int `yaml:"max" json:"max"`
	Start int `yaml:"start" json:"start"`
}

// Config represents the root configuration file structure.
type Config struct {
	Attribution   string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Zoom          Zoom    `yaml:"zoom" json:"zoom"`
	TileCacheSize int     `yaml:"tile_cache_size,omitempty" json:"-"`
	RateLimit     float64 `yaml:"rate_limit,omitempty" json:"-"`
	RateBurst     int     `yaml:"rate_burst,omitempty" json:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Attribution:   "GeoSketch",
		Zoom:          Zoom{Min: 2, Max: 18, Start: 4},
		TileCacheSize: 512,
		RateLimit:     20,
		RateBurst:     40,
	}
}

// Load reads and parses the YAML configuration file from the specified
// path. Unset fields fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Zoom.Max < cfg.Zoom.Min {
		cfg.Zoom.Max = cfg.Zoom.Min
	}
	if cfg.TileCacheSize <= 0 {
		cfg.TileCacheSize = 512
	}

	return cfg, nil
}
