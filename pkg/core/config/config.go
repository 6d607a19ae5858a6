// Package config loads application settings from .env, a YAML file and
// environment overrides, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is the YAML settings file read when no path is given
const DefaultPath = "config/app.yaml"

// Config is the application configuration
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Tariffs struct {
		// ANEELTable is a locally saved ANEEL HTML tariff table
		ANEELTable string `yaml:"aneel_table"`
		CacheDir   string `yaml:"cache_dir"`
		// UseReference pre-populates tariff components from the distributor
		UseReference bool `yaml:"use_reference"`
	} `yaml:"tariffs"`
}

// Default returns the built-in settings
func Default() Config {
	var c Config
	c.Server.Addr = ":8080"
	return c
}

// Load reads .env (if present), then path (if present), then applies
// GD_ADDR, DATABASE_URL, GD_ANEEL_TABLE and GD_TARIFF_CACHE_DIR.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("[CONFIG] Failed to load .env: %v\n", err)
	}

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("GD_ANEEL_TABLE"); v != "" {
		cfg.Tariffs.ANEELTable = v
	}
	if v := os.Getenv("GD_TARIFF_CACHE_DIR"); v != "" {
		cfg.Tariffs.CacheDir = v
	}
}
