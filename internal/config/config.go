// Package config loads Courier's configuration from config.toml, an optional
// environment overlay, a .env file and COURIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/courier/internal/remote"
	"github.com/JaimeStill/courier/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvCourierEnv = "COURIER_ENV"
)

var serviceEnv = &remote.Env{
	BaseURI:     "COURIER_SERVICE_BASE_URI",
	Token:       "COURIER_SERVICE_TOKEN",
	Timeout:     "COURIER_SERVICE_TIMEOUT",
	MaxFileSize: "COURIER_SERVICE_MAX_FILE_SIZE",
}

var storageEnv = &storage.Env{
	Directory: "COURIER_STORAGE_DIRECTORY",
	FileName:  "COURIER_STORAGE_FILE_NAME",
}

// Config is the root configuration for a Courier run.
type Config struct {
	Service  remote.Config  `toml:"service"`
	Template TemplateConfig `toml:"template"`
	Storage  storage.Config `toml:"storage"`
	Batch    BatchConfig    `toml:"batch"`
}

// Env returns the COURIER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCourierEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.Service.Merge(&overlay.Service)
	c.Template.Merge(&overlay.Template)
	c.Storage.Merge(&overlay.Storage)
	c.Batch.Merge(&overlay.Batch)
}

func (c *Config) finalize() error {
	if err := c.Service.Finalize(serviceEnv); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if err := c.Template.Finalize(); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Batch.Finalize(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCourierEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
