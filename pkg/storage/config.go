package storage

import (
	"fmt"
	"os"
)

// Config holds scratch storage parameters.
type Config struct {
	Directory string `toml:"directory"`
	FileName  string `toml:"file_name"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Directory string
	FileName  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
	if overlay.FileName != "" {
		c.FileName = overlay.FileName
	}
}

func (c *Config) loadDefaults() {
	if c.Directory == "" {
		c.Directory = "."
	}
	if c.FileName == "" {
		c.FileName = "temp.pdf"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Directory != "" {
		if v := os.Getenv(env.Directory); v != "" {
			c.Directory = v
		}
	}
	if env.FileName != "" {
		if v := os.Getenv(env.FileName); v != "" {
			c.FileName = v
		}
	}
}

func (c *Config) validate() error {
	if err := validateKey(c.FileName); err != nil {
		return fmt.Errorf("file_name: %w", err)
	}
	return nil
}
