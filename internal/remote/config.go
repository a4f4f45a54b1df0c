package remote

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/courier/pkg/formatting"
)

// Config holds signing service connection parameters.
type Config struct {
	BaseURI     string `toml:"base_uri"`
	Token       string `toml:"token"`
	Timeout     string `toml:"timeout"`
	MaxFileSize string `toml:"max_file_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURI     string
	Token       string
	Timeout     string
	MaxFileSize string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxFileSizeBytes returns MaxFileSize as a byte count.
func (c *Config) MaxFileSizeBytes() int64 {
	n, err := formatting.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 50 << 20
	}
	return n
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
	if overlay.BaseURI != "" {
		c.BaseURI = overlay.BaseURI
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "50MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURI != "" {
		if v := os.Getenv(env.BaseURI); v != "" {
			c.BaseURI = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxFileSize != "" {
		if v := os.Getenv(env.MaxFileSize); v != "" {
			c.MaxFileSize = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURI == "" {
		return fmt.Errorf("base_uri required")
	}
	u, err := url.Parse(c.BaseURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_uri %q: must include scheme and host", c.BaseURI)
	}
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	return nil
}
