package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvBatchDataFile      = "COURIER_BATCH_DATA_FILE"
	EnvBatchDocumentTitle = "COURIER_BATCH_DOCUMENT_TITLE"
)

// BatchConfig holds the recipient feed location and per-row naming.
type BatchConfig struct {
	DataFile      string `toml:"data_file"`
	DocumentTitle string `toml:"document_title"`
}

// Title returns the document title for recipient.
func (c *BatchConfig) Title(recipient string) string {
	return fmt.Sprintf(c.DocumentTitle, recipient)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BatchConfig) Merge(overlay *BatchConfig) {
	if overlay.DataFile != "" {
		c.DataFile = overlay.DataFile
	}
	if overlay.DocumentTitle != "" {
		c.DocumentTitle = overlay.DocumentTitle
	}
}

func (c *BatchConfig) loadDefaults() {
	if c.DataFile == "" {
		c.DataFile = "data.csv"
	}
	if c.DocumentTitle == "" {
		c.DocumentTitle = "Document for %s"
	}
}

func (c *BatchConfig) loadEnv() {
	if v := os.Getenv(EnvBatchDataFile); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv(EnvBatchDocumentTitle); v != "" {
		c.DocumentTitle = v
	}
}

func (c *BatchConfig) validate() error {
	if n := strings.Count(c.DocumentTitle, "%s"); n != 1 || strings.Count(c.DocumentTitle, "%") != 1 {
		return fmt.Errorf("document_title must contain exactly one %%s verb, got %q", c.DocumentTitle)
	}
	return nil
}
