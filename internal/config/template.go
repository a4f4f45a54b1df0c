package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/courier/internal/templates"
)

const (
	EnvTemplateID                  = "COURIER_TEMPLATE_ID"
	EnvTemplateDynamicUserPosition = "COURIER_TEMPLATE_DYNAMIC_USER_POSITION"
	EnvTemplateMissingValue        = "COURIER_TEMPLATE_MISSING_VALUE"
	EnvBlobSignature               = "COURIER_TEMPLATE_BLOBS_SIGNATURE"
	EnvBlobInitials                = "COURIER_TEMPLATE_BLOBS_INITIALS"
	EnvBlobStamp                   = "COURIER_TEMPLATE_BLOBS_STAMP"
)

// DefaultDynamicUserPosition is the routing order reserved for each row's
// recipient unless configured otherwise.
const DefaultDynamicUserPosition = 4

// TemplateConfig identifies the template and the values used to fill it.
type TemplateConfig struct {
	ID                  string `toml:"id"`
	DynamicUserPosition int    `toml:"dynamic_user_position"`
	MissingValue        string `toml:"missing_value"`
	Blobs               Blobs  `toml:"blobs"`
}

// Blobs holds the ids of the operator's pre-uploaded signature images.
type Blobs struct {
	Signature string `toml:"signature"`
	Initials  string `toml:"initials"`
	Stamp     string `toml:"stamp"`
}

// For returns the blob id for a signature-class field type.
func (b Blobs) For(t templates.FieldType) string {
	switch t {
	case templates.FieldInitials:
		return b.Initials
	case templates.FieldStamp:
		return b.Stamp
	default:
		return b.Signature
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *TemplateConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *TemplateConfig) Merge(overlay *TemplateConfig) {
	if overlay.ID != "" {
		c.ID = overlay.ID
	}
	if overlay.DynamicUserPosition != 0 {
		c.DynamicUserPosition = overlay.DynamicUserPosition
	}
	if overlay.MissingValue != "" {
		c.MissingValue = overlay.MissingValue
	}
	if overlay.Blobs.Signature != "" {
		c.Blobs.Signature = overlay.Blobs.Signature
	}
	if overlay.Blobs.Initials != "" {
		c.Blobs.Initials = overlay.Blobs.Initials
	}
	if overlay.Blobs.Stamp != "" {
		c.Blobs.Stamp = overlay.Blobs.Stamp
	}
}

func (c *TemplateConfig) loadDefaults() {
	if c.DynamicUserPosition == 0 {
		c.DynamicUserPosition = DefaultDynamicUserPosition
	}
	if c.MissingValue == "" {
		c.MissingValue = " "
	}
}

func (c *TemplateConfig) loadEnv() {
	if v := os.Getenv(EnvTemplateID); v != "" {
		c.ID = v
	}
	if v := os.Getenv(EnvTemplateDynamicUserPosition); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DynamicUserPosition = n
		}
	}
	if v := os.Getenv(EnvTemplateMissingValue); v != "" {
		c.MissingValue = v
	}
	if v := os.Getenv(EnvBlobSignature); v != "" {
		c.Blobs.Signature = v
	}
	if v := os.Getenv(EnvBlobInitials); v != "" {
		c.Blobs.Initials = v
	}
	if v := os.Getenv(EnvBlobStamp); v != "" {
		c.Blobs.Stamp = v
	}
}

func (c *TemplateConfig) validate() error {
	if c.ID == "" {
		return fmt.Errorf("id required")
	}
	if c.DynamicUserPosition <= 1 {
		return fmt.Errorf("dynamic_user_position must be greater than 1, got %d", c.DynamicUserPosition)
	}
	return nil
}
