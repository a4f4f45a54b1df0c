package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// FieldType classifies a template field.
type FieldType string

const (
	FieldAnnotation FieldType = "annotation"
	FieldSignature  FieldType = "signature"
	FieldInitials   FieldType = "initials"
	FieldStamp      FieldType = "stamp"
)

// SignatureClass reports whether the type is placed by a participant
// (signature, initials or stamp) rather than filled with text.
func (t FieldType) SignatureClass() bool {
	switch t {
	case FieldSignature, FieldInitials, FieldStamp:
		return true
	}
	return false
}

// FieldConfig is the typed form of a field's JSON-encoded config.
type FieldConfig struct {
	CustomID string `json:"customId"`
}

// Field is a single placement on the template document. Properties the
// service sends that are not modeled here (page, position, size, ...) are
// retained and written back unchanged by MarshalJSON.
//
// Text, Blob and User are per-recipient values. They are only ever set on a
// Clone, never on the fields of a shared Template.
type Field struct {
	Type       FieldType
	Order      int
	UserRoleID string
	Config     FieldConfig

	Text *string
	Blob *string
	User []string

	raw map[string]json.RawMessage
}

var fieldKeys = []string{"type", "order", "userRoleId", "config", "text", "blob", "user"}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}

	var known struct {
		Type  FieldType `json:"type"`
		Order int       `json:"order"`
		Text  *string   `json:"text"`
		Blob  *string   `json:"blob"`
		User  []string  `json:"user"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}

	roleID, err := decodeRoleID(raw["userRoleId"])
	if err != nil {
		return err
	}

	*f = Field{
		Type:       known.Type,
		Order:      known.Order,
		UserRoleID: roleID,
		Text:       known.Text,
		Blob:       known.Blob,
		User:       known.User,
		raw:        raw,
	}

	if f.Type == FieldAnnotation {
		cfg, err := parseConfig(raw["config"])
		if err != nil {
			return err
		}
		f.Config = cfg
	}

	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.raw)+len(fieldKeys))
	for k, v := range f.raw {
		out[k] = v
	}

	out["type"] = f.Type
	out["order"] = f.Order
	if _, ok := f.raw["userRoleId"]; !ok && f.UserRoleID != "" {
		out["userRoleId"] = f.UserRoleID
	}
	if f.Text != nil {
		out["text"] = *f.Text
	}
	if f.Blob != nil {
		out["blob"] = *f.Blob
	}
	if f.User != nil {
		out["user"] = f.User
	}

	return json.Marshal(out)
}

// Clone returns a copy of f that shares no mutable state with it.
func (f *Field) Clone() Field {
	c := *f
	c.raw = maps.Clone(f.raw)
	c.User = slices.Clone(f.User)
	if f.Text != nil {
		text := *f.Text
		c.Text = &text
	}
	if f.Blob != nil {
		blob := *f.Blob
		c.Blob = &blob
	}
	return c
}

// Address returns the fixed participant address embedded in the field.
func (f *Field) Address() string {
	if len(f.User) == 0 {
		return ""
	}
	return f.User[0]
}

// parseConfig accepts config either as a JSON-encoded string or as an
// inline object.
func parseConfig(raw json.RawMessage) (FieldConfig, error) {
	var cfg FieldConfig

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, fmt.Errorf("%w: missing config", ErrInvalidFieldConfig)
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalidFieldConfig, err)
		}
		raw = json.RawMessage(encoded)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidFieldConfig, err)
	}
	return cfg, nil
}
