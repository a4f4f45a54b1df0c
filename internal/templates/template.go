// Package templates defines the signing template aggregate returned by the
// remote service: the source document, the fields placed on it and the
// roles those fields are routed to.
package templates

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/courier/pkg/timespan"
)

// ShareTypeSign marks a role whose participants sign. Any other share type
// (copy, view, ...) is a non-signing role.
const ShareTypeSign = "sign"

// Template is the read-only blueprint fetched once per run.
type Template struct {
	File         FileRef      `json:"file"`
	SignFields   []Field      `json:"signFields"`
	SignEntities []SignEntity `json:"signEntities"`
}

// Entity returns the role with the given user role id.
func (t *Template) Entity(roleID string) (*SignEntity, bool) {
	for i := range t.SignEntities {
		if t.SignEntities[i].UserRoleID == roleID {
			return &t.SignEntities[i], true
		}
	}
	return nil, false
}

// EntityAt returns the role declared at the given routing order.
func (t *Template) EntityAt(order int) (*SignEntity, bool) {
	for i := range t.SignEntities {
		if t.SignEntities[i].Order == order {
			return &t.SignEntities[i], true
		}
	}
	return nil, false
}

// FileRef identifies the template's source document in remote file storage.
// The service sends either a bare id or an object carrying fileId.
type FileRef string

func (f *FileRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*f = FileRef(id)
		return nil
	}

	var obj struct {
		FileID string `json:"fileId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode file reference: %w", err)
	}
	*f = FileRef(obj.FileID)
	return nil
}

// SignEntity is a declared signing or non-signing role within a template.
// User carries the fixed address of a non-signing role.
type SignEntity struct {
	Order      int          `json:"order"`
	UserRoleID string       `json:"-"`
	ShareType  string       `json:"shareType"`
	ShareData  []ShareDatum `json:"shareData"`
	User       []string     `json:"user,omitempty"`
}

func (e *SignEntity) UnmarshalJSON(data []byte) error {
	type alias SignEntity
	aux := struct {
		*alias
		UserRoleID json.RawMessage `json:"userRoleId"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeRoleID(aux.UserRoleID)
	if err != nil {
		return err
	}
	e.UserRoleID = id
	return nil
}

// Signing reports whether the role signs.
func (e *SignEntity) Signing() bool {
	return e.ShareType == ShareTypeSign
}

// Datum returns the role's notification policy, which lives in the first
// shareData entry. A role without share data has an empty policy.
func (e *SignEntity) Datum() ShareDatum {
	if len(e.ShareData) == 0 {
		return ShareDatum{}
	}
	return e.ShareData[0]
}

// Address returns the role's fixed address, if any.
func (e *SignEntity) Address() string {
	if len(e.User) == 0 {
		return ""
	}
	return e.User[0]
}

// ShareDatum holds a role's notification, expiration and reminder policy.
type ShareDatum struct {
	Message               *string        `json:"message,omitempty"`
	MailProtection        bool           `json:"mailProtection,omitempty"`
	ExpirationTime        *timespan.Span `json:"expirationTime,omitempty"`
	RemindersEnabled      bool           `json:"remindersEnabled,omitempty"`
	RemindersStartDays    *timespan.Span `json:"remindersStartDays,omitempty"`
	RemindersIntervalDays *int           `json:"remindersIntervalDays,omitempty"`
}

// decodeRoleID normalizes a role id sent as either a JSON string or number.
func decodeRoleID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode userRoleId: %w", err)
	}
	return n.String(), nil
}
