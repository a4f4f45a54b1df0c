// Package shares builds the participant entries and the share request
// payload sent to the signing service for one recipient.
package shares

import (
	"encoding/json"
	"time"

	"github.com/JaimeStill/courier/internal/templates"
)

// RightPrint is the only right granted to share participants.
const RightPrint = "print"

// Target is one resolved participant of a share request. The service
// routes on Order, not on the target's position in the request.
type Target struct {
	SharePurpose      string     `json:"sharePurpose"`
	ShareTo           string     `json:"shareTo"`
	Rights            []string   `json:"rights"`
	Order             int        `json:"order"`
	Message           *string    `json:"message,omitempty"`
	ValidUntil        *time.Time `json:"validUntil,omitempty"`
	AutomaticReminder *Reminder  `json:"automaticReminder,omitempty"`
	Mail              string     `json:"mail,omitempty"`
}

// Reminder schedules automatic reminders. A reminder without IntervalDays
// fires once at Start.
type Reminder struct {
	Start        time.Time `json:"start"`
	IntervalDays *int      `json:"intervalDays,omitempty"`
}

// Payload is the body of a share request.
type Payload struct {
	ObjectType        string            `json:"objectType"`
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	Data              []Target          `json:"data"`
	Force             bool              `json:"force"`
	Sequential        bool              `json:"sequential"`
	SignatureType     string            `json:"signatureType"`
	SignatureProvider string            `json:"signatureProvider"`
	Signatures        []templates.Field `json:"signatures"`
	Annotations       []templates.Field `json:"annotations"`
	Images            []json.RawMessage `json:"images"`
	SignatureFields   []templates.Field `json:"signatureFields"`
}

// Assemble structures a share request for documentID. Empty lists are sent
// as [] rather than null.
func Assemble(
	documentID string,
	targets []Target,
	annotations, signatures, signatureFields []templates.Field,
) Payload {
	return Payload{
		ObjectType:        "document",
		ID:                documentID,
		Type:              "d_default",
		Data:              orEmpty(targets),
		Force:             false,
		Sequential:        true,
		SignatureType:     "image",
		SignatureProvider: "internal",
		Signatures:        orEmpty(signatures),
		Annotations:       orEmpty(annotations),
		Images:            []json.RawMessage{},
		SignatureFields:   orEmpty(signatureFields),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
