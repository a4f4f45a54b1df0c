// Package timespan evaluates the exact and relative time span descriptors
// used by share expiration and reminder policies.
package timespan

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the Span variants.
type Kind string

const (
	KindExact    Kind = "exact"
	KindRelative Kind = "relative"
)

// Span is either an absolute timestamp (exact) or a count of units
// measured from the evaluation time (relative).
type Span struct {
	Type Kind       `json:"type"`
	Date *time.Time `json:"date,omitempty"`
	Size string     `json:"size,omitempty"`
	Span int        `json:"span,omitempty"`
}

// Relative reports whether s is a relative span. A nil span is not relative.
func (s *Span) Relative() bool {
	return s != nil && s.Type == KindRelative
}

// Evaluate resolves span against now. A nil span evaluates to now, an exact
// span to its embedded timestamp, and a relative span to now plus Span units
// of Size. Units are accepted in singular or plural form.
func Evaluate(span *Span, now time.Time) (time.Time, error) {
	if span == nil {
		return now, nil
	}

	switch span.Type {
	case KindExact:
		if span.Date == nil {
			return time.Time{}, ErrMissingDate
		}
		return *span.Date, nil
	case KindRelative:
		return add(now, span.Size, span.Span)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownType, span.Type)
	}
}

func add(now time.Time, unit string, n int) (time.Time, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "s") {
	case "minute":
		return now.Add(time.Duration(n) * time.Minute), nil
	case "hour":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "day":
		return now.AddDate(0, 0, n), nil
	case "week":
		return now.AddDate(0, 0, 7*n), nil
	case "month":
		return now.AddDate(0, n, 0), nil
	case "year":
		return now.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}
