package timespan

import "errors"

var (
	// ErrUnknownType indicates a span whose type is neither exact nor relative.
	ErrUnknownType = errors.New("unknown time span type")
	// ErrUnknownUnit indicates a relative span with an unsupported unit.
	ErrUnknownUnit = errors.New("unknown time span unit")
	// ErrMissingDate indicates an exact span without a timestamp.
	ErrMissingDate = errors.New("exact time span has no date")
)
