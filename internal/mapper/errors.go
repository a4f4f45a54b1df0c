package mapper

import "errors"

var (
	// ErrRoleNotFound indicates the template references a role it does not declare.
	ErrRoleNotFound = errors.New("role not found")
	// ErrMissingAddress indicates a fixed participant without an address.
	ErrMissingAddress = errors.New("participant has no address")
	// ErrOrderConflict indicates two participants share one routing order.
	ErrOrderConflict = errors.New("routing order conflict")
	// ErrMissingRecipient indicates a row without a recipient address.
	ErrMissingRecipient = errors.New("row has no recipient")
)
