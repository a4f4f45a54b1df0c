package remote

import "errors"

var (
	// ErrRequestFailed indicates the service answered with a non-2xx status.
	ErrRequestFailed = errors.New("remote request failed")
	// ErrMalformedResponse indicates a response body that could not be used.
	ErrMalformedResponse = errors.New("malformed remote response")
	// ErrFileTooLarge indicates a download exceeding the configured maximum size.
	ErrFileTooLarge = errors.New("file exceeds maximum download size")
)
