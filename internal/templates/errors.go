package templates

import "errors"

// ErrInvalidFieldConfig indicates an annotation field whose config is not
// valid JSON.
var ErrInvalidFieldConfig = errors.New("invalid field config")
