package batch

import "errors"

// ErrInvalidDocument indicates the downloaded template file is not a readable PDF.
var ErrInvalidDocument = errors.New("template document is not a valid PDF")
