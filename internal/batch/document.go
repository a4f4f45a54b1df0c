package batch

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	api.DisableConfigDir()
}

// pageCount reads the document as a PDF, rejecting anything that is not one.
func pageCount(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return n, nil
}
