package recipients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// LoadFile reads the recipient list at path.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipients: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a header row followed by data rows. Blank lines are skipped and
// short rows leave their trailing columns null.
func Load(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFeed
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if !slices.Contains(header, RecipientColumn) {
		return nil, ErrMissingRecipientColumn
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if blank(record) {
			continue
		}

		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = Parse(record[i])
			} else {
				row[column] = Value{Kind: KindNull}
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
