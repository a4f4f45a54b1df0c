// Package recipients reads the CSV recipient list. Each data row becomes a
// Row keyed by header, with cells typed the way spreadsheet exports expect:
// empty cells are null, true/false are booleans and numeric text is a number.
package recipients

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RecipientColumn is the mandatory column holding each row's recipient address.
const RecipientColumn = "Recipient email"

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a typed CSV cell.
type Value struct {
	Kind   Kind
	Str    string
	Number decimal.Decimal
	Bool   bool
}

// Parse infers the type of a raw cell.
func Parse(cell string) Value {
	if cell == "" {
		return Value{Kind: KindNull}
	}

	switch {
	case strings.EqualFold(cell, "true"):
		return Value{Kind: KindBool, Bool: true}
	case strings.EqualFold(cell, "false"):
		return Value{Kind: KindBool, Bool: false}
	}

	if trimmed := strings.TrimSpace(cell); looksNumeric(trimmed) {
		if d, err := decimal.NewFromString(trimmed); err == nil {
			return Value{Kind: KindNumber, Number: d}
		}
	}

	return Value{Kind: KindString, Str: cell}
}

// Null reports whether the cell was empty.
func (v Value) Null() bool {
	return v.Kind == KindNull
}

// String renders the value as annotation text.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Number.String()
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// looksNumeric limits number inference to plain decimal notation so that
// identifiers such as "0x1F" or "1_000" stay strings. Surrounding
// whitespace must already be trimmed.
func looksNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}

	digits, dot, exp := 0, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && !exp && digits > 0:
			exp = true
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
			}
			digits = 0
		default:
			return false
		}
	}
	return digits > 0
}

// Row is one recipient record keyed by column header.
type Row map[string]Value

// Get returns the non-null value of column.
func (r Row) Get(column string) (Value, bool) {
	v, ok := r[column]
	if !ok || v.Null() {
		return Value{}, false
	}
	return v, true
}

// Recipient returns the row's recipient address.
func (r Row) Recipient() string {
	v, ok := r.Get(RecipientColumn)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.String())
}
