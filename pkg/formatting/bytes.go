// Package formatting converts byte counts to and from human-readable sizes.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// ParseBytes parses sizes such as "50MB", "1.5 gb" or "2048" (bytes) using
// base-1024 units.
func ParseBytes(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp := 0
	if m[2] != "" {
		exp = slices.Index(units, strings.ToUpper(m[2]))
		if exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit %q", m[2])
		}
	}

	return int64(n * math.Pow(1024, float64(exp))), nil
}

// FormatBytes renders n with one decimal in the largest unit that keeps the
// value at or above 1.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n)
	exp := 0
	for v >= 1024 && exp < len(units)-1 {
		v /= 1024
		exp++
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + units[exp]
}
