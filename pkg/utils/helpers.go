package utils

import (
	"strconv"
	"strings"
)

// ParseValue sniffs the type of one CSV cell: int, then float, then the
// trimmed string. Empty cells stay empty strings; the normalizer decides
// what counts as null per column.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
