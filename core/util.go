package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SameText reports whether a and b are equal once cleaned, ignoring case.
func SameText(a, b string) bool {
	return strings.EqualFold(CleanString(a), CleanString(b))
}

// ContainsText reports whether s contains substr, ignoring case and surrounding space.
func ContainsText(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), CleanString(substr, true /* lower */))
}
