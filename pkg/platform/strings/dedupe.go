// Package strings holds small helpers for code lists read from config.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each entry and drops blanks and repeats, keeping the
// first occurrence. A nil or empty input is returned as is.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ContainsAny returns the first fragment found inside s. Empty fragments
// never match.
func ContainsAny(s string, fragments []string) (string, bool) {
	for _, f := range fragments {
		if f != "" && strings.Contains(s, f) {
			return f, true
		}
	}
	return "", false
}
