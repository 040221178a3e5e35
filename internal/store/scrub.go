package store

import "strings"

// ScrubOption redacts the value portion of an option token before it is persisted.
// For any token containing at least two '=' characters, everything after the second
// '=' is replaced with the literal "<SCRUBBED>" (the second '=' itself is kept);
// shorter tokens (zero or one '=') pass through unchanged. Ported field-for-field
// from the original implementation's envscrub rule, including its edge cases around
// trailing '='.
func ScrubOption(s string) string {
	first := strings.IndexByte(s, '=')
	if first < 0 {
		return s
	}
	if first+1 >= len(s) {
		return s
	}
	second := strings.IndexByte(s[first+1:], '=')
	if second < 0 {
		return s
	}
	if first+second+2 >= len(s) {
		return s
	}
	return s[:first+second+1] + "=<SCRUBBED>"
}
