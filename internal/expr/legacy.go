// SPDX-License-Identifier: MPL-2.0

package expr

import "strings"

// EvaluateLegacy is the pre-parser condition evaluator kept for conditions
// that Evaluate rejects. It understands literal booleans, a single
// "a == b" or "a != b" string comparison, and otherwise treats any
// non-empty text as true. It never fails.
func EvaluateLegacy(text string) bool {
	switch strings.ToLower(text) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off", "":
		return false
	}

	if left, right, ok := strings.Cut(text, " == "); ok {
		return strings.TrimSpace(left) == unquote(strings.TrimSpace(right))
	}
	if left, right, ok := strings.Cut(text, " != "); ok {
		return strings.TrimSpace(left) != strings.TrimSpace(right)
	}

	return text != ""
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
