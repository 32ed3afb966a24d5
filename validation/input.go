package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const maxQueryLength = 200

// Patterns that never appear in a legitimate plan, company or medicine search
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "eval(", "expression(", "{$ne:", "{$gt:", "{$where:",
}

// ValidateQuery checks a free-text search query. The empty query is valid.
func ValidateQuery(input string) error {
	if len(input) > maxQueryLength {
		return fmt.Errorf("query too long: %d characters (max %d)", len(input), maxQueryLength)
	}

	for _, r := range input {
		if unicode.IsControl(r) {
			return fmt.Errorf("query contains control characters")
		}
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("query contains a disallowed pattern")
		}
	}
	return nil
}

// ValidateFilterKey checks a selection key taken from a URL
func ValidateFilterKey(key string) error {
	if key == "" {
		return fmt.Errorf("filter key is required")
	}
	if len(key) > 64 {
		return fmt.Errorf("filter key too long: %d characters", len(key))
	}
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return fmt.Errorf("filter key contains invalid character %q", r)
		}
	}
	return nil
}
