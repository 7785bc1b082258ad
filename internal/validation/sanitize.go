package validation

import (
	"regexp"
	"strings"
)

// MaxFieldLength is the number of characters kept by Sanitize.
const MaxFieldLength = 500

var unsafeChars = regexp.MustCompile(`[<>"';\\]`)

// Sanitize strips characters that are unsafe to echo back or store
// (< > " ' ; \), truncates to MaxFieldLength characters and trims whitespace.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	sanitized := unsafeChars.ReplaceAllString(text, "")

	runes := []rune(sanitized)
	if len(runes) > MaxFieldLength {
		sanitized = string(runes[:MaxFieldLength])
	}

	return strings.TrimSpace(sanitized)
}
