package questions

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/hiring-assistant/internal/llm"
)

// leadingMarker matches list numbering ("1.", "2)") or a bullet ("-", "•").
var leadingMarker = regexp.MustCompile(`^(?:\d+\s*[.):]|[-•])\s*`)

// Parse extracts discrete questions from generated text. Only lines that open
// with a digit, hyphen or bullet are kept, with the marker stripped.
func Parse(text string) []string {
	var out []string
	for _, line := range llm.NonEmptyLines(llm.StripCodeFence(text)) {
		first, _ := firstRune(line)
		if !unicode.IsDigit(first) && first != '-' && first != '•' {
			continue
		}
		// Markdown emphasis around the question is dropped too
		q := strings.TrimSpace(strings.Trim(leadingMarker.ReplaceAllString(line, ""), "*"))
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

// Fit truncates or pads generated questions to exactly n entries.
func Fit(technology string, generated []string, n int) []string {
	out := make([]string, 0, n)
	for _, q := range generated {
		if len(out) == n {
			return out
		}
		out = append(out, q)
	}
	for _, q := range paddingQuestions(technology) {
		if len(out) == n {
			break
		}
		out = append(out, q)
	}
	return out
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
