package validation

import (
	"regexp"
	"strings"
)

// Tech stack entry count bounds.
const (
	MinTechnologies = 1
	MaxTechnologies = 10
)

var techSeparators = regexp.MustCompile(`[,;|\n]`)

// TechStack checks a free-text list of technologies.
func TechStack(input string) (bool, string) {
	if strings.TrimSpace(input) == "" {
		return false, "Please enter at least one technology"
	}

	techs := SplitTechStack(input)
	if len(techs) < MinTechnologies {
		return false, "Please enter at least one technology"
	}
	if len(techs) > MaxTechnologies {
		return false, "Please limit to 10 technologies maximum"
	}
	return true, ""
}

// SplitTechStack splits on comma, semicolon, pipe and newline, trims each
// token and drops empties. Order is preserved and duplicates are kept.
func SplitTechStack(input string) []string {
	parts := techSeparators.Split(input, -1)
	techs := make([]string, 0, len(parts))
	for _, part := range parts {
		if tech := strings.TrimSpace(part); tech != "" {
			techs = append(techs, tech)
		}
	}
	return techs
}

// DistinctTechStack splits the input like SplitTechStack, sanitizes each
// entry and removes case-insensitive duplicates among the sanitized values,
// keeping the first spelling seen. Entries that sanitize to nothing are dropped.
func DistinctTechStack(input string) []string {
	techs := SplitTechStack(input)
	seen := make(map[string]bool, len(techs))
	distinct := make([]string, 0, len(techs))
	for _, tech := range techs {
		clean := Sanitize(tech)
		key := strings.ToLower(clean)
		if clean == "" || seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, clean)
	}
	return distinct
}
