// Package validation provides field validators for candidate intake input.
//
// Every validator takes one raw input string and reports whether it was
// accepted, together with a human-readable reason when it was not. Validators
// never mutate state and are safe to call repeatedly.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Experience bounds in years.
const (
	MinExperienceYears = 0.0
	MaxExperienceYears = 50.0
)

// Phone digit count bounds after stripping non-digit characters.
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s\-.']+$`)
	nonDigit    = regexp.MustCompile(`\D`)

	// decimal notation only; strconv would also take hex floats like 0x1p3
	experiencePattern = regexp.MustCompile(`(?i)^[+-]?(\d+(\.\d*)?|\.\d+)(e[+-]?\d+)?$|^[+-]?(inf|infinity)$`)

	// validate is shared; validator caches struct metadata and is safe for concurrent use.
	validate = validator.New()
)

// Validate returns the shared validator instance so other packages can run
// struct validation with the same tag rules.
func Validate() *validator.Validate {
	return validate
}

// Name checks a candidate's full name.
func Name(input string) (bool, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false, "Name is required"
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return false, "Name must be at least 2 characters long"
	}
	if !namePattern.MatchString(trimmed) {
		return false, "Name contains invalid characters"
	}
	return true, ""
}

// Email checks standard email address syntax.
func Email(input string) (bool, string) {
	if input == "" {
		return false, "Email is required"
	}
	if err := validate.Var(input, "required,email"); err != nil {
		return false, "Please enter a valid email address"
	}
	return true, ""
}

// Phone checks that the input carries between 10 and 15 digits once all
// other characters are removed.
func Phone(input string) (bool, string) {
	if input == "" {
		return false, "Phone number is required"
	}

	digits := nonDigit.ReplaceAllString(input, "")
	if len(digits) < MinPhoneDigits {
		return false, "Phone number must be at least 10 digits"
	}
	if len(digits) > MaxPhoneDigits {
		return false, "Phone number is too long"
	}
	return true, ""
}

// Experience checks years of professional experience.
func Experience(input string) (bool, string) {
	_, reason := parseExperience(input)
	return reason == "", reason
}

// ParseExperience returns the parsed years of experience, or a *FieldError
// carrying the same reason Experience reports.
func ParseExperience(input string) (float64, error) {
	years, reason := parseExperience(input)
	if reason != "" {
		return 0, &FieldError{Field: "experience", Reason: reason}
	}
	return years, nil
}

func parseExperience(input string) (float64, string) {
	if input == "" {
		return 0, "Years of experience is required"
	}

	trimmed := strings.TrimSpace(input)
	if !experiencePattern.MatchString(trimmed) {
		return 0, "Please enter a valid number for years of experience"
	}
	years, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(years) {
		return 0, "Please enter a valid number for years of experience"
	}
	if years < MinExperienceYears {
		return 0, "Years of experience cannot be negative"
	}
	if years > MaxExperienceYears {
		return 0, "Years of experience seems too high"
	}
	return years, ""
}
