package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ok     bool
		reason string
	}{
		{name: "apostrophe", input: "John O'Brien", ok: true},
		{name: "hyphen and period", input: "Mary-Jane St. Claire", ok: true},
		{name: "comma rejected", input: "John, O'Brien", reason: "Name contains invalid characters"},
		{name: "digits rejected", input: "R2D2", reason: "Name contains invalid characters"},
		{name: "empty", input: "", reason: "Name is required"},
		{name: "whitespace only", input: "   ", reason: "Name is required"},
		{name: "single character after trim", input: "  J  ", reason: "Name must be at least 2 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Name(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		reason string
	}{
		{input: "john@example.com", ok: true},
		{input: "first.last+tag@sub.example.org", ok: true},
		{input: "", reason: "Email is required"},
		{input: "not-an-email", reason: "Please enter a valid email address"},
		{input: "john@", reason: "Please enter a valid email address"},
		{input: "@example.com", reason: "Please enter a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, reason := Email(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		reason string
	}{
		{input: "(555) 123-4567", ok: true},
		{input: "+44 20 7946 0958", ok: true},
		{input: "123456789012345", ok: true},
		{input: "", reason: "Phone number is required"},
		{input: "12345", reason: "Phone number must be at least 10 digits"},
		{input: "call me", reason: "Phone number must be at least 10 digits"},
		{input: "1234567890123456", reason: "Phone number is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, reason := Phone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		reason string
	}{
		{input: "2.5", ok: true},
		{input: "0", ok: true},
		{input: "50", ok: true},
		{input: " 3 ", ok: true},
		{input: "", reason: "Years of experience is required"},
		{input: "-1", reason: "Years of experience cannot be negative"},
		{input: "51", reason: "Years of experience seems too high"},
		{input: "abc", reason: "Please enter a valid number for years of experience"},
		{input: "NaN", reason: "Please enter a valid number for years of experience"},
		{input: "0x1p3", reason: "Please enter a valid number for years of experience"},
		{input: "0x10", reason: "Please enter a valid number for years of experience"},
		{input: "0X8", reason: "Please enter a valid number for years of experience"},
		{input: "1_0", reason: "Please enter a valid number for years of experience"},
		{input: "4.", ok: true},
		{input: ".5", ok: true},
		{input: "+3", ok: true},
		{input: "1e1", ok: true},
		{input: "1e2", reason: "Years of experience seems too high"},
		{input: "inf", reason: "Years of experience seems too high"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, reason := Experience(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestParseExperience(t *testing.T) {
	years, err := ParseExperience("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, years)

	_, err = ParseExperience("-1")
	require.Error(t, err)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "experience", fieldErr.Field)
	assert.Contains(t, fieldErr.Reason, "negative")

	_, err = ParseExperience("abc")
	require.ErrorAs(t, err, &fieldErr)
	assert.Contains(t, fieldErr.Reason, "valid number")
}

func TestTechStack(t *testing.T) {
	ok, reason := TechStack("Python, react , , AWS")
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = TechStack("")
	assert.False(t, ok)
	assert.Equal(t, "Please enter at least one technology", reason)

	ok, reason = TechStack(" , ; | ")
	assert.False(t, ok)
	assert.Equal(t, "Please enter at least one technology", reason)

	eleven := strings.Repeat("Go,", 10) + "Rust"
	ok, reason = TechStack(eleven)
	assert.False(t, ok)
	assert.Equal(t, "Please limit to 10 technologies maximum", reason)
}

func TestSplitTechStack(t *testing.T) {
	assert.Equal(t, []string{"Python", "react", "AWS"}, SplitTechStack("Python, react , , AWS"))
	assert.Equal(t, []string{"Go", "Rust", "C", "Java"}, SplitTechStack("Go\nRust|C;Java"))
	assert.Empty(t, SplitTechStack(",,,"))
}

func TestDistinctTechStack(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust"}, DistinctTechStack("Go, go, Rust, GO"))
	assert.Equal(t, []string{"Python", "react", "AWS"}, DistinctTechStack("Python, react , , AWS"))
	assert.Equal(t, []string{"Go"}, DistinctTechStack(`Go, 'Go', <Go>, "go"`))
	assert.Equal(t, []string{"C++", "Rust"}, DistinctTechStack(`<>, C++, '', Rust`))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(x)/script", Sanitize(`<script>alert("x")</script>`))
	assert.Equal(t, "hi there", Sanitize("  hi; there  "))
	assert.Equal(t, "OBrien", Sanitize("O'Brien"))
	assert.Equal(t, `ab`, Sanitize(`a\b`))
	assert.Equal(t, "", Sanitize(""))

	long := strings.Repeat("a", 600)
	assert.Len(t, Sanitize(long), MaxFieldLength)
}
