// Package prompts holds the text-generation templates used during a candidate
// assessment. Templates are embedded from assessment.json and use {{.Name}}
// placeholders.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed assessment.json
var assessmentJSON []byte

// Key names one template
type Key string

const (
	QuestionGenerator    Key = "technical-question-generator"
	ResponseEvaluator    Key = "response-evaluator"
	ConversationEnhancer Key = "conversation-enhancer"
)

// Keys lists every template the assistant depends on.
func Keys() []Key {
	return []Key{QuestionGenerator, ResponseEvaluator, ConversationEnhancer}
}

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// MissingValuesError reports placeholders that Render had no value for.
type MissingValuesError struct {
	Key   Key
	Names []string
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("prompt %s missing values for %s", e.Key, strings.Join(e.Names, ", "))
}

// catalog parses the embedded file once and checks every Key is present.
var catalog = sync.OnceValues(func() (map[Key]string, error) {
	var raw map[Key]string
	if err := json.Unmarshal(assessmentJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse assessment prompts: %w", err)
	}
	for _, key := range Keys() {
		if strings.TrimSpace(raw[key]) == "" {
			return nil, fmt.Errorf("assessment prompts have no %q template", key)
		}
	}
	return raw, nil
})

// Get returns the unfilled template for key.
func Get(key Key) (string, error) {
	templates, err := catalog()
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return template, nil
}

// Placeholders returns the distinct placeholder names in template, in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Fill substitutes data into template in a single pass, so values that look
// like placeholders are left as written.
func Fill(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render fills the template for key. Every placeholder needs a value; a
// missing one yields *MissingValuesError.
func Render(key Key, data map[string]string) (string, error) {
	template, err := Get(key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingValuesError{Key: key, Names: missing}
	}
	return Fill(template, data), nil
}
