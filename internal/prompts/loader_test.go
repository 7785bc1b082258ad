package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EveryKeyHasTemplate(t *testing.T) {
	for _, key := range Keys() {
		t.Run(string(key), func(t *testing.T) {
			template, err := Get(key)
			require.NoError(t, err)
			assert.NotEmpty(t, template)
		})
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get(Key("nonexistent-key"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPlaceholders(t *testing.T) {
	template, err := Get(ResponseEvaluator)
	require.NoError(t, err)

	assert.Equal(t, []string{"Question", "Technology", "Answer"}, Placeholders(template))
	assert.Equal(t, []string{"A"}, Placeholders("{{.A}} and {{.A}} again"))
	assert.Empty(t, Placeholders("no placeholders here"))
}

func TestFill(t *testing.T) {
	got := Fill("Hello {{.Name}}, welcome to {{.Company}}!", map[string]string{
		"Name":    "Ada",
		"Company": "TalentScout",
	})
	assert.Equal(t, "Hello Ada, welcome to TalentScout!", got)
}

func TestFill_ValuesAreNotExpandedAgain(t *testing.T) {
	got := Fill("{{.Answer}} / {{.Technology}}", map[string]string{
		"Answer":     "I would print {{.Technology}}",
		"Technology": "Go",
	})
	assert.Equal(t, "I would print {{.Technology}} / Go", got)
}

func TestRender_QuestionGenerator(t *testing.T) {
	prompt, err := Render(QuestionGenerator, map[string]string{
		"NumQuestions":    "3",
		"Technology":      "Go",
		"ExperienceLevel": "mid-level",
		"Years":           "4",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Generate 3 relevant")
	assert.Contains(t, prompt, "experience in Go")
	assert.Contains(t, prompt, "mid-level level (4 years experience)")
	assert.NotContains(t, prompt, "{{.")
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render(ResponseEvaluator, map[string]string{
		"Question": "What is a goroutine?",
	})
	require.Error(t, err)

	var missing *MissingValuesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ResponseEvaluator, missing.Key)
	assert.Equal(t, []string{"Technology", "Answer"}, missing.Names)
}

func TestRender_AnswerContainingPlaceholderSyntax(t *testing.T) {
	prompt, err := Render(ResponseEvaluator, map[string]string{
		"Question":   "How do templates work?",
		"Technology": "Go",
		"Answer":     "You write {{.Name}} in the template",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "You write {{.Name}} in the template")
}

func TestRender_ConversationEnhancer(t *testing.T) {
	prompt, err := Render(ConversationEnhancer, map[string]string{
		"Context":   "consent",
		"UserInput": "what is this?",
		"Stage":     "consent",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "TalentScout")
	assert.Contains(t, prompt, "User Input: what is this?")
}
