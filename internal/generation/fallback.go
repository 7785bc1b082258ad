package generation

import (
	"math/rand/v2"
	"strings"
)

// Category is the prompt family used to pick canned text
type Category int

const (
	// CategoryConversation covers any prompt not matched by the other categories
	CategoryConversation Category = iota
	// CategoryQuestions covers technical question generation prompts
	CategoryQuestions
	// CategoryEvaluation covers answer acknowledgment prompts
	CategoryEvaluation
)

func (c Category) String() string {
	switch c {
	case CategoryQuestions:
		return "questions"
	case CategoryEvaluation:
		return "evaluation"
	default:
		return "conversation"
	}
}

// FallbackQuestions is the canned numbered list returned for question prompts.
const FallbackQuestions = "1. Describe a challenging project you've worked on and how you approached solving the technical problems.\n" +
	"2. How do you ensure code quality and maintainability in your projects?\n" +
	"3. Explain a time when you had to learn a new technology quickly. How did you approach it?"

// FallbackContinue is the canned reply for prompts of any other kind.
const FallbackContinue = "Thank you for your response. Let's continue with the next step."

// FallbackAcknowledgments are the canned replies for evaluation prompts.
var FallbackAcknowledgments = []string{
	"Thank you for that detailed explanation. Your experience shows good technical understanding.",
	"I appreciate your thorough response. That demonstrates solid problem-solving skills.",
	"Great answer! Your approach shows good technical thinking and practical experience.",
}

// Classify sniffs a prompt for the keywords that select a canned reply.
func Classify(prompt string) Category {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "technical question"):
		return CategoryQuestions
	case strings.Contains(lower, "evaluate"), strings.Contains(lower, "response"):
		return CategoryEvaluation
	default:
		return CategoryConversation
	}
}

// canned returns deterministic fallback text for a category.
// Only the acknowledgment choice draws from rng.
func canned(category Category, rng *rand.Rand) string {
	switch category {
	case CategoryQuestions:
		return FallbackQuestions
	case CategoryEvaluation:
		return FallbackAcknowledgments[rng.IntN(len(FallbackAcknowledgments))]
	default:
		return FallbackContinue
	}
}
