package intake

import "strings"

// exitKeywords end the conversation on an exact or substring match.
var exitKeywords = []string{
	"exit", "quit", "bye", "goodbye", "stop", "end", "finish",
	"no thanks", "not interested", "cancel",
}

var deletionPhrases = []string{"delete my data", "delete data"}

var (
	consentStageWords = wordSet("continue", "proceed", "next", "yes")
	consentGiven      = wordSet("i consent", "consent", "agree", "i agree")
	readyWords        = wordSet("ready", "start", "begin", "yes")
)

// ExitIntent is the kind of early termination a message asks for
type ExitIntent int

const (
	// ExitNone means the message does not end the conversation
	ExitNone ExitIntent = iota
	// ExitLeave ends the conversation
	ExitLeave
	// ExitDelete ends the conversation and requests data deletion
	ExitDelete
)

// DetectExit classifies normalized (lowercased, trimmed) input. Deletion
// phrases are checked first so a request like "stop and delete my data"
// always triggers deletion.
func DetectExit(normalized string) ExitIntent {
	if normalized == "" {
		return ExitNone
	}
	for _, phrase := range deletionPhrases {
		if strings.Contains(normalized, phrase) {
			return ExitDelete
		}
	}
	for _, kw := range exitKeywords {
		if normalized == kw || strings.Contains(normalized, kw) {
			return ExitLeave
		}
	}
	return ExitNone
}

// IsRestart reports whether normalized input asks to start over
func IsRestart(normalized string) bool {
	return normalized == "restart"
}

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
