// Package intake implements the candidate conversation: a forward-only stage
// machine that collects consent, profile fields and technical answers.
package intake

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jonathan/hiring-assistant/internal/questions"
)

// Stage is one phase of the conversation
type Stage int

// Stages in the only order a session may move through them
const (
	StageGreeting Stage = iota
	StageConsent
	StageInfoCollection
	StageTechAssessment
	StageTechnicalQuestions
	StageCompletion
)

// StageCount is the number of stages
const StageCount = int(StageCompletion) + 1

var stageNames = [...]string{
	"greeting",
	"consent",
	"info_collection",
	"tech_assessment",
	"technical_questions",
	"completion",
}

var stageLabels = [...]string{
	"Greeting",
	"Privacy Consent",
	"Information Collection",
	"Tech Assessment",
	"Technical Questions",
	"Complete",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Label is the human readable stage name
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) {
		return s.String()
	}
	return stageLabels[s]
}

// MarshalText encodes the stage by name
func (s Stage) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stageNames) {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText decodes a stage name
func (s *Stage) UnmarshalText(text []byte) error {
	stage, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

// ParseStage returns the stage with the given name
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

// Role identifies who wrote a message
type Role string

// Message roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Answer is a candidate's reply to one technical question
type Answer struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Technology string `json:"technology"`
}

// AnswerKey builds the answers map key for the question at a flattened position.
func AnswerKey(technology string, position int) string {
	return technology + "_" + strconv.Itoa(position)
}

// CandidateRecord is the structured profile built from validated input.
// Fields fill strictly in order: name, email, phone, experience, tech stack.
type CandidateRecord struct {
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	ExperienceYears *float64          `json:"experience_years,omitempty"`
	TechStack       []string          `json:"tech_stack,omitempty"`
	Answers         map[string]Answer `json:"answers,omitempty"`
}

// Experience returns the stored years, or fallback when not yet collected
func (c *CandidateRecord) Experience(fallback float64) float64 {
	if c.ExperienceYears == nil {
		return fallback
	}
	return *c.ExperienceYears
}

// Session is one candidate's conversation state. The caller owns it and
// passes it to Machine.ProcessMessage on every turn.
type Session struct {
	ID        string                `json:"id"`
	Stage     Stage                 `json:"stage"`
	Candidate CandidateRecord       `json:"candidate"`
	Messages  []Message             `json:"messages"`
	Questions questions.QuestionSet `json:"questions,omitempty"`
	// Cursor indexes the next question to ask in Questions.Flatten()
	Cursor int `json:"cursor"`
	// InfoStep indexes the next profile field to collect
	InfoStep  int       `json:"info_step"`
	Consent   bool      `json:"consent"`
	Ended     bool      `json:"ended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session at the greeting stage. When consent is not
// required the consent flag starts set.
func NewSession(id string, now time.Time, requireConsent bool) *Session {
	return &Session{
		ID:        id,
		Stage:     StageGreeting,
		Messages:  []Message{},
		Consent:   !requireConsent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// reset replaces all state except the id, as if the session had just started.
func (s *Session) reset(now time.Time, requireConsent bool) {
	*s = *NewSession(s.ID, now, requireConsent)
}

func (s *Session) append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Progress describes how far a session has come
type Progress struct {
	Step  int    `json:"step"`
	Total int    `json:"total"`
	Label string `json:"label"`
	// Question is the number of technical questions asked so far
	Question       int `json:"question"`
	TotalQuestions int `json:"total_questions"`
}

// Progress reports the 1-based stage step and question counters.
func (s *Session) Progress() Progress {
	return Progress{
		Step:           int(s.Stage) + 1,
		Total:          StageCount,
		Label:          s.Stage.Label(),
		Question:       s.Cursor,
		TotalQuestions: s.Questions.Total(),
	}
}

// Expired reports whether the session is older than timeout. Expiry is
// advisory; nothing terminates an expired session automatically.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.CreatedAt) > timeout
}

// Complete reports whether the assessment reached the final stage
func (s *Session) Complete() bool {
	return s.Stage == StageCompletion
}
