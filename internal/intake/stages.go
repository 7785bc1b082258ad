package intake

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/validation"
)

// turn carries one ProcessMessage call through the stage handlers.
type turn struct {
	m     *Machine
	s     *Session
	raw   string
	lower string
	ack   string
}

func (t *turn) dispatch(ctx context.Context) (string, error) {
	switch t.s.Stage {
	case StageGreeting:
		return t.m.greet(t.s), nil
	case StageConsent:
		return t.consent(ctx), nil
	case StageInfoCollection:
		return t.infoCollection(ctx)
	case StageTechAssessment:
		return t.techAssessment(ctx), nil
	case StageTechnicalQuestions:
		return t.technicalQuestions(ctx)
	case StageCompletion:
		return MsgCompleted, nil
	default:
		return "", &StateError{Stage: t.s.Stage, Reason: "unknown stage"}
	}
}

func (t *turn) consent(ctx context.Context) string {
	if !consentStageWords[t.lower] {
		return t.m.nudge(ctx, t.s, t.raw,
			"The candidate must type 'continue' to read the privacy notice before the assessment can start.",
			MsgConsentReprompt)
	}

	t.s.Stage = StageInfoCollection
	notice := privacy.PrivacyNotice(t.m.opts.Notice)
	if t.s.Consent {
		// Consent is not required, so go straight to the first field
		return notice + "\n\n" + consentThanksMessage()
	}
	return notice + "\n\n" + MsgConsentRequest
}

func (t *turn) infoCollection(ctx context.Context) (string, error) {
	if !t.s.Consent {
		if !consentGiven[t.lower] {
			return t.m.nudge(ctx, t.s, t.raw,
				"The candidate must type 'I consent' to accept the privacy notice before sharing details.",
				MsgConsentGate), nil
		}
		t.s.Consent = true
		t.m.audit(ctx, t.s.ID, audit.InteractionConsentGiven, map[string]any{
			"timestamp": t.m.now().UTC().Format(time.RFC3339),
		})
		return consentThanksMessage(), nil
	}

	if t.s.InfoStep < 0 || t.s.InfoStep >= len(fieldSteps) {
		return "", &StateError{Stage: t.s.Stage, Reason: "all profile fields already collected"}
	}

	step := fieldSteps[t.s.InfoStep]
	input := strings.TrimSpace(t.raw)
	if ok, reason := step.validate(input); !ok {
		return rejection(reason, step.prompt), nil
	}
	step.store(&t.s.Candidate, input)
	t.s.InfoStep++

	if t.s.InfoStep == len(fieldSteps) {
		t.s.Stage = StageTechAssessment
	}
	return step.next, nil
}

func (t *turn) techAssessment(ctx context.Context) string {
	if ok, reason := validation.TechStack(t.raw); !ok {
		return rejection(reason, MsgTechReprompt)
	}

	stack := validation.DistinctTechStack(t.raw)
	if len(stack) == 0 {
		return rejection("Please enter at least one technology", MsgTechReprompt)
	}

	c := &t.s.Candidate
	years := c.Experience(DefaultExperienceYears)
	set := t.m.supplier.Supply(ctx, stack, years, t.m.opts.PerTechnology)

	c.TechStack = stack
	t.s.Questions = set
	t.s.Cursor = 0
	t.m.audit(ctx, t.s.ID, audit.InteractionProfileCompleted, map[string]any{
		"name":       c.Name,
		"email":      c.Email,
		"phone":      c.Phone,
		"experience": years,
		"tech_stack": stack,
	})
	t.s.Stage = StageTechnicalQuestions

	return techSummaryMessage(stack, years, set.Total())
}

// technicalQuestions stores the answer to the previously asked question,
// then either completes the assessment or asks the next question. One call
// advances the cursor by at most one.
func (t *turn) technicalQuestions(ctx context.Context) (string, error) {
	s := t.s
	// Recomputed every call so cursor positions always line up
	items := s.Questions.Flatten()
	if len(items) == 0 {
		t.m.logger.Error("technical questions stage without questions", "session", s.ID)
		return MsgNoQuestions, nil
	}

	if s.Cursor == 0 && !readyWords[t.lower] {
		return MsgReadyReprompt, nil
	}
	if s.Cursor < 0 || s.Cursor > len(items) {
		return "", &StateError{Stage: s.Stage, Reason: "question cursor out of range"}
	}

	if s.Cursor > 0 && strings.TrimSpace(t.raw) != "" {
		prev := items[s.Cursor-1]
		if s.Candidate.Answers == nil {
			s.Candidate.Answers = make(map[string]Answer)
		}
		s.Candidate.Answers[AnswerKey(prev.Technology, prev.Position)] = Answer{
			Question:   prev.Text,
			Answer:     validation.Sanitize(t.raw),
			Technology: prev.Technology,
		}

		t.ack = t.m.acknowledge(ctx, prev, t.raw)
		s.append(RoleAssistant, t.ack)
	}

	if s.Cursor >= len(items) {
		s.Stage = StageCompletion
		t.m.audit(ctx, s.ID, audit.InteractionAssessmentDone, map[string]any{
			"total_questions":       s.Cursor,
			"technologies_assessed": s.Questions.Technologies(),
		})
		return completionMessage(t.m.opts.Company, &s.Candidate), nil
	}

	next := items[s.Cursor]
	s.Cursor++
	return questionMessage(s.Cursor, len(items), next.Technology, next.Text), nil
}
