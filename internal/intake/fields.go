package intake

import (
	"github.com/jonathan/hiring-assistant/internal/validation"
)

// fieldStep describes one profile field collected during info collection.
type fieldStep struct {
	field    string
	validate func(string) (bool, string)
	store    func(*CandidateRecord, string)
	// prompt asks again for this field after a rejection
	prompt string
	// next asks for whatever follows once this field is stored
	next string
}

// fieldSteps is walked by Session.InfoStep. Order is fixed.
var fieldSteps = []fieldStep{
	{
		field:    "name",
		validate: validation.Name,
		store:    func(c *CandidateRecord, v string) { c.Name = validation.Sanitize(v) },
		prompt:   promptName,
		next:     nextEmail,
	},
	{
		field:    "email",
		validate: validation.Email,
		store:    func(c *CandidateRecord, v string) { c.Email = validation.Sanitize(v) },
		prompt:   promptEmail,
		next:     nextPhone,
	},
	{
		field:    "phone",
		validate: validation.Phone,
		store:    func(c *CandidateRecord, v string) { c.Phone = validation.Sanitize(v) },
		prompt:   promptPhone,
		next:     nextExperience,
	},
	{
		field:    "experience",
		validate: validation.Experience,
		store: func(c *CandidateRecord, v string) {
			// Experience is stored as the parsed number, not sanitized text
			years, err := validation.ParseExperience(v)
			if err == nil {
				c.ExperienceYears = &years
			}
		},
		prompt: promptExperience,
		next:   nextTechStack,
	},
}
