// Package questions supplies the technical questions asked during an
// assessment, preferring generated text and falling back to a curated bank.
package questions

// TechQuestions is the ordered question list for one technology
type TechQuestions struct {
	Technology string   `json:"technology"`
	Questions  []string `json:"questions"`
}

// QuestionSet keeps technologies in the order the candidate listed them.
type QuestionSet []TechQuestions

// Item is one entry of the flattened question sequence
type Item struct {
	// Position is the zero-based index across the whole set
	Position   int
	Technology string
	Text       string
}

// Flatten concatenates every technology's questions, technology order first
// and question order second. The result is identical on every call.
func (qs QuestionSet) Flatten() []Item {
	items := make([]Item, 0, qs.Total())
	for _, tq := range qs {
		for _, q := range tq.Questions {
			items = append(items, Item{Position: len(items), Technology: tq.Technology, Text: q})
		}
	}
	return items
}

// Total is the number of questions across all technologies
func (qs QuestionSet) Total() int {
	n := 0
	for _, tq := range qs {
		n += len(tq.Questions)
	}
	return n
}

// Technologies lists the technologies in set order
func (qs QuestionSet) Technologies() []string {
	techs := make([]string, 0, len(qs))
	for _, tq := range qs {
		techs = append(techs, tq.Technology)
	}
	return techs
}

// For returns the questions for a technology, or nil
func (qs QuestionSet) For(technology string) []string {
	for _, tq := range qs {
		if tq.Technology == technology {
			return tq.Questions
		}
	}
	return nil
}
