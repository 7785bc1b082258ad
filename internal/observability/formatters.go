// Package observability provides formatted output for the terminal commands.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/questions"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidate outputs the collected profile and how many answers it holds.
func (p *Printer) PrintCandidate(rec *intake.CandidateRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:       %s\n", rec.Name)
	fmt.Fprintf(&sb, "Email:      %s\n", rec.Email)
	fmt.Fprintf(&sb, "Phone:      %s\n", rec.Phone)
	if rec.ExperienceYears != nil {
		fmt.Fprintf(&sb, "Experience: %g years\n", *rec.ExperienceYears)
	}

	if len(rec.TechStack) > 0 {
		sb.WriteString("\nTech Stack:\n")
		count := min(len(rec.TechStack), maxItemsToShow)
		for _, tech := range rec.TechStack[:count] {
			fmt.Fprintf(&sb, "  • %s\n", tech)
		}
		if len(rec.TechStack) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(rec.TechStack)-maxItemsToShow)
		}
	}
	fmt.Fprintf(&sb, "\nAnswers recorded: %d", len(rec.Answers))

	p.printBox("CANDIDATE PROFILE", sb.String())
}

// PrintQuestionSet outputs the questions generated for each technology.
func (p *Printer) PrintQuestionSet(set questions.QuestionSet) {
	if set.Total() == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total questions: %d\n\n", set.Total())
	for i, group := range set {
		sb.WriteString(group.Technology + "\n")
		for j, q := range group.Questions {
			fmt.Fprintf(&sb, "  %d. %s\n", j+1, q)
		}
		if i < len(set)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TECHNICAL QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSupported lists the technologies the built-in question bank covers.
func (p *Printer) PrintSupported(techs []string) {
	if len(techs) == 0 {
		return
	}
	var sb strings.Builder
	for _, tech := range techs {
		fmt.Fprintf(&sb, "  • %s\n", tech)
	}
	fmt.Fprintf(&sb, "\n%d technologies", len(techs))
	p.printBox("QUESTION BANK", sb.String())
}

// PrintProgress outputs a one-line progress indicator for a reply.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(progress intake.Progress) {
	const width = 20
	filled := width * progress.Step / max(progress.Total, 1)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(p.out, "[%s] Step %d/%d: %s", bar, progress.Step, progress.Total, progress.Label)
	if progress.TotalQuestions > 0 {
		fmt.Fprintf(p.out, " (question %d of %d)", min(progress.Question, progress.TotalQuestions), progress.TotalQuestions)
	}
	fmt.Fprintln(p.out)
}

// PrintPurge reports a retention sweep.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPurge(removed, retentionDays int) {
	if removed == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NOTHING OLDER THAN "+fmt.Sprint(retentionDays)+" DAYS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox("RETENTION PURGE", fmt.Sprintf("Removed %d sessions older than %d days", removed, retentionDays))
}
