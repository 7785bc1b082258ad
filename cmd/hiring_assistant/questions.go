package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-assistant/internal/observability"
	"github.com/jonathan/hiring-assistant/internal/questions"
	"github.com/jonathan/hiring-assistant/internal/validation"
)

var (
	questionsStack   string
	questionsYears   float64
	questionsPerTech int
	questionsJSON    bool
	questionsList    bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Preview the technical questions generated for a tech stack",
	Long:  "Generates questions exactly as a session would after the candidate declares a tech stack. Falls back to the built-in bank when no provider is configured. Use --list to see which technologies the bank covers.",
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().StringVarP(&questionsStack, "stack", "s", "", "Technologies separated by commas")
	questionsCmd.Flags().Float64VarP(&questionsYears, "years", "y", 0, "Years of experience used to pitch difficulty")
	questionsCmd.Flags().IntVarP(&questionsPerTech, "per-tech", "n", 0, "Questions per technology (default questions_per_technology)")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "Print JSON instead of a formatted box")
	questionsCmd.Flags().BoolVar(&questionsList, "list", false, "List the technologies covered by the built-in question bank")

	questionsCmd.MarkFlagsOneRequired("stack", "list")
	questionsCmd.MarkFlagsMutuallyExclusive("stack", "list")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	if questionsList {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSupported(questions.SupportedTechnologies())
		return nil
	}
	if ok, reason := validation.TechStack(questionsStack); !ok {
		return fmt.Errorf("invalid --stack: %s", reason)
	}
	if ok, reason := validation.Experience(fmt.Sprint(questionsYears)); !ok {
		return fmt.Errorf("invalid --years: %s", reason)
	}
	if questionsPerTech < 0 || questionsPerTech > questions.MaxPerTechnology {
		return fmt.Errorf("--per-tech must be between 1 and %d, got %d", questions.MaxPerTechnology, questionsPerTech)
	}

	return withApp(cmd.Context(), os.Stderr, func(a *app) error {
		perTech := questionsPerTech
		if perTech == 0 {
			perTech = a.cfg.QuestionsPerTechnology
		}

		stack := validation.DistinctTechStack(questionsStack)
		for _, note := range bankNotes(stack, a.adapter.Available()) {
			fmt.Fprintln(cmd.ErrOrStderr(), note)
		}
		set := a.supplier.Supply(cmd.Context(), stack, questionsYears, perTech)

		if questionsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(set)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintQuestionSet(set)
		return nil
	})
}

// bankNotes warns about technologies that only get generic questions because
// no provider is configured and the built-in bank does not cover them.
func bankNotes(stack []string, generationAvailable bool) []string {
	if generationAvailable {
		return nil
	}
	var notes []string
	for _, tech := range stack {
		if !questions.Known(tech) {
			notes = append(notes, fmt.Sprintf("note: %s is not in the built-in bank; it gets generic questions", tech))
		}
	}
	return notes
}
