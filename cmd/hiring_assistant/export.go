package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-assistant/internal/schemas"
	"github.com/jonathan/hiring-assistant/internal/store"
)

var (
	exportSession string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a completed session's candidate record as JSON",
	Long:  "Loads the candidate record stored when a session completed, validates it against the candidate schema and writes it to stdout or --out.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Session ID (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")

	if err := exportCmd.MarkFlagRequired("session"); err != nil {
		panic(fmt.Sprintf("failed to mark session flag as required: %v", err))
	}
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), os.Stderr, func(a *app) error {
		rec, err := a.sessions.Candidate(cmd.Context(), exportSession)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no completed candidate record for session %s", exportSession)
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal candidate: %w", err)
		}
		// Validate the exact bytes that leave the process
		if err := schemas.ValidateCandidateJSON(data); err != nil {
			return fmt.Errorf("stored record is invalid: %w", err)
		}
		data = append(data, '\n')

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	})
}
