package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-assistant/internal/observability"
)

var purgeDays int

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete sessions, candidates and audit records past the retention period",
	Long:  "Removes stored data older than data_retention_days (or --days). Run it from cron or a scheduler; nothing purges automatically.",
	RunE:  runPurge,
}

func init() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", 0, "Retention in days (overrides data_retention_days)")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), os.Stderr, func(a *app) error {
		days := a.cfg.DataRetentionDays
		if purgeDays > 0 {
			days = purgeDays
		}
		removed, err := a.sessions.Purge(cmd.Context(), time.Duration(days)*24*time.Hour)
		if err != nil {
			return err
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintPurge(removed, days)
		return nil
	})
}
