package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-assistant/internal/config"
	"github.com/jonathan/hiring-assistant/internal/privacy"
)

var privacyCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Print the privacy notice shown before data collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), privacy.PrivacyNotice(cfg.NoticeOptions()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(privacyCmd)
}
