package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-assistant/internal/server"
	"github.com/jonathan/hiring-assistant/internal/server/ratelimit"
)

var (
	servePort    string
	serveOrigins string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket API",
	Long:  `Start an HTTP server that runs screening conversations over REST and WebSocket. SESSION_SECRET must be set.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "", "Comma-separated allowed origins for CORS and WebSocket (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, os.Stderr, func(a *app) error {
		jwtCfg, err := a.cfg.JWT()
		if err != nil {
			return fmt.Errorf("failed to create session token config: %w", err)
		}

		port := a.cfg.Port
		if servePort != "" {
			port = servePort
		}

		srv := server.New(server.Config{
			Port:           port,
			Sessions:       a.sessions,
			Tokens:         server.NewTokenService(jwtCfg),
			RateLimit:      ratelimit.LoadConfig(os.LookupEnv),
			Metrics:        a.recorder.Handler(),
			Notice:         a.cfg.NoticeOptions(),
			AllowedOrigins: splitList(serveOrigins),
			Logger:         a.logger,
		})
		return srv.Start(ctx)
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
