package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/config"
	"github.com/jonathan/hiring-assistant/internal/generation"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/llm"
	"github.com/jonathan/hiring-assistant/internal/metrics"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/questions"
	"github.com/jonathan/hiring-assistant/internal/session"
	"github.com/jonathan/hiring-assistant/internal/store"
)

// app holds the wired components shared by every command
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   llm.Client
	adapter  *generation.Adapter
	supplier *questions.Supplier
	recorder *metrics.Recorder
	store    store.Store
	auditor  *audit.Logger
	nats     *audit.NATSSink
	machine  *intake.Machine
	sessions *session.Manager
}

// newApp wires configuration into a ready conversation stack. Without an
// API key the assistant still runs on the built-in question bank and
// canned replies.
func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := cfg.Logger(logOut)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, recorder: metrics.NewRecorder()}

	modelCfg, err := cfg.ModelConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid model configuration: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("no API key configured, using built-in questions and replies",
			"provider", modelCfg.Provider, "env", llm.APIKeyEnv(modelCfg.Provider))
	} else {
		a.client, err = llm.NewClient(ctx, modelCfg, cfg.LLM.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	}

	var budget *generation.Budget
	if cfg.LLM.MaxPromptTokens > 0 {
		if budget, err = generation.NewBudget(cfg.LLM.MaxPromptTokens); err != nil {
			logger.Warn("token budget unavailable, estimating by length", "error", err)
		}
	}
	a.adapter = generation.NewAdapter(a.client, cfg.GenerationOptions(),
		generation.WithMetrics(a.recorder),
		generation.WithBudget(budget),
		generation.WithLogger(logger),
	)
	a.supplier = questions.NewSupplier(a.adapter, nil, logger)

	var sealer *privacy.Sealer
	if cfg.EncryptionKey != "" {
		if sealer, err = privacy.NewSealer(cfg.EncryptionKey); err != nil {
			a.close()
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
	}
	if a.store, err = store.Open(ctx, cfg.StoreDSN(), sealer); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a.auditor = audit.NewLogger(logger, audit.NewSlogSink(logger), audit.NewStoreSink(a.store))
	if cfg.NATSURL != "" {
		if a.nats, err = audit.NewNATSSink(cfg.NATSURL, cfg.NATSSubject, logger); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect audit broker: %w", err)
		}
		a.auditor.AddSink(a.nats)
	}

	a.machine = intake.NewMachine(cfg.MachineOptions(), a.adapter, a.supplier, a.auditor,
		intake.WithObserver(a.recorder),
		intake.WithLogger(logger),
	)
	a.sessions = session.NewManager(a.machine, a.store, a.auditor,
		session.WithTimeout(cfg.SessionTimeout()),
		session.WithLogger(logger),
	)
	return a, nil
}

// close releases the broker connection, the store and the provider client
func (a *app) close() error {
	var errs []error
	if a.nats != nil {
		errs = append(errs, a.nats.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	return errors.Join(errs...)
}

// withApp loads configuration, wires the app and closes it after fn
func withApp(ctx context.Context, logOut io.Writer, fn func(*app) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logOut)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.logger.Warn("failed to close resources", "error", err)
		}
	}()
	return fn(a)
}
