package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/ledger"
	"deepaclive/internal/logging"
	"deepaclive/internal/pipeline"
	"deepaclive/internal/preflight"
	"deepaclive/internal/services"
	"deepaclive/internal/stagelock"
)

// stageRun describes one invocation: name labels logs and the ledger run,
// stages lists the pipeline stages it covers (validated, checked and locked
// individually) and build assembles the runners.
type stageRun struct {
	name   string
	stages []string
	build  func(run *stageEnv) ([]pipeline.Runner, error)
}

// stageEnv is what build receives.
type stageEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	env    pipeline.Env
}

// prepareConfig resolves the configuration for the named stages with the
// command's flag overrides applied.
func prepareConfig(cmd *cobra.Command, ctx *commandContext, o *overrides, stages ...string) (*config.Config, error) {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	if err := o.apply(cmd, &cfg); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "flags", "", err)
	}
	for _, stage := range stages {
		if err := cfg.ValidateFor(stage); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, stage, "validate", "", err)
		}
	}
	return &cfg, nil
}

func runStages(cmd *cobra.Command, ctx *commandContext, o *overrides, run stageRun) error {
	cfg, err := prepareConfig(cmd, ctx, o, run.stages...)
	if err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := pipeline.NewRunID()
	logger, logPath, err := logging.NewForStage(cfg, run.name, runID)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, run.name, "init logger", "", err)
	}
	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	for _, stage := range run.stages {
		if err := preflight.Startup(cfg, stage, logger); err != nil {
			return err
		}
	}
	locks := make([]*stagelock.Lock, 0, len(run.stages))
	defer func() {
		for _, lock := range locks {
			_ = lock.Release()
		}
	}()
	for _, stage := range run.stages {
		lock, err := stagelock.Acquire(cfg.Paths.StateDir, stage, stageOutputDir(cfg, stage))
		if err != nil {
			return err
		}
		locks = append(locks, lock)
	}

	env := pipeline.Env{
		Settings: pipeline.SettingsFromConfig(cfg),
		RunID:    runID,
		Logger:   logger,
	}
	store := openLedger(signalCtx, cfg, run.name, runID, logger)
	if store != nil {
		defer store.Close()
		env.Recorder = store
	}

	runners, err := run.build(&stageEnv{cfg: cfg, logger: logger, env: env})
	if err == nil {
		logger.Info("run started",
			logging.String(logging.FieldRunID, runID),
			logging.String("log_file", logPath),
			logging.String("config", ctx.configPath),
		)
		err = pipeline.RunConcurrently(signalCtx, runners...)
	}
	if store != nil {
		if finishErr := store.FinishRun(context.WithoutCancel(signalCtx), runID, err); finishErr != nil {
			logger.Warn("ledger finish failed", logging.Error(finishErr))
		}
	}
	if err != nil {
		if signalCtx.Err() != nil {
			logger.Info("run interrupted")
			return context.Canceled
		}
		return err
	}
	logger.Info("run complete")
	return nil
}

// openLedger opens the run ledger and records the start of the run. The
// ledger only feeds the status command, so failures are logged and the run
// proceeds without it.
func openLedger(ctx context.Context, cfg *config.Config, name, runID string, logger *slog.Logger) *ledger.Store {
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		logging.WarnWithContext(logger, "ledger unavailable", "ledger_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "status will not show this run"),
			logging.String(logging.FieldErrorHint, fmt.Sprintf("check %s", cfg.LedgerPath())),
		)
		return nil
	}
	if err := store.BeginRun(ctx, runID, name); err != nil {
		logging.WarnWithContext(logger, "ledger unavailable", "ledger_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "status will not show this run"),
		)
		_ = store.Close()
		return nil
	}
	return store
}

// stageOutputDir is the directory a stage publishes into; at most one
// process per stage and directory may run.
func stageOutputDir(cfg *config.Config, stage string) string {
	switch stage {
	case config.StageSender, config.StagePush:
		return cfg.Paths.ExchangeDir
	default:
		return cfg.Paths.OutputDir
	}
}
