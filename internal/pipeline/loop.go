package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"deepaclive/internal/config"
	"deepaclive/internal/ledger"
	"deepaclive/internal/logging"
	"deepaclive/internal/services"
	"deepaclive/internal/unit"
	"deepaclive/internal/waiter"
)

// Settings are the run parameters every stage shares.
type Settings struct {
	ReadLength   int
	Cycles       []int
	Barcodes     []string
	Layout       unit.Layout
	PollInterval time.Duration
}

// SettingsFromConfig extracts the shared run parameters.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ReadLength: cfg.Run.ReadLength,
		Cycles:     cfg.Run.Cycles,
		Barcodes:   cfg.Run.Barcodes,
		Layout: unit.Layout{
			Prefix: cfg.Layout.Prefix,
			Tag:    cfg.Layout.Tag,
			RawExt: cfg.Layout.RawExt,
		},
		PollInterval: cfg.PollInterval(),
	}
}

// WaitFunc blocks until check holds or ctx ends.
type WaitFunc func(ctx context.Context, check waiter.Check, interval time.Duration) error

// Recorder receives processed units.
type Recorder interface {
	RecordUnit(ctx context.Context, u ledger.Unit) error
}

// Env carries what a stage needs besides its own collaborators. Wait defaults
// to waiter.Await; Recorder may be nil.
type Env struct {
	Settings Settings
	Wait     WaitFunc
	Recorder Recorder
	RunID    string
	Logger   *slog.Logger
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Outcome summarizes one processed unit.
type Outcome struct {
	Paired   bool
	Reads    int
	Accepted int
	Rejected int
	Skipped  bool
}

type processor interface {
	ready(addr unit.Address) bool
	process(ctx context.Context, addr unit.Address) (Outcome, error)
}

// loop is the state machine shared by all stages.
type loop struct {
	stage    string
	env      Env
	logger   *slog.Logger
	received string
	finished string
}

func newLoop(stage string, env Env, received, finished string) *loop {
	if env.Wait == nil {
		env.Wait = waiter.Await
	}
	return &loop{
		stage:    stage,
		env:      env,
		logger:   logging.NewComponentLogger(env.Logger, stage),
		received: received,
		finished: finished,
	}
}

func (l *loop) run(ctx context.Context, p processor) error {
	ctx = services.WithStage(ctx, l.stage)
	ctx = services.WithRunID(ctx, l.env.RunID)
	settings := l.env.Settings
	cursor := unit.NewCursor(settings.Cycles, settings.Barcodes)

	logger := logging.WithContext(ctx, l.logger)
	logger.Info("stage ready",
		logging.Int("units", cursor.Remaining()),
		logging.Int("read_length", settings.ReadLength),
		logging.Duration("poll_interval", settings.PollInterval),
	)
	if first, ok := cursor.Current(); ok {
		logger.Info("now awaiting cycle", logging.Int("next_cycle", first.Cycle))
	}

	for !cursor.Done() {
		addr, _ := cursor.Current()
		unitCtx := services.WithUnit(ctx, addr.Cycle, addr.Barcode)
		unitLogger := logging.WithContext(unitCtx, l.logger)

		if err := l.env.Wait(unitCtx, func() bool { return p.ready(addr) }, settings.PollInterval); err != nil {
			return err
		}
		unitLogger.Info(l.received, logging.Bool("paired", !addr.SingleEnded(settings.ReadLength)))

		started := time.Now()
		outcome, err := p.process(unitCtx, addr)
		if err != nil {
			logging.ErrorWithContext(unitLogger, "unit failed", "unit_failed",
				logging.Error(err),
				logging.ErrorKind(err),
				logging.String(logging.FieldErrorHint, "fix the cause and rerun the stage; published artifacts are reused as they are"),
			)
			return err
		}
		unitLogger.Debug("unit processed",
			logging.Int("reads", outcome.Reads),
			logging.Int("accepted", outcome.Accepted),
			logging.Int("rejected", outcome.Rejected),
			logging.Bool("skipped", outcome.Skipped),
			logging.Duration("elapsed", time.Since(started)),
		)
		l.record(unitCtx, unitLogger, addr, outcome)

		cycleDone, next := cursor.Advance()
		if !cycleDone {
			continue
		}
		if cursor.Done() {
			logger.Info(l.finished)
		} else {
			logger.Info("now awaiting cycle", logging.Int("next_cycle", next))
		}
	}
	return nil
}

// record appends the unit to the ledger. Ledger failures are logged and
// otherwise ignored; the ledger does not steer processing.
func (l *loop) record(ctx context.Context, logger *slog.Logger, addr unit.Address, outcome Outcome) {
	if l.env.Recorder == nil {
		return
	}
	err := l.env.Recorder.RecordUnit(ctx, ledger.Unit{
		RunID:    l.env.RunID,
		Stage:    l.stage,
		Cycle:    addr.Cycle,
		Barcode:  addr.Barcode,
		Paired:   outcome.Paired,
		Reads:    outcome.Reads,
		Accepted: outcome.Accepted,
		Rejected: outcome.Rejected,
		Skipped:  outcome.Skipped,
	})
	if err != nil {
		logging.WarnWithContext(logger, "ledger update failed", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "status output will miss this unit"),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
		)
	}
}
