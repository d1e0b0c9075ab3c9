package pipeline

import (
	"context"

	"deepaclive/internal/config"
	"deepaclive/internal/fileutil"
	"deepaclive/internal/filter"
	"deepaclive/internal/logging"
	"deepaclive/internal/unit"
)

// RethresholdOptions configure a Rethresholder.
type RethresholdOptions struct {
	FastaDir         string
	OutputDir        string
	Filter           filter.Options
	DiscardNegatives bool
}

// Rethresholder filters already classified units again, usually with a new
// threshold. It never waits: units whose score arrays are missing are
// skipped.
type Rethresholder struct {
	loop *loop
	opts RethresholdOptions
}

// NewRethresholder returns a Rethresholder.
func NewRethresholder(env Env, opts RethresholdOptions) *Rethresholder {
	return &Rethresholder{
		loop: newLoop(config.StageRethreshold, env, "rethresholding unit", "all units rethresholded"),
		opts: opts,
	}
}

// Run walks every configured unit once.
func (r *Rethresholder) Run(ctx context.Context) error {
	return r.loop.run(ctx, r)
}

func (r *Rethresholder) ready(unit.Address) bool {
	return true
}

func (r *Rethresholder) process(ctx context.Context, addr unit.Address) (Outcome, error) {
	settings := r.loop.env.Settings
	layout := settings.Layout
	fastas := layout.MatePaths(r.opts.FastaDir, addr, settings.ReadLength, unit.ExtFASTA)
	scoreFiles := layout.MatePaths(r.opts.OutputDir, addr, settings.ReadLength, unit.ExtNPY)
	outcome := Outcome{Paired: len(fastas) > 1}

	for _, path := range scoreFiles {
		if !fileutil.Ready(path) {
			logging.WarnWithContext(logging.WithContext(ctx, r.loop.logger), "score array missing, unit skipped", "scores_missing",
				logging.String("path", path),
				logging.String(logging.FieldImpact, "no filtered output for this unit"),
				logging.String(logging.FieldErrorHint, "run the receiver for this cycle first"),
			)
			outcome.Skipped = true
			return outcome, nil
		}
	}

	result, err := filter.Apply(filterRequest(layout, r.opts.OutputDir, addr, fastas, scoreFiles, r.opts.DiscardNegatives), r.opts.Filter)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Accepted = result.Accepted
	outcome.Rejected = result.Rejected
	outcome.Skipped = result.Skipped
	return outcome, nil
}
