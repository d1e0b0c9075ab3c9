package pipeline

import (
	"context"

	"deepaclive/internal/config"
	"deepaclive/internal/fileutil"
	"deepaclive/internal/filter"
	"deepaclive/internal/scores"
	"deepaclive/internal/unit"
)

// RefilterOptions configure a Refilterer.
type RefilterOptions struct {
	EnsembleDirs     []string
	FastaDir         string
	OutputDir        string
	Filter           filter.Options
	DiscardNegatives bool
}

// Refilterer averages the score arrays of several receivers and filters the
// reads again with the ensemble.
type Refilterer struct {
	loop *loop
	opts RefilterOptions
}

// NewRefilterer returns a Refilterer.
func NewRefilterer(env Env, opts RefilterOptions) *Refilterer {
	return &Refilterer{
		loop: newLoop(config.StageRefilter, env, "refiltering unit", "all units refiltered"),
		opts: opts,
	}
}

// Run walks every configured unit.
func (r *Refilterer) Run(ctx context.Context) error {
	return r.loop.run(ctx, r)
}

// ready holds once every ensemble directory holds the unit's score arrays.
func (r *Refilterer) ready(addr unit.Address) bool {
	settings := r.loop.env.Settings
	for _, dir := range r.opts.EnsembleDirs {
		for _, path := range settings.Layout.MatePaths(dir, addr, settings.ReadLength, unit.ExtNPY) {
			if !fileutil.Ready(path) {
				return false
			}
		}
	}
	return true
}

func (r *Refilterer) process(ctx context.Context, addr unit.Address) (Outcome, error) {
	settings := r.loop.env.Settings
	layout := settings.Layout
	mates := addr.Mates(settings.ReadLength)
	fastas := layout.MatePaths(r.opts.FastaDir, addr, settings.ReadLength, unit.ExtFASTA)
	outcome := Outcome{Paired: len(mates) > 1}

	// Units without reads have nothing to refilter.
	for _, fasta := range fastas {
		if !fileutil.NonEmpty(fasta) {
			outcome.Skipped = true
			return outcome, nil
		}
	}

	scoreFiles := layout.MatePaths(r.opts.OutputDir, addr, settings.ReadLength, unit.ExtNPY)
	for i, mate := range mates {
		inputs := make([]string, len(r.opts.EnsembleDirs))
		for j, dir := range r.opts.EnsembleDirs {
			inputs[j] = layout.Mate(dir, addr, mate, unit.ExtNPY)
		}
		mean, err := scores.Ensemble(inputs, scoreFiles[i])
		if err != nil {
			return Outcome{}, err
		}
		outcome.Reads += len(mean)
	}

	result, err := filter.Apply(filterRequest(layout, r.opts.OutputDir, addr, fastas, scoreFiles, r.opts.DiscardNegatives), r.opts.Filter)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Accepted = result.Accepted
	outcome.Rejected = result.Rejected
	return outcome, nil
}
