package pipeline

import (
	"context"

	"deepaclive/internal/classify"
	"deepaclive/internal/config"
	"deepaclive/internal/fileutil"
	"deepaclive/internal/filter"
	"deepaclive/internal/unit"
)

// ReceiverOptions configure a Receiver.
type ReceiverOptions struct {
	ExchangeDir      string
	OutputDir        string
	Format           string
	Filter           filter.Options
	DiscardNegatives bool
}

// Receiver classifies exchanged read sets and filters them.
type Receiver struct {
	loop       *loop
	opts       ReceiverOptions
	classifier *classify.Classifier
}

// NewReceiver returns a Receiver.
func NewReceiver(env Env, opts ReceiverOptions, classifier *classify.Classifier) *Receiver {
	return &Receiver{
		loop:       newLoop(config.StageReceiver, env, "unit received", "all predictions done"),
		opts:       opts,
		classifier: classifier,
	}
}

// Run walks every configured unit.
func (r *Receiver) Run(ctx context.Context) error {
	return r.loop.run(ctx, r)
}

// ready holds once the single-ended mate, or both paired mates, are published.
func (r *Receiver) ready(addr unit.Address) bool {
	settings := r.loop.env.Settings
	for _, path := range settings.Layout.MatePaths(r.opts.ExchangeDir, addr, settings.ReadLength, r.opts.Format) {
		if !fileutil.Ready(path) {
			return false
		}
	}
	return true
}

func (r *Receiver) process(ctx context.Context, addr unit.Address) (Outcome, error) {
	settings := r.loop.env.Settings
	layout := settings.Layout
	inputs := layout.MatePaths(r.opts.ExchangeDir, addr, settings.ReadLength, r.opts.Format)
	fastas := layout.MatePaths(r.opts.ExchangeDir, addr, settings.ReadLength, unit.ExtFASTA)
	scoreFiles := layout.MatePaths(r.opts.OutputDir, addr, settings.ReadLength, unit.ExtNPY)

	outcome := Outcome{Paired: len(inputs) > 1}
	for i, input := range inputs {
		n, err := r.classifier.Classify(ctx, input, scoreFiles[i])
		if err != nil {
			return Outcome{}, err
		}
		outcome.Reads += n
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

// filterRequest names the filter inputs and outputs of a unit. Positive and
// negative outputs always have distinct names.
func filterRequest(layout unit.Layout, outputDir string, addr unit.Address, fastas, scoreFiles []string, discardNegatives bool) filter.Request {
	req := filter.Request{
		Mate1:    fastas[0],
		Scores1:  scoreFiles[0],
		Accepted: layout.Accepted(outputDir, addr),
	}
	if len(fastas) > 1 {
		req.Mate2 = fastas[1]
		req.Scores2 = scoreFiles[1]
	}
	if !discardNegatives {
		req.Rejected = layout.Rejected(outputDir, addr)
	}
	return req
}
