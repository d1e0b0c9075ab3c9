package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"deepaclive/internal/fileutil"
	"deepaclive/internal/logging"
	"deepaclive/internal/services"
	"deepaclive/internal/unit"
)

// Extractor produces per-mate read sets from raw capture units.
type Extractor struct {
	toolkit Toolkit
	policy  Policy
	format  string
	logger  *slog.Logger
}

// New returns an Extractor writing format (unit.ExtBAM or unit.ExtFASTA).
func New(toolkit Toolkit, policy Policy, format string, logger *slog.Logger) (*Extractor, error) {
	switch format {
	case unit.ExtBAM, unit.ExtFASTA:
	default:
		return nil, services.Wrap(services.ErrConfiguration, "extract", "init", fmt.Sprintf("unrecognized format %q", format), nil)
	}
	if toolkit == nil {
		toolkit = NewSamtools()
	}
	return &Extractor{
		toolkit: toolkit,
		policy:  policy,
		format:  format,
		logger:  logging.NewComponentLogger(logger, "extractor"),
	}, nil
}

// Format returns the output container format.
func (e *Extractor) Format() string {
	return e.format
}

// Extract writes one output per entry in outputs: outputs[0] receives mate 1,
// and a second entry makes the unit paired and receives mate 2. Outputs are
// published atomically in mate order.
func (e *Extractor) Extract(ctx context.Context, input string, outputs []string) error {
	if len(outputs) == 0 || len(outputs) > 2 {
		return fmt.Errorf("extract needs one or two outputs, got %d", len(outputs))
	}
	single := len(outputs) == 1
	hasReads := fileutil.NonEmpty(input)
	for i, output := range outputs {
		mate := unit.Mate(i + 1)
		if !hasReads {
			if err := fileutil.WriteEmpty(output); err != nil {
				return err
			}
			continue
		}
		flags := e.policy.Flags(single, mate)
		if err := e.run(ctx, input, flags, e.format, output); err != nil {
			return err
		}
		e.logger.Debug("mate extracted",
			logging.String("input", input),
			logging.String("output", output),
			logging.Int("mate", int(mate)),
			logging.String("flags", flags.String()),
		)
	}
	if !hasReads {
		e.logger.Debug("empty capture unit", logging.String("input", input))
	}
	return nil
}

// ToFASTA converts an exchanged BAM mate into FASTA without filtering. An
// empty or missing input produces nothing and reports false.
func (e *Extractor) ToFASTA(ctx context.Context, input, output string) (bool, error) {
	if !fileutil.NonEmpty(input) {
		return false, nil
	}
	if err := e.run(ctx, input, Flags{}, unit.ExtFASTA, output); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Extractor) run(ctx context.Context, input string, flags Flags, format, output string) error {
	tmp := fileutil.TempPath(output)
	if err := e.toolkit.Extract(ctx, input, flags, format, tmp); err != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrExternalTool, "extract", format, "toolkit failed", err)
	}
	return fileutil.Publish(tmp, output)
}
