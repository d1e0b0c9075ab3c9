package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deepaclive/internal/fileutil"
	"deepaclive/internal/logging"
	"deepaclive/internal/scores"
	"deepaclive/internal/seqset"
	"deepaclive/internal/services"
	"deepaclive/internal/unit"
)

// Converter turns an exchanged BAM mate into FASTA. It reports false when the
// input holds no reads.
type Converter interface {
	ToFASTA(ctx context.Context, input, output string) (bool, error)
}

// Classifier scores read sets with one resolved model.
type Classifier struct {
	runtime   Runtime
	model     Model
	converter Converter
	logger    *slog.Logger
}

// New resolves source and returns a Classifier. packageDir is only consulted
// for builtin sources. converter may be nil when inputs are always FASTA.
func New(runtime Runtime, source ModelSource, packageDir string, converter Converter, logger *slog.Logger) (*Classifier, error) {
	if runtime == nil {
		runtime = NewCLI()
	}
	model, err := Resolve(source, packageDir)
	if err != nil {
		return nil, err
	}
	c := &Classifier{
		runtime:   runtime,
		model:     model,
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "classifier"),
	}
	c.logger.Info("model resolved",
		logging.String("model", model.Name),
		logging.String("config", model.Config),
		logging.String("weights", model.Weights),
		logging.String("file", model.File),
	)
	return c, nil
}

// Model returns the resolved model handle.
func (c *Classifier) Model() Model {
	return c.model
}

// Classify scores the reads at input and publishes the score array at output.
// BAM input is first converted to FASTA next to it. Empty input yields an
// empty score array without invoking the model. It returns the number of
// scores written.
func (c *Classifier) Classify(ctx context.Context, input, output string) (int, error) {
	if filepath.Ext(input) == "."+unit.ExtBAM {
		fasta := strings.TrimSuffix(input, "."+unit.ExtBAM) + "." + unit.ExtFASTA
		if c.converter == nil {
			return 0, services.Wrap(services.ErrConfiguration, "classify", "convert", "BAM input needs a converter", nil)
		}
		ok, err := c.converter.ToFASTA(ctx, input, fasta)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, c.empty(output, input)
		}
		input = fasta
	}
	if !fileutil.NonEmpty(input) {
		return 0, c.empty(output, input)
	}

	records, err := seqset.Count(input)
	if err != nil {
		return 0, fmt.Errorf("count reads in %s: %w", input, err)
	}
	values, err := c.infer(ctx, input, output)
	if err != nil {
		return 0, err
	}
	if values != records {
		_ = os.Remove(output)
		return 0, fmt.Errorf("%w: %s has %d reads but the model returned %d scores", scores.ErrShapeMismatch, input, records, values)
	}
	c.logger.Debug("reads classified",
		logging.String("input", input),
		logging.String("output", output),
		logging.Int("reads", records),
	)
	return values, nil
}

func (c *Classifier) empty(output, input string) error {
	c.logger.Debug("empty read set, model skipped", logging.String("input", input))
	return scores.Save(output, nil)
}

// infer runs the model in a private directory beside output so that the
// runtime may name its file freely; the result is published by rename.
func (c *Classifier) infer(ctx context.Context, input, output string) (int, error) {
	work, err := os.MkdirTemp(filepath.Dir(output), ".classify-*")
	if err != nil {
		return 0, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	tmp := filepath.Join(work, filepath.Base(output))
	if err := c.runtime.Infer(ctx, c.model, input, tmp); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, services.Wrap(services.ErrExternalTool, "classify", "infer", "model runtime failed", err)
	}
	values, err := scores.Load(tmp)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "classify", "infer", "model runtime wrote no readable scores", err)
	}
	if err := fileutil.Publish(tmp, output); err != nil {
		return 0, err
	}
	return len(values), nil
}
