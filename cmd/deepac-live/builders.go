package main

import (
	"log/slog"

	"deepaclive/internal/classify"
	"deepaclive/internal/config"
	"deepaclive/internal/extract"
	"deepaclive/internal/filter"
	"deepaclive/internal/preflight"
	"deepaclive/internal/services"
	"deepaclive/internal/transport"
)

func newExtractor(cfg *config.Config, format string, logger *slog.Logger) (*extract.Extractor, error) {
	policy, err := extract.ParsePolicy(cfg.Extract.KeepAllReads, cfg.Extract.KeepMappedOnly)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "extract", "policy", "", err)
	}
	var toolkit extract.Toolkit
	switch cfg.Extract.Toolkit {
	case config.ToolkitNative:
		toolkit = extract.Native{Concurrency: cfg.Run.Cores}
	default:
		toolkit = extract.NewSamtools(
			extract.WithBinary(cfg.Extract.SamtoolsBinary),
			extract.WithThreads(cfg.Run.Cores-1),
		)
	}
	return extract.New(toolkit, policy, format, logger)
}

// newClassifier resolves the configured model once. BAM exchange needs a
// converter to FASTA, which reuses the extraction toolkit.
func newClassifier(cfg *config.Config, logger *slog.Logger) (*classify.Classifier, error) {
	var converter classify.Converter
	if cfg.Run.Format == config.FormatBAM {
		ext, err := newExtractor(cfg, config.FormatBAM, logger)
		if err != nil {
			return nil, err
		}
		converter = ext
	}
	runtime := classify.NewCLI(
		classify.WithBinary(cfg.Model.RuntimeBinary),
		classify.WithCores(cfg.Run.Cores),
	)
	return classify.New(runtime, preflight.ModelSource(cfg), cfg.Model.PackageDir, converter, logger)
}

// newPusher returns nil when no push target is configured.
func newPusher(cfg *config.Config, logger *slog.Logger) (transport.Pusher, error) {
	if cfg.Remote.Target == "" {
		return nil, nil
	}
	return transport.New(cfg.Remote, logger)
}

func filterOptions(cfg *config.Config) filter.Options {
	return filter.Options{
		Threshold: cfg.Run.Threshold,
		Annotate:  cfg.Run.Annotate,
		Precision: cfg.Run.Precision,
	}
}
