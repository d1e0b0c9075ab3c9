package main

import (
	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/pipeline"
)

func senderRunner(s *stageEnv) (pipeline.Runner, error) {
	extractor, err := newExtractor(s.cfg, s.cfg.Run.Format, s.logger)
	if err != nil {
		return nil, err
	}
	pusher, err := newPusher(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewSender(s.env, s.cfg.Paths.RawDir, s.cfg.Paths.ExchangeDir, extractor, pusher), nil
}

func receiverRunner(s *stageEnv) (pipeline.Runner, error) {
	classifier, err := newClassifier(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewReceiver(s.env, pipeline.ReceiverOptions{
		ExchangeDir:      s.cfg.Paths.ExchangeDir,
		OutputDir:        s.cfg.Paths.OutputDir,
		Format:           s.cfg.Run.Format,
		Filter:           filterOptions(s.cfg),
		DiscardNegatives: s.cfg.Run.DiscardNegatives,
	}, classifier), nil
}

func single(build func(*stageEnv) (pipeline.Runner, error)) func(*stageEnv) ([]pipeline.Runner, error) {
	return func(s *stageEnv) ([]pipeline.Runner, error) {
		runner, err := build(s)
		if err != nil {
			return nil, err
		}
		return []pipeline.Runner{runner}, nil
	}
}

func newSenderCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "sender",
		Short: "Extract reads from raw capture units as they appear",
		Long: "Waits for each configured cycle and barcode in turn, extracts the selected reads " +
			"into the exchange directory and optionally pushes them to the receiver host.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, ctx, o, stageRun{
				name:   config.StageSender,
				stages: []string{config.StageSender},
				build:  single(senderRunner),
			})
		},
	}
	o.bind(cmd, runFlags, extractFlags)
	return cmd
}

func newReceiverCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "receiver",
		Short: "Classify and filter extracted reads as they arrive",
		Long: "Waits for each unit's extracted reads, scores them with the configured model " +
			"and writes the accepted and rejected reads to the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, ctx, o, stageRun{
				name:   config.StageReceiver,
				stages: []string{config.StageReceiver},
				build:  single(receiverRunner),
			})
		},
	}
	o.bind(cmd, runFlags, receiveFlags, filterFlags)
	return cmd
}

func newLocalCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run sender and receiver side by side in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, ctx, o, stageRun{
				name:   "local",
				stages: []string{config.StageSender, config.StageReceiver},
				build: func(s *stageEnv) ([]pipeline.Runner, error) {
					sender, err := senderRunner(s)
					if err != nil {
						return nil, err
					}
					receiver, err := receiverRunner(s)
					if err != nil {
						return nil, err
					}
					return []pipeline.Runner{sender, receiver}, nil
				},
			})
		},
	}
	o.bind(cmd, runFlags, extractFlags, receiveFlags, filterFlags)
	return cmd
}

func newRefilterCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "refilter",
		Short: "Average the scores of several receivers and filter again",
		Long: "Waits until every ensemble directory holds a unit's score arrays, writes their " +
			"element-wise mean to the output directory and filters the unit's reads with it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, ctx, o, stageRun{
				name:   config.StageRefilter,
				stages: []string{config.StageRefilter},
				build: func(s *stageEnv) ([]pipeline.Runner, error) {
					return []pipeline.Runner{pipeline.NewRefilterer(s.env, pipeline.RefilterOptions{
						EnsembleDirs:     s.cfg.Paths.EnsembleDirs,
						FastaDir:         s.cfg.FastaSourceDir(),
						OutputDir:        s.cfg.Paths.OutputDir,
						Filter:           filterOptions(s.cfg),
						DiscardNegatives: s.cfg.Run.DiscardNegatives,
					})}, nil
				},
			})
		},
	}
	o.bind(cmd, runFlags, refilterFlags, filterFlags)
	return cmd
}

func newRethresholdCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "rethreshold",
		Short: "Filter already classified units again with a new threshold",
		Long: "Reads the score arrays a receiver or refilter run left in the output directory " +
			"and rewrites the accepted and rejected reads without running the model. Units " +
			"without score arrays are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, ctx, o, stageRun{
				name:   config.StageRethreshold,
				stages: []string{config.StageRethreshold},
				build: func(s *stageEnv) ([]pipeline.Runner, error) {
					return []pipeline.Runner{pipeline.NewRethresholder(s.env, pipeline.RethresholdOptions{
						FastaDir:         s.cfg.FastaSourceDir(),
						OutputDir:        s.cfg.Paths.OutputDir,
						Filter:           filterOptions(s.cfg),
						DiscardNegatives: s.cfg.Run.DiscardNegatives,
					})}, nil
				},
			})
		},
	}
	o.bind(cmd, runFlags, []string{flagFastaDir, flagOutputDir}, filterFlags)
	return cmd
}
