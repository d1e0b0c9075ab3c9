package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/logging"
	"deepaclive/internal/pipeline"
	"deepaclive/internal/preflight"
	"deepaclive/internal/services"
	"deepaclive/internal/stagelock"
	"deepaclive/internal/transport"
)

func newPushCommand(ctx *commandContext) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push already extracted reads to the remote target",
		Long: "Uploads the exchange artifacts of every configured unit that has been fully " +
			"extracted. Useful when the sender ran without a target or a push failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := prepareConfig(cmd, ctx, o, config.StagePush)
			if err != nil {
				return err
			}
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, _, err := logging.NewForStage(cfg, config.StagePush, pipeline.NewRunID())
			if err != nil {
				return services.Wrap(services.ErrConfiguration, config.StagePush, "init logger", "", err)
			}
			if err := preflight.Startup(cfg, config.StagePush, logger); err != nil {
				return err
			}
			lock, err := stagelock.Acquire(cfg.Paths.StateDir, config.StagePush, cfg.Paths.ExchangeDir)
			if err != nil {
				return err
			}
			defer lock.Release() //nolint:errcheck

			pusher, err := transport.New(cfg.Remote, logger)
			if err != nil {
				return err
			}
			n, err := pipeline.PushExisting(signalCtx, pipeline.SettingsFromConfig(cfg), cfg.Paths.ExchangeDir, cfg.Run.Format, pusher, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d files to %s\n", n, cfg.Remote.Target)
			return nil
		},
	}
	o.bind(cmd, []string{flagCycles, flagBarcodes, flagReadLength, flagExchangeDir, flagFormat, flagRemote})
	return cmd
}
