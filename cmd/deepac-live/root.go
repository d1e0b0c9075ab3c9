package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "deepac-live",
		Short:         "Real-time pathogen read classification for live sequencing runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}
	root.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file (default ~/.config/deepac-live/config.toml)")

	root.AddGroup(
		&cobra.Group{ID: "stages", Title: "Pipeline stages:"},
		&cobra.Group{ID: "inspect", Title: "Inspection:"},
	)
	for _, cmd := range []*cobra.Command{
		newSenderCommand(ctx),
		newReceiverCommand(ctx),
		newLocalCommand(ctx),
		newRefilterCommand(ctx),
		newRethresholdCommand(ctx),
		newPushCommand(ctx),
	} {
		cmd.GroupID = "stages"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newStatusCommand(ctx),
		newLogsCommand(ctx),
	} {
		cmd.GroupID = "inspect"
		root.AddCommand(cmd)
	}
	root.AddCommand(newConfigCommand(ctx))
	return root
}
