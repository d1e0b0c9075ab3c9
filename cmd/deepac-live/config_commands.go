package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		path      string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write an annotated sample configuration",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := config.WriteSample(path, overwrite)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "config init", "", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(cmd.OutOrStdout(), "Set paths.raw_dir, run.read_length and run.cycles for your sequencing run before starting a stage.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination (default ~/.config/deepac-live/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

var allStages = []string{
	config.StageSender,
	config.StageReceiver,
	config.StageRefilter,
	config.StageRethreshold,
	config.StagePush,
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var stages []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, optionally against the needs of each stage",
		Long: "Validate loads the configuration and checks it for consistency. With --stage it also\n" +
			"reports whether each named stage (or \"all\") has the options it needs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found; defaults used)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)

			if len(stages) == 1 && stages[0] == "all" {
				stages = allStages
			}
			view := tableView{title: "Stages", headers: []string{"Stage", "Result"}}
			var firstErr error
			for _, stage := range stages {
				result := "ok"
				if err := cfg.ValidateFor(stage); err != nil {
					result = err.Error()
					if firstErr == nil {
						firstErr = services.Wrap(services.ErrConfiguration, stage, "validate", "", err)
					}
				}
				view.rows = append(view.rows, []string{stage, result})
			}
			if len(view.rows) > 0 {
				fmt.Fprintln(out, view.render(isTerminal(out)))
			}
			if firstErr != nil {
				return firstErr
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&stages, "stage", nil, "Stages to check: "+strings.Join(allStages, ", ")+" or all")
	return cmd
}
