package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"deepaclive/internal/config"
	"deepaclive/internal/logging"
	"deepaclive/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// directories lists the directories a stage writes to and reads from.
func directories(cfg *config.Config, stage string) (write, read map[string]string) {
	write = map[string]string{}
	read = map[string]string{}
	switch stage {
	case config.StageSender:
		read["Raw directory"] = cfg.Paths.RawDir
		write["Exchange directory"] = cfg.Paths.ExchangeDir
	case config.StageReceiver:
		// BAM mates are converted to FASTA beside the exchanged file.
		write["Exchange directory"] = cfg.Paths.ExchangeDir
		write["Output directory"] = cfg.Paths.OutputDir
	case config.StageRefilter:
		for i, dir := range cfg.Paths.EnsembleDirs {
			read[fmt.Sprintf("Ensemble directory %d", i+1)] = dir
		}
		read["FASTA directory"] = cfg.FastaSourceDir()
		write["Output directory"] = cfg.Paths.OutputDir
	case config.StageRethreshold:
		read["FASTA directory"] = cfg.FastaSourceDir()
		write["Output directory"] = cfg.Paths.OutputDir
	case config.StagePush:
		read["Exchange directory"] = cfg.Paths.ExchangeDir
	}
	return write, read
}

// RunAll executes the checks that apply to stage. Directories are checked as
// they are; Startup creates them first.
func RunAll(cfg *config.Config, stage string) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	write, read := directories(cfg, stage)
	for _, name := range sortedKeys(write) {
		results = append(results, CheckDirectoryAccess(name, write[name]))
	}
	for _, name := range sortedKeys(read) {
		if _, dup := write[name]; dup {
			continue
		}
		results = append(results, CheckDirectoryReadable(name, read[name]))
	}
	for _, finding := range CheckSystemDeps(context.Background(), cfg, stage) {
		results = append(results, Result{
			Name:   finding.Tool.Name,
			Passed: finding.OK(),
			Detail: finding.Describe(),
		})
	}
	if stage == config.StageReceiver {
		results = append(results, CheckModel(cfg))
	}
	if cfg.Remote.Target != "" && (stage == config.StageSender || stage == config.StagePush) {
		results = append(results, CheckRemote(cfg.Remote))
	}
	return results
}

// Startup prepares the process for stage: it creates the stage directories,
// runs every check and logs the outcome. Any failure is returned as a
// configuration error.
func Startup(cfg *config.Config, stage string, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "preflight")
	if err := cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, stage, "startup", "create directories", err)
	}
	write, read := directories(cfg, stage)
	for _, dirs := range []map[string]string{write, read} {
		for _, dir := range dirs {
			if strings.TrimSpace(dir) == "" {
				continue
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return services.Wrap(services.ErrConfiguration, stage, "startup", fmt.Sprintf("create %s", dir), err)
			}
		}
	}

	var failed []string
	for _, result := range RunAll(cfg, stage) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the configuration or install the missing tool, then restart the stage"),
		)
		failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(failed) > 0 {
		return services.Wrap(services.ErrConfiguration, stage, "preflight", strings.Join(failed, "; "), nil)
	}
	logger.Info("preflight complete", logging.String(logging.FieldStage, stage))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
