package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"deepaclive/internal/classify"
	"deepaclive/internal/config"
	"deepaclive/internal/deps"
	"deepaclive/internal/transport"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckModel resolves the configured model source.
func CheckModel(cfg *config.Config) Result {
	const name = "Model"
	model, err := classify.Resolve(ModelSource(cfg), cfg.Model.PackageDir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if model.Custom() {
		return Result{Name: name, Passed: true, Detail: model.File}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", model.Name, model.Weights)}
}

// ModelSource maps the model configuration to a classify.ModelSource.
func ModelSource(cfg *config.Config) classify.ModelSource {
	if cfg.Model.Source == config.ModelCustom {
		return classify.Custom(cfg.Model.CustomPath)
	}
	return classify.Builtin(cfg.Model.Variant)
}

// CheckRemote verifies the push target parses and, for SFTP targets, that the
// key and known_hosts files are readable.
func CheckRemote(cfg config.Remote) Result {
	const name = "Push target"
	target, err := transport.ParseTarget(cfg.Target)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !target.Remote() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (local copy)", target.Path)}
	}
	for _, file := range []string{cfg.KeyPath, cfg.KnownHosts} {
		if err := unix.Access(file, unix.R_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", file, err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (sftp, port %d)", target, cfg.Port)}
}

// CheckSystemDeps probes the external tools the stage will execute.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, stage string) []deps.Finding {
	samtools := deps.Tool{
		Name:        "samtools",
		Binary:      cfg.Extract.SamtoolsBinary,
		Purpose:     "required for read extraction",
		VersionArgs: []string{"--version"},
	}
	var tools []deps.Tool
	switch stage {
	case config.StageSender:
		if cfg.Extract.Toolkit == config.ToolkitSamtools {
			tools = append(tools, samtools)
		}
	case config.StageReceiver:
		if cfg.Run.Format == config.FormatBAM && cfg.Extract.Toolkit == config.ToolkitSamtools {
			samtools.Purpose = "required to convert exchanged BAM to FASTA"
			tools = append(tools, samtools)
		}
		tools = append(tools, deps.Tool{
			Name:    "Model runtime",
			Binary:  cfg.Model.RuntimeBinary,
			Purpose: "required for read classification",
		})
	}
	return deps.Probe(ctx, tools...)
}
