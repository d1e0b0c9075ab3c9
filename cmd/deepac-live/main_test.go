package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"deepaclive/internal/config"
	"deepaclive/internal/seqset"
	"deepaclive/internal/services"
	"deepaclive/internal/testsupport"
	"deepaclive/internal/unit"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	home := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(home, ".config", "deepac-live", "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config", "validate", "--stage", "receiver")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	out, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting an existing file")
	}
}

func TestRethresholdCommandAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := env.cfg
	layout := unit.DefaultLayout()
	addr := unit.Address{Cycle: 50, Barcode: unit.DefaultBarcode}
	testsupport.WriteFASTA(t, layout.Mate(cfg.Paths.ExchangeDir, addr, unit.Mate1, unit.ExtFASTA), "r", 3)
	testsupport.WriteScores(t, layout.Mate(cfg.Paths.OutputDir, addr, unit.Mate1, unit.ExtNPY), 0.95, 0.7, 0.1)

	if _, _, err := runCLI(t, env.configPath, "rethreshold", "--threshold", "0.9", "--discard-negatives"); err != nil {
		t.Fatalf("rethreshold: %v", err)
	}

	records, err := seqset.Read(layout.Accepted(cfg.Paths.OutputDir, addr))
	if err != nil {
		t.Fatalf("read accepted: %v", err)
	}
	if len(records) != 1 || records[0].ID != "r0" {
		t.Fatalf("unexpected accepted reads %+v", records)
	}
	if _, err := os.Stat(layout.Rejected(cfg.Paths.OutputDir, addr)); !os.IsNotExist(err) {
		t.Fatalf("expected no rejected output, stat err=%v", err)
	}

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Rethreshold")
	requireContains(t, out, "completed")

	if _, _, err := runCLI(t, env.configPath, "logs", "--stage", "rethreshold"); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if _, _, err := runCLI(t, env.configPath, "logs", "--stage", "refilter"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected no refilter logs, got %v", err)
	}
}

func TestStatusWithoutLedger(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}

func TestStageConfigurationErrorsExitWithConfigurationCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing model package", args: []string{"receiver", "--format", "fasta"}},
		{name: "conflicting extraction policy", args: []string{"sender", "--keep-all-reads", "--keep-mapped-only"}},
		{name: "refilter without ensemble", args: []string{"refilter"}},
		{name: "push without target", args: []string{"push"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setupCLITestEnv(t)
			_, _, err := runCLI(t, env.configPath, tc.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if code := exitCode(err); code != services.ExitConfiguration {
				t.Fatalf("exit code = %d, want %d", code, services.ExitConfiguration)
			}
		})
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	o := &overrides{}
	cmd := &cobra.Command{Use: "test"}
	o.bind(cmd, runFlags, receiveFlags, filterFlags)
	if err := cmd.ParseFlags([]string{
		"--cycles", "50,150",
		"--barcodes", "bc01,bc02",
		"--custom-model", "/models/custom.h5",
		"--threshold", "0.7",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if err := o.apply(cmd, cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if diff := cmp.Diff([]int{50, 150}, cfg.Run.Cycles); diff != "" {
		t.Fatalf("cycles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bc01", "bc02"}, cfg.Run.Barcodes); diff != "" {
		t.Fatalf("barcodes mismatch (-want +got):\n%s", diff)
	}
	if cfg.Model.Source != config.ModelCustom || cfg.Model.CustomPath != "/models/custom.h5" || cfg.Model.Variant != "" {
		t.Fatalf("unexpected model settings %+v", cfg.Model)
	}
	if cfg.Run.Threshold != 0.7 {
		t.Fatalf("threshold = %v", cfg.Run.Threshold)
	}
	if cfg.Run.ReadLength != 100 {
		t.Fatalf("unset flag changed read length to %d", cfg.Run.ReadLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("overridden config invalid: %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("boom"), services.ExitFailure},
		{services.Wrap(services.ErrTransport, "sender", "push", "", errors.New("refused")), services.ExitTransport},
		{services.Wrap(services.ErrValidation, "refilter", "ensemble", "", nil), services.ExitValidation},
		{services.Wrap(services.ErrExternalTool, "receiver", "infer", "", nil), services.ExitExternalTool},
	}
	for _, tc := range tests {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
