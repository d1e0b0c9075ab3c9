package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deepaclive/internal/config"
	"deepaclive/internal/services"
	"deepaclive/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryReadable_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryReadable("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func receiverConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithModelPackage(), testsupport.WithStubbedBinaries())
}

func TestStartupCreatesDirectoriesAndPasses(t *testing.T) {
	cfg := receiverConfig(t)
	if err := Startup(cfg, config.StageReceiver, nil); err != nil {
		t.Fatalf("Startup returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ExchangeDir, cfg.Paths.OutputDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected %s to exist, err=%v", dir, err)
		}
	}

	names := map[string]bool{}
	for _, r := range RunAll(cfg, config.StageReceiver) {
		names[r.Name] = true
	}
	for _, want := range []string{"Exchange directory", "Output directory", "samtools", "Model runtime", "Model"} {
		if !names[want] {
			t.Fatalf("expected %q check, got %v", want, names)
		}
	}
}

func TestStartupFailsOnMissingRuntimeAndModel(t *testing.T) {
	cfg := receiverConfig(t)
	cfg.Model.RuntimeBinary = "clearly-not-present-deepac"
	if err := os.RemoveAll(filepath.Join(cfg.Model.PackageDir, "builtin", "weights")); err != nil {
		t.Fatal(err)
	}

	err := Startup(cfg, config.StageReceiver, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, want := range []string{"Model runtime", "Model:"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestSenderChecksSkipModelAndNativeToolkit(t *testing.T) {
	cfg := receiverConfig(t)
	cfg.Extract.Toolkit = config.ToolkitNative
	cfg.Extract.SamtoolsBinary = "clearly-not-present-samtools"

	for _, r := range RunAll(cfg, config.StageSender) {
		if r.Name == "Model" || r.Name == "samtools" || r.Name == "Model runtime" {
			t.Fatalf("unexpected check %q for native sender", r.Name)
		}
	}
	if err := Startup(cfg, config.StageSender, nil); err != nil {
		t.Fatalf("Startup returned error: %v", err)
	}
}

func TestCheckRemote(t *testing.T) {
	local := CheckRemote(config.Remote{Target: t.TempDir()})
	if !local.Passed {
		t.Fatalf("expected local target to pass, got %s", local.Detail)
	}
	remote := CheckRemote(config.Remote{
		Target:     "alice@host:/in",
		KeyPath:    filepath.Join(t.TempDir(), "missing_key"),
		KnownHosts: filepath.Join(t.TempDir(), "known_hosts"),
		Port:       22,
	})
	if remote.Passed {
		t.Fatal("expected missing key to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, config.StageSender); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}
