package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"deepaclive/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to a single cycle of 50 with a read length of 100 and applies
// any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Run.ReadLength = 100
	cfgVal.Run.Cycles = []int{50}
	cfgVal.Run.PollIntervalSeconds = 1
	cfgVal.Run.Cores = 1
	cfgVal.Paths.RawDir = filepath.Join(base, "raw")
	cfgVal.Paths.ExchangeDir = filepath.Join(base, "exchange")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Model.Variant = "rapid"
	cfgVal.Model.PackageDir = filepath.Join(base, "model")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCycles overrides the configured cycles and read length.
func WithCycles(readLength int, cycles ...int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.ReadLength = readLength
		b.cfg.Run.Cycles = cycles
	}
}

// WithBarcodes overrides the configured barcodes.
func WithBarcodes(barcodes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Barcodes = barcodes
	}
}

// WithFormat sets the exchange format.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Format = format
	}
}

// WithEnsembleDirs creates n ensemble input directories under the base dir.
func WithEnsembleDirs(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.EnsembleDirs = nil
		for i := range n {
			dir := filepath.Join(b.baseDir, "ensemble", string(rune('a'+i)))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				b.t.Fatalf("mkdir ensemble dir: %v", err)
			}
			b.cfg.Paths.EnsembleDirs = append(b.cfg.Paths.EnsembleDirs, dir)
		}
	}
}

// WithModelPackage writes a builtin model package with one rapid and one
// sensitive config/weights pair.
func WithModelPackage() ConfigOption {
	return func(b *configBuilder) {
		for _, name := range []string{
			"builtin/config/nn-rapid.ini",
			"builtin/config/nn-sensitive.ini",
			"builtin/weights/nn-rapid.h5",
			"builtin/weights/nn-sensitive.h5",
		} {
			WriteFile(b.t, filepath.Join(b.cfg.Model.PackageDir, name), 1)
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, samtools and deepac are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"samtools", "deepac"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RawDir)
}
