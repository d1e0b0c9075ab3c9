package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProbe(t *testing.T) {
	versioned := writeScript(t, `echo "samtools 1.21"; echo "Using htslib 1.21"`)
	silent := writeScript(t, "exit 3")

	findings := Probe(context.Background(),
		Tool{Name: "samtools", Binary: versioned, Purpose: "extraction", VersionArgs: []string{"--version"}},
		Tool{Name: "runtime", Binary: silent, VersionArgs: []string{"--version"}},
		Tool{Name: "missing", Binary: "clearly-not-present-binary", Purpose: "classification"},
		Tool{Name: "unset", Binary: "  "},
	)
	if len(findings) != 4 {
		t.Fatalf("expected 4 findings, got %d", len(findings))
	}

	if !findings[0].OK() || findings[0].Path != versioned || findings[0].Version != "samtools 1.21" {
		t.Fatalf("unexpected versioned finding %#v", findings[0])
	}
	if got, want := findings[0].Describe(), versioned+" (samtools 1.21)"; got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
	if !findings[1].OK() || findings[1].Version != "" {
		t.Fatalf("failing version probe should still resolve, got %#v", findings[1])
	}
	if findings[2].OK() || findings[2].Describe() != `"clearly-not-present-binary" not found on PATH (classification)` {
		t.Fatalf("unexpected missing finding %q", findings[2].Describe())
	}
	if !errors.Is(findings[3].Err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", findings[3].Err)
	}
}
