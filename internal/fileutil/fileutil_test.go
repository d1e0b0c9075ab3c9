package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicPublishesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hilive_out_cycle50_undetermined_deepac_1.fasta")

	err := WriteAtomic(path, func(w io.Writer) error {
		if Ready(path) {
			t.Fatal("final name visible before the write completed")
		}
		if !Ready(TempPath(path)) {
			t.Fatal("expected temporary file while writing")
		}
		_, err := io.WriteString(w, ">r1\nACGT\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic returned error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != ">r1\nACGT\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if _, err := os.Stat(TempPath(path)); !os.IsNotExist(err) {
		t.Fatalf("expected temporary file to be gone, err=%v", err)
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.npy")
	boom := errors.New("boom")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fill error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory after failed write, found %d entries", len(entries))
	}
}

func TestReadinessProbes(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.fasta")
	full := filepath.Join(dir, "full.fasta")

	if Ready(empty) || NonEmpty(empty) {
		t.Fatal("missing file reported ready")
	}
	if err := WriteEmpty(empty); err != nil {
		t.Fatalf("WriteEmpty: %v", err)
	}
	if !Ready(empty) {
		t.Fatal("zero-byte artifact should be ready")
	}
	if NonEmpty(empty) {
		t.Fatal("zero-byte artifact reported non-empty")
	}
	if err := os.WriteFile(full, []byte(">a\nA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !NonEmpty(full) {
		t.Fatal("expected non-empty file")
	}
	if Ready(dir) {
		t.Fatal("directory reported as a ready artifact")
	}
	if size, err := Size(filepath.Join(dir, "missing")); err != nil || size != 0 {
		t.Fatalf("Size(missing) = %d, %v", size, err)
	}
}

func TestTempPathNaming(t *testing.T) {
	got := TempPath("/x/y/out.npy")
	if got != "/x/y/.out.npy.partial" {
		t.Fatalf("unexpected temp path %q", got)
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.fasta")
	dst := filepath.Join(dir, "dst.fasta")

	content := []byte(">read1\nACGTACGT\n")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerified_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFileVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst.bin"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if Ready(filepath.Join(dir, "dst.bin")) {
		t.Fatal("destination should not exist after failed copy")
	}
}
