package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"deepaclive/internal/scores"
)

func writeAll(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFile creates path with size filler bytes. A size <= 0 writes one byte
// so the file is never mistaken for an empty unit.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()
	writeAll(t, path, bytes.Repeat([]byte{'N'}, max(size, 1)))
}

// WriteFASTA writes n records named <prefix>0..<prefix>n-1 to path.
func WriteFASTA(t testing.TB, path, prefix string, n int) {
	t.Helper()
	var b bytes.Buffer
	for i := range n {
		fmt.Fprintf(&b, ">%s%d\nACGTACGT\n", prefix, i)
	}
	writeAll(t, path, b.Bytes())
}

// WriteScores writes a score array to path.
func WriteScores(t testing.TB, path string, values ...float64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := scores.Save(path, values); err != nil {
		t.Fatalf("write scores %s: %v", path, err)
	}
}
