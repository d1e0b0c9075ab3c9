package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"deepaclive/internal/ledger"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-a", "receiver"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.BeginRun(ctx, "run-b", "sender"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, "run-a", nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, "run-b", errors.New("samtools exited 1")); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	byID := map[string]ledger.Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}
	if got := byID["run-a"]; got.Status != ledger.StatusCompleted || got.FinishedAt.IsZero() {
		t.Fatalf("unexpected run-a %+v", got)
	}
	if got := byID["run-b"]; got.Status != ledger.StatusFailed || got.Error != "samtools exited 1" {
		t.Fatalf("unexpected run-b %+v", got)
	}

	limited, err := store.Runs(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Runs(1) = %d runs, %v", len(limited), err)
	}
}

func TestFinishRunCancelled(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.BeginRun(ctx, "run-c", "refilter"); err != nil {
		t.Fatal(err)
	}
	if err := store.FinishRun(ctx, "run-c", context.Canceled); err != nil {
		t.Fatal(err)
	}
	runs, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != ledger.StatusCancelled || runs[0].Error != "" {
		t.Fatalf("unexpected run %+v", runs[0])
	}
}

func TestUnitsAndSummary(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.BeginRun(ctx, "run-a", "receiver"); err != nil {
		t.Fatal(err)
	}
	units := []ledger.Unit{
		{RunID: "run-a", Stage: "receiver", Cycle: 50, Barcode: "A", Reads: 10, Accepted: 3, Rejected: 7},
		{RunID: "run-a", Stage: "receiver", Cycle: 50, Barcode: "B", Skipped: true},
		{RunID: "run-a", Stage: "receiver", Cycle: 150, Barcode: "A", Paired: true, Reads: 4, Accepted: 4},
	}
	for _, u := range units {
		if err := store.RecordUnit(ctx, u); err != nil {
			t.Fatalf("RecordUnit failed: %v", err)
		}
	}
	// Re-recording the same address replaces the earlier row.
	units[0].Accepted = 4
	units[0].Rejected = 6
	if err := store.RecordUnit(ctx, units[0]); err != nil {
		t.Fatal(err)
	}

	got, err := store.Units(ctx, "run-a")
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 units, got %d", len(got))
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 cycle summaries, got %d", len(summary))
	}
	first := summary[0]
	if first.Cycle != 50 || first.Units != 2 || first.Reads != 10 || first.Accepted != 4 || first.Rejected != 6 || first.Skipped != 1 {
		t.Fatalf("unexpected cycle 50 summary %+v", first)
	}
	if summary[1].Cycle != 150 || summary[1].Accepted != 4 {
		t.Fatalf("unexpected cycle 150 summary %+v", summary[1])
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.BeginRun(context.Background(), "run-a", "sender"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Runs(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected history to survive reopen, got %d runs, %v", len(runs), err)
	}
}

func TestOpenRejectsForeignSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	store, err := ledger.Open(path)
	if err == nil {
		_ = store.Close()
		t.Fatal("expected schema mismatch")
	}
	if !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
