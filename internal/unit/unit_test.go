package unit_test

import (
	"path/filepath"
	"testing"

	"deepaclive/internal/unit"
)

func TestAddressLayoutSelection(t *testing.T) {
	single := unit.Address{Cycle: 50, Barcode: unit.DefaultBarcode}
	if !single.SingleEnded(100) {
		t.Fatal("cycle 50 with read length 100 should be single-ended")
	}
	if got := single.Mates(100); len(got) != 1 || got[0] != unit.Mate1 {
		t.Fatalf("unexpected mates %v", got)
	}
	boundary := unit.Address{Cycle: 100}
	if !boundary.SingleEnded(100) {
		t.Fatal("cycle equal to read length should be single-ended")
	}
	paired := unit.Address{Cycle: 150, Barcode: "ACGT"}
	if paired.SingleEnded(100) {
		t.Fatal("cycle 150 with read length 100 should be paired")
	}
	if got := paired.Mates(100); len(got) != 2 || got[1] != unit.Mate2 {
		t.Fatalf("unexpected mates %v", got)
	}
}

func TestLayoutPaths(t *testing.T) {
	layout := unit.DefaultLayout()
	addr := unit.Address{Cycle: 158, Barcode: "undetermined"}
	dir := "/data"

	cases := []struct {
		got, want string
	}{
		{layout.Raw(dir, addr), "hilive_out_cycle158_undetermined.bam"},
		{layout.Mate(dir, addr, unit.Mate1, unit.ExtFASTA), "hilive_out_cycle158_undetermined_deepac_1.fasta"},
		{layout.Mate(dir, addr, unit.Mate2, unit.ExtNPY), "hilive_out_cycle158_undetermined_deepac_2.npy"},
		{layout.Accepted(dir, addr), "hilive_out_cycle158_undetermined_predicted_pos.fasta"},
		{layout.Rejected(dir, addr), "hilive_out_cycle158_undetermined_predicted_neg.fasta"},
	}
	for _, tc := range cases {
		if tc.got != filepath.Join(dir, tc.want) {
			t.Fatalf("got %q want %q", tc.got, filepath.Join(dir, tc.want))
		}
	}
	if layout.Accepted(dir, addr) == layout.Rejected(dir, addr) {
		t.Fatal("accepted and rejected outputs must differ")
	}
	if got := layout.MatePaths(dir, addr, 100, unit.ExtBAM); len(got) != 2 {
		t.Fatalf("expected two mate paths, got %v", got)
	}
}

func TestCursorWalksCyclesThenBarcodes(t *testing.T) {
	cycles := []int{50, 100}
	barcodes := []string{"A", "B"}
	cursor := unit.NewCursor(cycles, barcodes)
	cycles[0] = 999
	barcodes[0] = "Z"

	if cursor.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", cursor.Remaining())
	}
	var visited []unit.Address
	var transitions []int
	for !cursor.Done() {
		addr, ok := cursor.Current()
		if !ok {
			t.Fatal("Current returned !ok before Done")
		}
		visited = append(visited, addr)
		if cycleDone, next := cursor.Advance(); cycleDone {
			transitions = append(transitions, next)
		}
	}
	want := []unit.Address{
		{Cycle: 50, Barcode: "A"}, {Cycle: 50, Barcode: "B"},
		{Cycle: 100, Barcode: "A"}, {Cycle: 100, Barcode: "B"},
	}
	if len(visited) != len(want) {
		t.Fatalf("visited %v", visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("unit %d = %v want %v", i, visited[i], want[i])
		}
	}
	if len(transitions) != 2 || transitions[0] != 100 || transitions[1] != 0 {
		t.Fatalf("unexpected transitions %v", transitions)
	}
	if _, ok := cursor.Current(); ok {
		t.Fatal("expected no current unit after completion")
	}
	if done, _ := cursor.Advance(); done {
		t.Fatal("Advance on finished cursor should be a no-op")
	}
}

func TestCursorDefaultsBarcode(t *testing.T) {
	cursor := unit.NewCursor([]int{50}, nil)
	addr, ok := cursor.Current()
	if !ok || addr.Barcode != unit.DefaultBarcode {
		t.Fatalf("unexpected head %v %v", addr, ok)
	}
	if got := cursor.Units(); len(got) != 1 {
		t.Fatalf("unexpected units %v", got)
	}
	if !unit.NewCursor(nil, nil).Done() {
		t.Fatal("cursor without cycles should be done")
	}
}
