package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsPerHandlerLevel(t *testing.T) {
	var console, file bytes.Buffer
	lvlInfo := new(slog.LevelVar)
	lvlDebug := new(slog.LevelVar)
	lvlDebug.Set(slog.LevelDebug)

	h := TeeHandler(
		newConsoleHandler(&console, lvlInfo, false),
		newJSONHandler(&file, lvlDebug, false),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee to be enabled for debug when one handler accepts it")
	}

	logger := slog.New(h).With(String(FieldStage, "receiver"))
	logger.Debug("probe", Cycle(50))
	logger.Info("unit received", Cycle(50), Barcode("undetermined"), Duration("elapsed", 1500*time.Millisecond))

	if strings.Contains(console.String(), "probe") {
		t.Fatalf("console handler should drop debug output, got %q", console.String())
	}
	if !strings.Contains(console.String(), "Receiver · cycle 50 · undetermined – unit received") {
		t.Fatalf("unexpected console header %q", console.String())
	}
	if !strings.Contains(console.String(), "elapsed: 1.5s") {
		t.Fatalf("expected rounded duration on console, got %q", console.String())
	}
	if got := strings.Count(file.String(), "\n"); got != 2 {
		t.Fatalf("expected 2 json lines, got %d: %q", got, file.String())
	}
	for _, fragment := range []string{`"stage":"receiver"`, `"elapsed_ms":1500`, `"level":"info"`} {
		if !strings.Contains(file.String(), fragment) {
			t.Fatalf("expected %s in json output, got %q", fragment, file.String())
		}
	}
}

func TestTeeHandlerWithGroup(t *testing.T) {
	var a, b bytes.Buffer
	h := TeeHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	).WithGroup("scores")
	slog.New(h).Info("ensembled", slog.Int("inputs", 3))

	for _, buf := range []*bytes.Buffer{&a, &b} {
		if !strings.Contains(buf.String(), `"scores":{"inputs":3}`) {
			t.Fatalf("expected grouped attribute, got %q", buf.String())
		}
	}
}

func TestFieldValueQuoting(t *testing.T) {
	tests := []struct {
		value slog.Value
		want  string
	}{
		{slog.StringValue("plain"), "plain"},
		{slog.StringValue("two words"), `"two words"`},
		{slog.StringValue(""), `""`},
		{slog.Float64Value(0.123456789), "0.123457"},
		{slog.IntValue(150), "150"},
		{slog.DurationValue(1234567 * time.Microsecond), "1.235s"},
	}
	for _, tc := range tests {
		if got := fieldValue(tc.value); got != tc.want {
			t.Errorf("fieldValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
