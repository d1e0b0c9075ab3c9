package waiter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAwaitReturnsImmediatelyWhenReady(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Await(context.Background(), func() bool { calls++; return true }, time.Hour)
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one check, got %d", calls)
	}
	if time.Since(start) > time.Second {
		t.Fatal("Await slept although the check passed")
	}
}

func TestAwaitPollsUntilReady(t *testing.T) {
	prev := MinInterval
	MinInterval = 5 * time.Millisecond
	t.Cleanup(func() { MinInterval = prev })

	calls := 0
	err := Await(context.Background(), func() bool {
		calls++
		return calls == 3
	}, time.Millisecond)
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected three checks, got %d", calls)
	}
}

func TestAwaitClampsInterval(t *testing.T) {
	prev := MinInterval
	MinInterval = 40 * time.Millisecond
	t.Cleanup(func() { MinInterval = prev })

	calls := 0
	start := time.Now()
	_ = Await(context.Background(), func() bool {
		calls++
		return calls == 2
	}, 0)
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("expected interval to be raised to the minimum, waited %s", elapsed)
	}
}

func TestAwaitStopsOnCancel(t *testing.T) {
	prev := MinInterval
	MinInterval = 5 * time.Millisecond
	t.Cleanup(func() { MinInterval = prev })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := Await(ctx, func() bool { return false }, time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context error, got %v", err)
	}
}
