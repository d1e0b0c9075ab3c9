package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"deepaclive/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "receiver", "classify", "model runtime failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"receiver", "classify", "model runtime failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), 0},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "validate", "bad", nil), services.ExitConfiguration},
		{"validation", services.Wrap(services.ErrValidation, "filter", "partition", "bad", nil), services.ExitValidation},
		{"tool", services.Wrap(services.ErrExternalTool, "sender", "extract", "bad", nil), services.ExitExternalTool},
		{"transport", services.Wrap(services.ErrTransport, "sender", "push", "bad", nil), services.ExitTransport},
		{"other", errors.New("plain"), services.ExitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestKindLabels(t *testing.T) {
	if got := services.Kind(services.Wrap(services.ErrTransport, "", "", "x", nil)); got != "transport" {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := services.Kind(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %q", got)
	}
}
