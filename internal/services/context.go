package services

import "context"

type contextKey string

const (
	stageKey   contextKey = "stage"
	runIDKey   contextKey = "run_id"
	cycleKey   contextKey = "cycle"
	barcodeKey contextKey = "barcode"
)

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the identifier of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithUnit annotates context with the cycle and barcode being processed.
func WithUnit(ctx context.Context, cycle int, barcode string) context.Context {
	ctx = context.WithValue(ctx, cycleKey, cycle)
	if barcode == "" {
		return ctx
	}
	return context.WithValue(ctx, barcodeKey, barcode)
}

// CycleFromContext returns the cycle number if present.
func CycleFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(cycleKey).(int)
	return v, ok
}

// BarcodeFromContext returns the barcode if present.
func BarcodeFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(barcodeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
