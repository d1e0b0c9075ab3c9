package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deepaclive/internal/config"
)

// StageLogFilePattern matches the run log files written by NewForStage.
const StageLogFilePattern = "deepac-live-*.log"

// Options selects a logger's level, format and destination.
type Options struct {
	Level  string // debug, info, warn or error; anything else means info
	Format string // console or json; empty means console
	Writer io.Writer
}

// New builds a logger writing to opts.Writer, or stdout when it is nil.
// Debug loggers annotate each line with its source location.
func New(opts Options) (*slog.Logger, error) {
	h, err := handlerFor(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// NewForStage builds the logger a stage run uses: configured output on
// stdout, teed into a JSON run log named deepac-live-<stage>-<runID>.log
// under paths.log_dir. It returns the run log path, or "" when no log
// directory is configured.
func NewForStage(cfg *config.Config, stage, runID string) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{})
		return logger, "", err
	}
	console, err := handlerFor(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, "", err
	}
	dir := strings.TrimSpace(cfg.Paths.LogDir)
	if dir == "" {
		return slog.New(console), "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log directory: %w", err)
	}
	name := strings.Join(nonEmpty("deepac-live", stage, runID), "-") + ".log"
	logPath := filepath.Join(dir, name)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("open run log: %w", err)
	}
	runLog, err := handlerFor(Options{Level: cfg.Logging.Level, Format: "json", Writer: file})
	if err != nil {
		_ = file.Close()
		return nil, "", err
	}
	return slog.New(TeeHandler(console, runLog)), logPath, nil
}

func handlerFor(opts Options) (slog.Handler, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	level := parseLevel(opts.Level)
	addSource := level <= slog.LevelDebug
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return newConsoleHandler(w, level, addSource), nil
	case "json":
		return newJSONHandler(w, level, addSource), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
