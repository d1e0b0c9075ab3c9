// Package config loads, normalizes, and validates deepac-live configuration.
//
// Configuration lives in a TOML file (by default
// ~/.config/deepac-live/config.toml) decoded with go-toml. Load fills defaults,
// expands ~ in paths, and rejects conflicting options before any stage starts;
// stage-specific requirements (cycles, input directories, model source) are
// checked by ValidateFor once command-line overrides have been applied.
package config
