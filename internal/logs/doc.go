// Package logs locates and tails the per-run log files stages write under
// the configured log directory.
package logs
