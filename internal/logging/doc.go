// Package logging builds the slog loggers used by every deepac-live stage.
//
// Each stage run logs to the console (human-readable or JSON, per
// logging.format) and, through TeeHandler, to a JSON run log named after the
// stage and run ID under logging.log_dir. Console headers render the stage,
// cycle and barcode as a subject line; the remaining attributes follow as
// indented fields. CleanupOldLogs prunes run logs past the retention window.
package logging
