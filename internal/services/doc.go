// Package services defines shared utilities consumed by the pipeline stages
// and their external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, run identifiers, and unit
//     coordinates (cycle, barcode) for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the taxonomy every stage shares (configuration, validation,
//     external tool, transport) and map them onto process exit codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across Sender, Receiver and Refilterer.
package services
