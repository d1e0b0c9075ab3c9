// Package main hosts the deepac-live CLI entrypoint and command graph.
//
// Each pipeline stage is its own subcommand so a sequencing host and a GPU
// host can run the halves of a run independently: sender on one, receiver on
// the other, with the exchange directory (local or pushed over SFTP) between
// them. The local command runs both in one process. Commands resolve the
// configuration, apply flag overrides, run preflight checks, take the stage
// lock and record progress in the run ledger before handing control to
// internal/pipeline.
package main
