// Package pipeline drives the sender, receiver and refilter stages.
//
// Every stage walks the same state machine: a unit.Cursor over the configured
// cycles and barcodes. For the unit at the head of the cursor the stage waits
// until its inputs are ready, processes it, records it in the ledger and pops
// it. Exhausting a cycle's barcodes moves to the next cycle; exhausting the
// cycles ends the run. A processed unit is never revisited within a run, and
// any processing error ends the run.
//
// Stages share nothing but the filesystem. Every artifact is published by
// atomic rename, so readiness is the existence of the final file name.
package pipeline
