// Package ledger records pipeline runs and the units they processed in SQLite.
//
// The ledger is observational: stages append to it after a unit's artifacts
// are published, and the status command reads it back. Stages never consult
// it to decide what to process, so deleting the database only loses history.
// The schema version lives in SQLite's user_version pragma; Open refuses a
// database stamped with any other version.
package ledger
