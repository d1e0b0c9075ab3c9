package ledger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ledgerVersion is stored in the database's user_version pragma.
const ledgerVersion = 1

// ErrSchemaMismatch reports a ledger written by an incompatible release.
var ErrSchemaMismatch = errors.New("ledger schema mismatch")

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read ledger version: %w", err)
	}
	switch version {
	case ledgerVersion:
		return nil
	case 0:
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin ledger migration: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create ledger tables: %w", err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", ledgerVersion)); err != nil {
			return fmt.Errorf("stamp ledger version: %w", err)
		}
		return tx.Commit()
	default:
		return fmt.Errorf("%w: %s is version %d, this build reads %d; move it aside to start a fresh ledger",
			ErrSchemaMismatch, s.path, version, ledgerVersion)
	}
}
