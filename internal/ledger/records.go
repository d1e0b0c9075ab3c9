package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run is one invocation of a stage.
type Run struct {
	ID         string
	Stage      string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Error      string
}

// Unit is one processed (cycle, barcode) pair.
type Unit struct {
	RunID       string
	Stage       string
	Cycle       int
	Barcode     string
	Paired      bool
	Reads       int
	Accepted    int
	Rejected    int
	Skipped     bool
	CompletedAt time.Time
}

// CycleSummary aggregates the units of one stage and cycle across runs.
type CycleSummary struct {
	Stage    string
	Cycle    int
	Units    int
	Reads    int
	Accepted int
	Rejected int
	Skipped  int
	LastSeen time.Time
}

// BeginRun records the start of a stage run.
func (s *Store) BeginRun(ctx context.Context, id, stage string) error {
	err := s.exec(ctx,
		`INSERT INTO runs (id, stage, started_at, status) VALUES (?, ?, ?, ?)`,
		id, stage, formatTime(time.Now()), StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a stage run. A nil runErr marks it completed.
func (s *Store) FinishRun(ctx context.Context, id string, runErr error) error {
	status := StatusCompleted
	var message sql.NullString
	switch {
	case errors.Is(runErr, context.Canceled):
		status = StatusCancelled
	case runErr != nil:
		status = StatusFailed
		message = sql.NullString{String: runErr.Error(), Valid: true}
	}
	err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		formatTime(time.Now()), status, message, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordUnit stores a processed unit, replacing any earlier record for the
// same run and address.
func (s *Store) RecordUnit(ctx context.Context, u Unit) error {
	if u.CompletedAt.IsZero() {
		u.CompletedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT OR REPLACE INTO units (
            run_id, stage, cycle, barcode, paired, reads, accepted, rejected, skipped, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.RunID, u.Stage, u.Cycle, u.Barcode, boolToInt(u.Paired), u.Reads,
		u.Accepted, u.Rejected, boolToInt(u.Skipped), formatTime(u.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("record unit %d/%s: %w", u.Cycle, u.Barcode, err)
	}
	return nil
}

// Runs lists the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, stage, started_at, finished_at, status, error FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			startedRaw  string
			finishedRaw sql.NullString
			message     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Stage, &startedRaw, &finishedRaw, &run.Status, &message); err != nil {
			return nil, err
		}
		run.StartedAt = parseTime(startedRaw)
		if finishedRaw.Valid {
			run.FinishedAt = parseTime(finishedRaw.String)
		}
		run.Error = message.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Units lists the units recorded by one run in processing order.
func (s *Store) Units(ctx context.Context, runID string) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, stage, cycle, barcode, paired, reads, accepted, rejected, skipped, completed_at
         FROM units WHERE run_id = ? ORDER BY completed_at, cycle, barcode`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var (
			u               Unit
			paired, skipped int
			completedRaw    string
		)
		if err := rows.Scan(&u.RunID, &u.Stage, &u.Cycle, &u.Barcode, &paired, &u.Reads,
			&u.Accepted, &u.Rejected, &skipped, &completedRaw); err != nil {
			return nil, err
		}
		u.Paired = paired != 0
		u.Skipped = skipped != 0
		u.CompletedAt = parseTime(completedRaw)
		units = append(units, u)
	}
	return units, rows.Err()
}

// Summary aggregates recorded units per stage and cycle.
func (s *Store) Summary(ctx context.Context) ([]CycleSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, cycle, COUNT(1), SUM(reads), SUM(accepted), SUM(rejected), SUM(skipped), MAX(completed_at)
         FROM units GROUP BY stage, cycle ORDER BY stage, cycle`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize units: %w", err)
	}
	defer rows.Close()

	var out []CycleSummary
	for rows.Next() {
		var (
			sum     CycleSummary
			lastRaw string
		)
		if err := rows.Scan(&sum.Stage, &sum.Cycle, &sum.Units, &sum.Reads, &sum.Accepted,
			&sum.Rejected, &sum.Skipped, &lastRaw); err != nil {
			return nil, err
		}
		sum.LastSeen = parseTime(lastRaw)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
