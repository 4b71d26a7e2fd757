package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// NewID generates a new ULID-based identifier for evaluations and batches.
// IDs from one process sort in creation order.
func NewID() string {
	return ulid.Make().String()
}

// SQLiteStore implements EvaluationStore backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets "nextrun history" read while "nextrun serve" writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// RecordEvaluation inserts or updates an evaluation.
func (s *SQLiteStore) RecordEvaluation(ctx context.Context, e *Evaluation) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Mode == "" {
		e.Mode = "compat"
	}
	if e.Source == "" {
		e.Source = "cli"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, batch_id, reference, mode, line, next_run, day,
			command, error_msg, source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			next_run = excluded.next_run,
			day = excluded.day,
			command = excluded.command,
			error_msg = excluded.error_msg`,
		e.ID,
		e.BatchID,
		e.Reference,
		e.Mode,
		e.Line,
		nullString(e.NextRun),
		nullString(e.Day),
		nullString(e.Command),
		nullString(e.ErrorMsg),
		e.Source,
		formatTime(e.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) scanEvaluation(row interface{ Scan(...any) error }) (*Evaluation, error) {
	var e Evaluation
	var createdAt string
	var nextRun, day, command, errorMsg sql.NullString

	err := row.Scan(
		&e.ID,
		&e.BatchID,
		&e.Reference,
		&e.Mode,
		&e.Line,
		&nextRun,
		&day,
		&command,
		&errorMsg,
		&e.Source,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	e.NextRun = nextRun.String
	e.Day = day.String
	e.Command = command.String
	e.ErrorMsg = errorMsg.String

	return &e, nil
}

const selectEvaluationCols = `id, batch_id, reference, mode, line, next_run, day,
	command, error_msg, source, created_at`

// GetEvaluation retrieves a single evaluation by ID. It returns nil, nil if
// none exists.
func (s *SQLiteStore) GetEvaluation(ctx context.Context, id string) (*Evaluation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectEvaluationCols+" FROM evaluations WHERE id = ?", id)
	e, err := s.scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListEvaluations returns evaluations matching opts, newest first.
func (s *SQLiteStore) ListEvaluations(ctx context.Context, opts ListOpts) ([]*Evaluation, error) {
	query := "SELECT " + selectEvaluationCols + " FROM evaluations"
	var args []any

	if opts.BatchID != "" {
		query += " WHERE batch_id = ?"
		args = append(args, opts.BatchID)
	}
	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*Evaluation
	for rows.Next() {
		e, err := s.scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// GetStats returns aggregate counts over all evaluations.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var lastAt sql.NullString
	var today, tomorrow, failures sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT batch_id) AS batches,
			SUM(CASE WHEN day = 'today' THEN 1 ELSE 0 END) AS today,
			SUM(CASE WHEN day = 'tomorrow' THEN 1 ELSE 0 END) AS tomorrow,
			SUM(CASE WHEN error_msg IS NOT NULL THEN 1 ELSE 0 END) AS failures,
			MAX(created_at) AS last_at
		FROM evaluations`).Scan(
		&stats.Total,
		&stats.Batches,
		&today,
		&tomorrow,
		&failures,
		&lastAt,
	)
	if err != nil {
		return nil, err
	}
	stats.Today = int(today.Int64)
	stats.Tomorrow = int(tomorrow.Int64)
	stats.Failures = int(failures.Int64)

	if lastAt.Valid {
		t, err := parseTime(lastAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_at: %w", err)
		}
		stats.LastAt = &t
	}

	return &stats, nil
}
