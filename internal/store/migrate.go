package store

import "database/sql"

const migrationSQL = `
CREATE TABLE IF NOT EXISTS evaluations (
    id TEXT PRIMARY KEY,
    batch_id TEXT NOT NULL,
    reference TEXT NOT NULL,
    mode TEXT NOT NULL DEFAULT 'compat',
    line TEXT NOT NULL,
    next_run TEXT,
    day TEXT,
    command TEXT,
    error_msg TEXT,
    source TEXT NOT NULL DEFAULT 'cli',
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_evaluations_batch_id ON evaluations(batch_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

// RunMigrations applies the database schema migrations.
func RunMigrations(db *sql.DB) error {
	_, err := db.Exec(migrationSQL)
	return err
}
