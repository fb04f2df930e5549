package storage

import "specmap/internal/errors"

const currentSchemaVersion = 1

// initSchema creates the tables on first open and records the schema
// version for future migrations.
func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			taken_at TEXT NOT NULL,
			artifact_count INTEGER NOT NULL,
			avg_complexity REAL NOT NULL,
			avg_change_frequency REAL NOT NULL,
			avg_author_churn REAL NOT NULL,
			total_requirements INTEGER NOT NULL,
			linked_requirements INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return errors.Wrap(errors.StorageFailed, "initializing schema", err)
		}
	}

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return errors.Wrap(errors.StorageFailed, "reading schema version", err)
	}
	if count == 0 {
		if _, err := db.conn.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return errors.Wrap(errors.StorageFailed, "writing schema version", err)
		}
	}
	return nil
}
