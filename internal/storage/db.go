// Package storage persists per-run analysis snapshots in a SQLite
// database under <repoRoot>/.specmap/. Snapshots feed the 12-month
// hotspot trends; everything else is recomputed fresh each run.
package storage

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"specmap/internal/errors"
	"specmap/internal/hotspots"
)

// DB wraps the snapshot database connection.
type DB struct {
	conn *sql.DB
	log  *slog.Logger
	path string
}

// Snapshot is one persisted per-run aggregate.
type Snapshot struct {
	RunID              string    `json:"runId"`
	TakenAt            time.Time `json:"takenAt"`
	ArtifactCount      int       `json:"artifactCount"`
	AvgComplexity      float64   `json:"avgComplexity"`
	AvgChangeFrequency float64   `json:"avgChangeFrequency"`
	AvgAuthorChurn     float64   `json:"avgAuthorChurn"`
	TotalRequirements  int       `json:"totalRequirements"`
	LinkedRequirements int       `json:"linkedRequirements"`
}

// Open opens or creates the snapshot database at .specmap/specmap.db.
func Open(repoRoot string, log *slog.Logger) (*DB, error) {
	dir := filepath.Join(repoRoot, ".specmap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.StorageFailed, "creating .specmap directory", err)
	}

	path := filepath.Join(dir, "specmap.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.StorageFailed, "opening snapshot database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.Wrap(errors.StorageFailed, "setting pragma", err)
		}
	}

	db := &DB{conn: conn, log: log, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveSnapshot inserts one run snapshot.
func (db *DB) SaveSnapshot(s Snapshot) error {
	_, err := db.conn.Exec(`
		INSERT INTO snapshots (
			run_id, taken_at, artifact_count,
			avg_complexity, avg_change_frequency, avg_author_churn,
			total_requirements, linked_requirements
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.TakenAt.UTC().Format(time.RFC3339), s.ArtifactCount,
		s.AvgComplexity, s.AvgChangeFrequency, s.AvgAuthorChurn,
		s.TotalRequirements, s.LinkedRequirements)
	if err != nil {
		return errors.Wrap(errors.StorageFailed, "saving snapshot", err)
	}
	db.log.Debug("saved analysis snapshot", "runId", s.RunID, "artifacts", s.ArtifactCount)
	return nil
}

// Snapshots returns every snapshot taken at or after since, oldest
// first.
func (db *DB) Snapshots(since time.Time) ([]Snapshot, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, taken_at, artifact_count,
		       avg_complexity, avg_change_frequency, avg_author_churn,
		       total_requirements, linked_requirements
		FROM snapshots
		WHERE taken_at >= ?
		ORDER BY taken_at ASC`,
		since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrap(errors.StorageFailed, "loading snapshots", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var takenAt string
		if err := rows.Scan(&s.RunID, &takenAt, &s.ArtifactCount,
			&s.AvgComplexity, &s.AvgChangeFrequency, &s.AvgAuthorChurn,
			&s.TotalRequirements, &s.LinkedRequirements); err != nil {
			return nil, errors.Wrap(errors.StorageFailed, "scanning snapshot", err)
		}
		if t, err := time.Parse(time.RFC3339, takenAt); err == nil {
			s.TakenAt = t
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// TrendSamples converts stored snapshots into hotspot trend samples.
func (db *DB) TrendSamples(since time.Time) ([]hotspots.Sample, error) {
	snapshots, err := db.Snapshots(since)
	if err != nil {
		return nil, err
	}
	samples := make([]hotspots.Sample, 0, len(snapshots))
	for _, s := range snapshots {
		samples = append(samples, hotspots.Sample{
			TakenAt:         s.TakenAt,
			Complexity:      s.AvgComplexity,
			ChangeFrequency: s.AvgChangeFrequency,
			AuthorChurn:     s.AvgAuthorChurn,
		})
	}
	return samples, nil
}

// Prune removes snapshots older than the retention window.
func (db *DB) Prune(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	result, err := db.conn.Exec(`DELETE FROM snapshots WHERE taken_at < ?`,
		cutoff.Format(time.RFC3339))
	if err != nil {
		return errors.Wrap(errors.StorageFailed, "pruning snapshots", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		db.log.Debug("pruned old snapshots", "removed", n)
	}
	return nil
}
