// Package sqlite keeps the local run history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"renextract/internal/domain"
	"renextract/internal/ports"
)

// DefaultRecentLimit is used when Recent is called without a limit.
const DefaultRecentLimit = 20

// History implements ports.RunHistory
type History struct {
	db   *sql.DB
	path string
}

var _ ports.RunHistory = (*History)(nil)

// Open creates the database file if needed, migrates it and returns
// the history.
func Open(path string) (*History, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	if err := migrateUp(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	return &History{db: db, path: path}, nil
}

// Path returns the database file.
func (h *History) Path() string {
	return h.path
}

// Close closes the database connection
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Record stores rec. Recording the same event twice is a no-op.
func (h *History) Record(ctx context.Context, rec domain.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.EventID == "" {
		rec.EventID = rec.ID
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO run_history
			(id, event_id, kind, path, success, detail, error, occurred_at, extracted_count, asterix_count, tilde_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.EventID, rec.Kind, rec.Path, rec.Success, rec.Detail, rec.Error, rec.OccurredAt.UnixMilli(),
		rec.ExtractedCount, rec.AsterixCount, rec.TildeCount)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// Recent returns the newest records first. An empty kind matches every
// workflow.
func (h *History) Recent(ctx context.Context, kind string, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, event_id, kind, path, success, detail, error, occurred_at,
			extracted_count, asterix_count, tilde_count
		FROM run_history
		WHERE ? = '' OR kind = ?
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT ?
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var at int64
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Kind, &rec.Path, &rec.Success, &rec.Detail, &rec.Error, &at,
			&rec.ExtractedCount, &rec.AsterixCount, &rec.TildeCount); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		rec.OccurredAt = time.UnixMilli(at).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastExtraction returns the counts of the newest successful extraction
// of path. It returns nil, nil when path was never extracted.
func (h *History) LastExtraction(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	var res domain.ExtractionResult
	err := h.db.QueryRowContext(ctx, `
		SELECT extracted_count, asterix_count, tilde_count
		FROM run_history
		WHERE kind = 'extraction' AND success = 1 AND path = ?
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT 1
	`, path).Scan(&res.ExtractedCount, &res.AsterixCount, &res.TildeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last extraction: %w", err)
	}
	return &res, nil
}

// Counts returns successful and failed runs per kind.
func (h *History) Counts(ctx context.Context) (map[string]domain.RunStats, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT kind, SUM(success), SUM(1 - success)
		FROM run_history
		GROUP BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("count run history: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]domain.RunStats)
	for rows.Next() {
		var kind string
		var ok, failed int
		if err := rows.Scan(&kind, &ok, &failed); err != nil {
			return nil, fmt.Errorf("scan run counts: %w", err)
		}
		counts[kind] = domain.NewRunStats(ok, failed)
	}
	return counts, rows.Err()
}
