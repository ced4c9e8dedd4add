// Package sqlite implements the header repository on a local SQLite file,
// the default store backend.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_headers (
    record_id   TEXT PRIMARY KEY,
    modified_at DATETIME NOT NULL
)`

// Store is a SQLite-backed header repository.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the job_headers table exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create job_headers table: %w", err)
	}

	return &Store{db: db}, nil
}

// List returns every stored entry ordered by record identifier.
func (s *Store) List(ctx context.Context) ([]domain.StoredEntry, error) {
	var entries []domain.StoredEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT record_id, modified_at FROM job_headers ORDER BY record_id`)
	if err != nil {
		return nil, fmt.Errorf("list job headers: %w", err)
	}
	return entries, nil
}

// Upsert replaces the row for recordID using the matching candidate.
//
// The delete runs in its own transaction; the insert deliberately runs
// outside it to keep transaction scopes flat. A crash between the two
// leaves the record absent until the next diff cycle re-discovers it — an
// accepted at-least-once re-download window.
func (s *Store) Upsert(ctx context.Context, recordID string, candidates []domain.HeaderRecord) error {
	cand, ok := storage.FindCandidate(candidates, recordID)
	if !ok {
		return storage.ErrNotApplicable
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM job_headers WHERE record_id = ?`, recordID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete job header %s: %w", recordID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete of job header %s: %w", recordID, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO job_headers (record_id, modified_at) VALUES (?, ?)`,
		cand.RecordID, cand.ModifiedAt.UTC()); err != nil {
		return fmt.Errorf("insert job header %s: %w", recordID, err)
	}
	return nil
}

// Delete removes the entry for recordID.
func (s *Store) Delete(ctx context.Context, recordID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM job_headers WHERE record_id = ?`, recordID); err != nil {
		return fmt.Errorf("delete job header %s: %w", recordID, err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM job_headers`); err != nil {
		return fmt.Errorf("clear job headers: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM job_headers`); err != nil {
		return 0, fmt.Errorf("count job headers: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
