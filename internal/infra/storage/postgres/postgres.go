// Package postgres implements the header repository on PostgreSQL, for
// deployments where the local store lives in a shared database.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is a PostgreSQL-backed header repository.
type Store struct {
	db *sqlx.DB
}

// Open connects to url and applies pending migrations.
func Open(ctx context.Context, url string, maxConns, minConns int) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if minConns > 0 {
		db.SetMaxIdleConns(minConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	// Goose needs the raw *sql.DB that sqlx wraps.
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
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

// Upsert replaces the row for recordID using the matching candidate. Same
// split transaction shape as the SQLite backend: delete committed first,
// insert outside that transaction, crash window accepted and self-healed
// by the next diff cycle.
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
		`DELETE FROM job_headers WHERE record_id = $1`, recordID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete job header %s: %w", recordID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete of job header %s: %w", recordID, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO job_headers (record_id, modified_at) VALUES ($1, $2)`,
		cand.RecordID, cand.ModifiedAt.UTC()); err != nil {
		return fmt.Errorf("insert job header %s: %w", recordID, err)
	}
	return nil
}

// Delete removes the entry for recordID.
func (s *Store) Delete(ctx context.Context, recordID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM job_headers WHERE record_id = $1`, recordID); err != nil {
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
