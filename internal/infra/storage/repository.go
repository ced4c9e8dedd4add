package storage

import (
	"context"
	"errors"

	"github.com/welldatalabs/wellsync/internal/core/domain"
)

var (
	// ErrNotApplicable is reported by Upsert when the record identifier is
	// absent from the caller-supplied candidate data. The store was not
	// touched; this is a condition, not a failure.
	ErrNotApplicable = errors.New("record not applicable")
)

// HeaderRepository owns the stored header entries. The sync engine only
// reads entries and requests upserts; it never mutates rows directly, so
// there is a single writer per record.
type HeaderRepository interface {
	// List returns every stored entry.
	List(ctx context.Context) ([]domain.StoredEntry, error)

	// Upsert replaces the entry for recordID with the matching candidate's
	// identifier and modified timestamp. When recordID is not among the
	// candidates it returns ErrNotApplicable without touching the store.
	Upsert(ctx context.Context, recordID string, candidates []domain.HeaderRecord) error

	// Delete removes the entry for recordID so the next cycle re-downloads
	// its payload.
	Delete(ctx context.Context, recordID string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying store.
	Close() error
}

// FindCandidate locates recordID in the candidate set.
func FindCandidate(candidates []domain.HeaderRecord, recordID string) (domain.HeaderRecord, bool) {
	for _, c := range candidates {
		if c.RecordID == recordID {
			return c, true
		}
	}
	return domain.HeaderRecord{}, false
}
