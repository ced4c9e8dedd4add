// Package memory implements the header repository in process memory.
// Used by tests and as a fallback when no store is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
)

// Store is an in-memory header repository.
type Store struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewStore creates an empty in-memory repository.
func NewStore() *Store {
	return &Store{entries: make(map[string]time.Time)}
}

func (s *Store) List(ctx context.Context) ([]domain.StoredEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.StoredEntry, 0, len(s.entries))
	for id, modifiedAt := range s.entries {
		entries = append(entries, domain.StoredEntry{RecordID: id, ModifiedAt: modifiedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordID < entries[j].RecordID
	})
	return entries, nil
}

func (s *Store) Upsert(ctx context.Context, recordID string, candidates []domain.HeaderRecord) error {
	cand, ok := storage.FindCandidate(candidates, recordID)
	if !ok {
		return storage.ErrNotApplicable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cand.RecordID] = cand.ModifiedAt.UTC()
	return nil
}

func (s *Store) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, recordID)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *Store) Close() error {
	return nil
}
