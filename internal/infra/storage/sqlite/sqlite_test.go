package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sqlite", "wellsync.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	store := openTestStore(t)

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() on fresh store error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t0 := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	cands := []domain.HeaderRecord{
		{RecordID: "a", ModifiedAt: t0},
		{RecordID: "b", ModifiedAt: t0.Add(time.Hour)},
	}

	if err := store.Upsert(ctx, "a", cands); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert(ctx, "b", cands); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %v, want 2 entries", entries)
	}
	if entries[0].RecordID != "a" || !entries[0].ModifiedAt.Equal(t0) {
		t.Errorf("entries[0] = %+v, want a at %v", entries[0], t0)
	}

	// Replacing keeps a single row per record.
	fresher := []domain.HeaderRecord{{RecordID: "a", ModifiedAt: t0.Add(2 * time.Hour)}}
	if err := store.Upsert(ctx, "a", fresher); err != nil {
		t.Fatalf("replacing Upsert() error = %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() = %d after replace, want 2", n)
	}
}

func TestUpsertNotApplicableLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	err := store.Upsert(ctx, "missing", []domain.HeaderRecord{{RecordID: "a"}})
	if !errors.Is(err, storage.ErrNotApplicable) {
		t.Fatalf("Upsert() error = %v, want ErrNotApplicable", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cands := []domain.HeaderRecord{
		{RecordID: "a", ModifiedAt: t0},
		{RecordID: "b", ModifiedAt: t0},
	}
	for _, c := range cands {
		if err := store.Upsert(ctx, c.RecordID, cands); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count() = %d after delete, want 1", n)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("Count() = %d after clear, want 0", n)
	}
}
