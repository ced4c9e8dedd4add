package worker

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPruneRemovesOnlyExpiredArtifacts(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "original_old.csv")
	fresh := filepath.Join(dir, "original_fresh.csv")
	other := filepath.Join(dir, "notes.txt")

	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatal(err)
	}

	p := NewPruner(dir, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.prune()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("expired artifact survived (stat err = %v)", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh artifact removed: %v", err)
	}
	// Non-CSV files are never touched.
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-artifact file removed: %v", err)
	}
}

func TestPruneMissingDirectoryIsQuiet(t *testing.T) {
	p := NewPruner(filepath.Join(t.TempDir(), "absent"), time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.prune() // must not panic
}
