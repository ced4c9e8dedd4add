// Package worker holds background maintenance workers.
package worker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Pruner deletes derived artifact files past the retention period.
type Pruner struct {
	dir       string
	retention time.Duration
	log       *slog.Logger
}

// NewPruner creates a pruner for the artifact files under dir. A
// non-positive retention disables pruning.
func NewPruner(dir string, retention time.Duration, log *slog.Logger) *Pruner {
	return &Pruner{dir: dir, retention: retention, log: log}
}

// Start runs the pruner loop until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return
	}

	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.prune()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune()
		}
	}
}

func (p *Pruner) prune() {
	cutoff := time.Now().Add(-p.retention)

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Error("failed to read artifact directory", "dir", p.dir, "error", err)
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(p.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			p.log.Error("failed to prune artifact", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		p.log.Info("pruned expired artifacts", "dir", p.dir, "removed", removed)
	}
}
