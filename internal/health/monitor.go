package health

import (
	"context"
	"sync"
	"time"

	"github.com/welldatalabs/wellsync/internal/infra/storage"
	"github.com/welldatalabs/wellsync/internal/syncing"
)

// QueueCounter reports the size of the failed-download queue.
type QueueCounter interface {
	Count(ctx context.Context) (int, error)
}

// Monitor aggregates health status from the cycle runner, the header
// store, and the optional failed-download queue.
type Monitor struct {
	store       storage.HeaderRepository
	queue       QueueCounter // nil when no queue is configured
	staleAfter  time.Duration
	lastReport  *syncing.CycleReport
	lastErr     error
	lastCycleAt time.Time
	mu          sync.RWMutex
}

// NewMonitor creates a health monitor. staleAfter bounds how long the
// service may go without a completed cycle before it reports critical;
// zero disables the staleness check.
func NewMonitor(store storage.HeaderRepository, queue QueueCounter, staleAfter time.Duration) *Monitor {
	return &Monitor{
		store:      store,
		queue:      queue,
		staleAfter: staleAfter,
	}
}

// Record captures the outcome of a sync cycle.
func (m *Monitor) Record(report *syncing.CycleReport, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReport = report
	m.lastErr = err
	m.lastCycleAt = time.Now()
}

// Check builds the current health report.
func (m *Monitor) Check(ctx context.Context) Report {
	m.mu.RLock()
	report := m.lastReport
	lastErr := m.lastErr
	lastAt := m.lastCycleAt
	m.mu.RUnlock()

	out := Report{Status: StatusHealthy}

	if report != nil {
		out.LastCycleID = report.CycleID
		out.LastCycleAt = lastAt
		out.Synced = report.Synced
		out.Failed = report.Failed
		out.ArtifactErrors = report.ArtifactErrs
	}
	if lastErr != nil {
		out.LastCycleError = lastErr.Error()
	}

	if n, err := m.store.Count(ctx); err == nil {
		out.StoredRecords = n
	} else {
		out.Status = StatusDegraded
	}
	if m.queue != nil {
		if n, err := m.queue.Count(ctx); err == nil {
			out.FailedQueued = n
		}
	}

	switch {
	case lastErr != nil:
		out.Status = StatusCritical
	case m.staleAfter > 0 && !lastAt.IsZero() && time.Since(lastAt) > m.staleAfter:
		out.Status = StatusCritical
	case report != nil && (report.Failed > 0 || report.ArtifactErrs > 0):
		out.Status = StatusDegraded
	case out.FailedQueued > 0 && out.Status == StatusHealthy:
		out.Status = StatusDegraded
	}
	return out
}
