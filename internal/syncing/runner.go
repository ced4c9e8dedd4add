package syncing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/infra/api"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
	"github.com/welldatalabs/wellsync/internal/metrics"
	"github.com/welldatalabs/wellsync/internal/payload"
)

const (
	rawFilePrefix       = "original_"
	formattedFilePrefix = "formatted_"
	unitsFilePrefix     = "units_"
)

// RemoteClient is the slice of the API client the runner needs.
type RemoteClient interface {
	JobHeaders(ctx context.Context) ([]domain.HeaderRecord, error)
	PerSecData(ctx context.Context, recordID string) (string, error)
}

// FailedQueue tracks downloads that keep failing so they can be retried
// first on later cycles. Implementations must tolerate concurrent cycles
// not existing: the runner is single-flight.
type FailedQueue interface {
	Add(ctx context.Context, failed *domain.FailedDownload) error
	RecordIDs(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, recordID string) error
}

// Config carries the per-cycle knobs the runner needs.
type Config struct {
	// PacingDelay is slept between consecutive payload downloads. No
	// delay is taken before the first item of a cycle.
	PacingDelay time.Duration

	// ArtifactDir is where derived CSV files land.
	ArtifactDir string

	WriteRaw       bool
	WriteFormatted bool
	WriteUnits     bool
}

// CycleReport summarizes a single sync cycle.
type CycleReport struct {
	CycleID       string        `json:"cycle_id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	RemoteHeaders int           `json:"remote_headers"`
	Planned       int           `json:"planned"`
	Synced        int           `json:"synced"`
	Failed        int           `json:"failed"`
	StoreSkipped  int           `json:"store_skipped"`
	ArtifactErrs  int           `json:"artifact_errors"`
}

// Runner executes sync cycles against a remote API and a header store.
type Runner struct {
	cfg    Config
	client RemoteClient
	store  storage.HeaderRepository
	queue  FailedQueue // nil when no queue is configured
	sleep  api.SleepFunc
	log    *slog.Logger
}

func NewRunner(cfg Config, client RemoteClient, store storage.HeaderRepository, queue FailedQueue, log *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		client: client,
		store:  store,
		queue:  queue,
		sleep:  api.Sleep,
		log:    log,
	}
}

// RunCycle performs one full sync pass: fetch headers, diff against the
// store, download each planned payload with pacing in between, derive
// artifacts, and upsert the header rows. Item-level failures are
// recorded in the report and do not abort the cycle; only header fetch,
// store listing, and context cancellation do.
func (r *Runner) RunCycle(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{
		CycleID:   uuid.New().String(),
		StartedAt: time.Now(),
	}
	log := r.log.With("cycle", report.CycleID)
	defer func() {
		report.Duration = time.Since(report.StartedAt)
		metrics.CycleDuration.Observe(report.Duration.Seconds())
	}()

	remote, err := r.client.JobHeaders(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch job headers: %w", err)
	}
	report.RemoteHeaders = len(remote)

	stored, err := r.store.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list stored headers: %w", err)
	}

	work := ComputeWork(remote, stored)
	report.Planned = len(work)
	metrics.WorkListSize.Set(float64(len(work)))
	log.Info("cycle planned", "remote", len(remote), "stored", len(stored), "work", len(work))

	if r.queue != nil {
		work = r.prioritizeFailed(ctx, work, log)
	}

	for i, item := range work {
		if i > 0 && r.cfg.PacingDelay > 0 {
			if err := r.sleep(ctx, r.cfg.PacingDelay); err != nil {
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r.processItem(ctx, item, report, log)
	}

	if n, err := r.store.Count(ctx); err == nil {
		metrics.StoredRecords.Set(float64(n))
	}
	log.Info("cycle finished",
		"synced", report.Synced,
		"failed", report.Failed,
		"artifact_errors", report.ArtifactErrs)
	return report, nil
}

// prioritizeFailed moves records present in the failed-download queue to
// the front of the work list, preserving relative order within each
// partition. Queue errors are logged and the original order is kept.
func (r *Runner) prioritizeFailed(ctx context.Context, work []domain.WorkItem, log *slog.Logger) []domain.WorkItem {
	ids, err := r.queue.RecordIDs(ctx)
	if err != nil {
		log.Warn("failed queue unavailable, keeping remote order", "error", err)
		return work
	}
	if len(ids) == 0 {
		return work
	}
	byID := make(map[string]domain.WorkItem, len(work))
	for _, item := range work {
		byID[item.RecordID] = item
	}
	front := make([]domain.WorkItem, 0, len(work))
	taken := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			front = append(front, item)
			taken[id] = struct{}{}
		}
	}
	for _, item := range work {
		if _, ok := taken[item.RecordID]; !ok {
			front = append(front, item)
		}
	}
	return front
}

func (r *Runner) processItem(ctx context.Context, item domain.WorkItem, report *CycleReport, log *slog.Logger) {
	text, err := r.client.PerSecData(ctx, item.RecordID)
	if err != nil {
		report.Failed++
		metrics.DownloadFailures.Inc()
		log.Error("payload download failed", "record", item.RecordID, "error", err)
		r.recordFailure(ctx, item.RecordID, report.CycleID, err, log)
		return
	}

	for _, res := range payload.Derive(text, r.targetsFor(item.RecordID)) {
		if res.Err != nil {
			// Artifact persistence is best effort; the download itself
			// succeeded and the header row proceeds to the store.
			report.ArtifactErrs++
			log.Error("artifact write failed",
				"record", item.RecordID, "kind", res.Kind, "path", res.Path, "error", res.Err)
		}
	}

	remote := []domain.HeaderRecord{item.Header}
	switch err := r.store.Upsert(ctx, item.RecordID, remote); {
	case errors.Is(err, storage.ErrNotApplicable):
		report.StoreSkipped++
		log.Warn("record missing from header snapshot, store untouched", "record", item.RecordID)
	case err != nil:
		// Leave the stored row as-is; the diff picks this record up again
		// on the next cycle.
		report.Failed++
		log.Error("store upsert failed", "record", item.RecordID, "error", err)
	default:
		report.Synced++
		metrics.RecordsSynced.Inc()
		if r.queue != nil {
			if err := r.queue.Resolve(ctx, item.RecordID); err != nil {
				log.Warn("failed queue resolve", "record", item.RecordID, "error", err)
			}
		}
	}
}

func (r *Runner) recordFailure(ctx context.Context, recordID, cycleID string, cause error, log *slog.Logger) {
	if r.queue == nil {
		return
	}
	failed := &domain.FailedDownload{
		ID:          uuid.New().String(),
		RecordID:    recordID,
		CycleID:     cycleID,
		Reason:      cause.Error(),
		Attempts:    1,
		LastAttempt: time.Now().UTC(),
	}
	var reqErr *api.RequestError
	if errors.As(cause, &reqErr) {
		failed.Status = reqErr.Status
	}
	if err := r.queue.Add(ctx, failed); err != nil {
		log.Warn("failed queue add", "record", recordID, "error", err)
	}
}

func (r *Runner) targetsFor(recordID string) domain.ArtifactTargets {
	var t domain.ArtifactTargets
	if r.cfg.WriteRaw {
		t.Raw = filepath.Join(r.cfg.ArtifactDir, rawFilePrefix+recordID+".csv")
	}
	if r.cfg.WriteFormatted {
		t.Formatted = filepath.Join(r.cfg.ArtifactDir, formattedFilePrefix+recordID+".csv")
	}
	if r.cfg.WriteUnits {
		t.Units = filepath.Join(r.cfg.ArtifactDir, unitsFilePrefix+recordID+".csv")
	}
	return t
}
