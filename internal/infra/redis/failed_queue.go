package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/welldatalabs/wellsync/internal/core/domain"
)

const failedEntryTTL = 7 * 24 * time.Hour

// FailedQueue stores failed payload downloads keyed by record identifier,
// ordered by attempt count so the least-retried records surface first.
type FailedQueue struct {
	rdb *redis.Client
}

// NewFailedQueue creates a queue on client.
func NewFailedQueue(client *Client) *FailedQueue {
	return &FailedQueue{rdb: client.rdb}
}

func (q *FailedQueue) queueKey() string {
	return "failed_downloads"
}

func (q *FailedQueue) entryKey(recordID string) string {
	return fmt.Sprintf("failed_download:%s", recordID)
}

// Add queues or refreshes a failed download. An existing entry for the
// same record keeps accumulating attempts.
func (q *FailedQueue) Add(ctx context.Context, fd *domain.FailedDownload) error {
	if existing, err := q.get(ctx, fd.RecordID); err == nil && existing != nil {
		fd.Attempts += existing.Attempts
	}

	data, err := json.Marshal(fd)
	if err != nil {
		return fmt.Errorf("failed to marshal failed download: %w", err)
	}

	if err := q.rdb.Set(ctx, q.entryKey(fd.RecordID), data, failedEntryTTL).Err(); err != nil {
		return fmt.Errorf("failed to set failed download: %w", err)
	}

	if err := q.rdb.ZAdd(ctx, q.queueKey(), redis.Z{
		Score:  float64(fd.Attempts),
		Member: fd.RecordID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}
	return nil
}

// RecordIDs returns every queued record identifier, least-retried first.
func (q *FailedQueue) RecordIDs(ctx context.Context) ([]string, error) {
	ids, err := q.rdb.ZRange(ctx, q.queueKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}
	return ids, nil
}

// Resolve drops a record from the queue after a successful download.
func (q *FailedQueue) Resolve(ctx context.Context, recordID string) error {
	if err := q.rdb.ZRem(ctx, q.queueKey(), recordID).Err(); err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}
	if err := q.rdb.Del(ctx, q.entryKey(recordID)).Err(); err != nil {
		return fmt.Errorf("failed to delete failed download: %w", err)
	}
	return nil
}

// Count returns the number of queued records.
func (q *FailedQueue) Count(ctx context.Context) (int, error) {
	n, err := q.rdb.ZCard(ctx, q.queueKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return int(n), nil
}

func (q *FailedQueue) get(ctx context.Context, recordID string) (*domain.FailedDownload, error) {
	data, err := q.rdb.Get(ctx, q.entryKey(recordID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get failed download: %w", err)
	}

	var fd domain.FailedDownload
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failed download: %w", err)
	}
	return &fd, nil
}
