// Package health provides service health monitoring and status reporting.
package health

import "time"

// SystemStatus represents the overall health state of the service.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the full service health report.
type Report struct {
	Status         SystemStatus `json:"status"`
	LastCycleID    string       `json:"last_cycle_id,omitempty"`
	LastCycleAt    time.Time    `json:"last_cycle_at,omitempty"`
	LastCycleError string       `json:"last_cycle_error,omitempty"`
	Synced         int          `json:"synced"`
	Failed         int          `json:"failed"`
	ArtifactErrors int          `json:"artifact_errors"`
	StoredRecords  int          `json:"stored_records"`
	FailedQueued   int          `json:"failed_queued"`
}
