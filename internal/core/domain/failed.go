package domain

import "time"

// FailedDownload records a payload download that did not complete in some
// sync cycle. Entries are queued so the next cycle can retry them ahead of
// fresh work; the header diff re-discovers them regardless, so losing an
// entry only loses the priority, never the download.
type FailedDownload struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	CycleID     string    `json:"cycle_id"`
	Status      int       `json:"status"`
	Reason      string    `json:"reason"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt"`
}
