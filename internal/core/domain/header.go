package domain

import "time"

// HeaderRecord is one remote job header: a unique record identifier, the
// remote last-modified timestamp, and the descriptive attributes that ride
// along with it. Attrs is not consulted by the sync decision.
type HeaderRecord struct {
	RecordID   string
	ModifiedAt time.Time
	Attrs      map[string]string
}

// StoredEntry is the local store's row for one record. An entry exists for
// a record iff its payload has been downloaded at least once with that
// ModifiedAt value or newer.
type StoredEntry struct {
	RecordID   string    `db:"record_id"`
	ModifiedAt time.Time `db:"modified_at"`
}

// WorkItem marks one record as requiring a payload download in the current
// sync cycle. It carries the full header so the store can later be updated
// from the same snapshot the decision was made against. Never persisted.
type WorkItem struct {
	RecordID string
	Header   HeaderRecord
}
