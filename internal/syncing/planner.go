// Package syncing contains the incremental sync decision engine and the
// cycle runner that drives header diffing, payload downloads, artifact
// derivation, and store upserts.
package syncing

import (
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
)

// ComputeWork returns the records whose payload needs downloading: those
// present remotely but absent from the store, plus those present in both
// whose modified timestamp differs in any direction (remote being older
// still counts — it surfaces drift). Hashed lookups keep this O(n+m);
// neither input is mutated and duplicate remote identifiers collapse.
//
// Null policy: a zero ModifiedAt on either side forces the record into
// the work list, so records with unknown freshness are always re-checked.
//
// The result preserves the remote collection's iteration order.
func ComputeWork(remote []domain.HeaderRecord, stored []domain.StoredEntry) []domain.WorkItem {
	storedByID := make(map[string]time.Time, len(stored))
	for _, entry := range stored {
		storedByID[entry.RecordID] = entry.ModifiedAt
	}

	seen := make(map[string]struct{}, len(remote))
	var work []domain.WorkItem
	for _, rec := range remote {
		if _, dup := seen[rec.RecordID]; dup {
			continue
		}
		seen[rec.RecordID] = struct{}{}

		storedAt, ok := storedByID[rec.RecordID]
		switch {
		case !ok:
			// missing
		case rec.ModifiedAt.IsZero() || storedAt.IsZero():
			// unknown freshness, force a re-check
		case !rec.ModifiedAt.Equal(storedAt):
			// changed
		default:
			continue
		}
		work = append(work, domain.WorkItem{RecordID: rec.RecordID, Header: rec})
	}
	return work
}
