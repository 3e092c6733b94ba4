package service

import "github.com/helixml/pulse/domain/ingest"

// SyncStats summarises one pipeline run.
type SyncStats struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
	AIAnalyzed int `json:"ai_analyzed"`
	Processed  int `json:"processed"`
}

// tally accumulates counts during a run. A row counts as at most one error
// however many passes reject it.
type tally struct {
	stats  SyncStats
	failed map[int]struct{}
}

func newTally() *tally {
	return &tally{failed: make(map[int]struct{})}
}

func (t *tally) fail(row int) {
	if _, seen := t.failed[row]; seen {
		return
	}
	t.failed[row] = struct{}{}
	t.stats.Errors++
}

func (t *tally) failedRow(row int) bool {
	_, seen := t.failed[row]
	return seen
}

// pending returns the records whose row has not failed.
func (t *tally) pending(records []ingest.Record) []ingest.Record {
	kept := make([]ingest.Record, 0, len(records))
	for _, rec := range records {
		if !t.failedRow(rec.Row) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (t *tally) result() SyncStats {
	s := t.stats
	s.Processed = s.Created + s.Updated + s.Skipped
	return s
}
