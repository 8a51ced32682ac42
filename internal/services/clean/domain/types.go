// Package domain holds the data shapes and ports of the cleaning pipeline
package domain

import (
	"time"

	"chatclean/internal/adapters/ingest/ndjson"
)

// RawRecord re-exports the record shape produced by the NDJSON reader
type RawRecord = ndjson.Record

// StreamStats re-exports the reader counters
type StreamStats = ndjson.Stats

// Source statuses written to the run ledger
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDryRun  = "dry_run"
)

// SourceStats counts what happened to one source
type SourceStats struct {
	SourceID   string
	Lines      int
	Records    int
	Skipped    int // lines that did not decode
	Bots       int
	Empty      int
	Rejected   int
	Kept       int
	RejectedBy map[string]int
	Buckets    map[string]int // year -> documents written
	Bytes      int64
	ReadMS     int
	WriteMS    int
	ElapsedMS  int
}

// Reject records a rejection by stage
func (s *SourceStats) Reject(stage string) {
	if s.RejectedBy == nil {
		s.RejectedBy = map[string]int{}
	}
	s.RejectedBy[stage]++
	s.Rejected++
}

// SourceFinish is the ledger row closing out one source
type SourceFinish struct {
	Status  string
	Stats   SourceStats
	ErrCode string
	ErrText string
}

// RunStats aggregates one invocation
type RunStats struct {
	RunID      string
	Candidates int // catalog sources found under the ingest prefix
	Skipped    int // already cleaned
	Cleaned    int
	Failed     int
	Records    int
	Kept       int
	Rejected   int
	RejectedBy map[string]int
	Elapsed    time.Duration
}

// Add folds one source into the run totals
func (r *RunStats) Add(s SourceStats) {
	r.Records += s.Records
	r.Kept += s.Kept
	r.Rejected += s.Rejected
	if len(s.RejectedBy) > 0 && r.RejectedBy == nil {
		r.RejectedBy = map[string]int{}
	}
	for k, v := range s.RejectedBy {
		r.RejectedBy[k] += v
	}
}

// Summary is the registry census shown by the status command
type Summary struct {
	Total   int
	Cleaned int
	Pending int
}
