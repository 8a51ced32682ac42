package domain

import (
	"context"
	"fmt"

	"chatclean/internal/core/textclean"
)

// RunnerPort is what the CLI drives
type RunnerPort interface {
	Run(ctx context.Context) (RunStats, error)
}

// Registry is the durable record of which sources are fully cleaned
type Registry interface {
	// Has reports whether id is in the catalog
	Has(id string) bool
	IsCleaned(id string) bool
	MarkCleaned(id string)
	Persist(ctx context.Context) error
	Summary() Summary
}

// RegistryLoader fetches a fresh registry at the start of each run
type RegistryLoader func(ctx context.Context) (Registry, error)

// StreamPort yields records from one source blob
type StreamPort interface {
	Next() (RawRecord, error)
	Close() error
	Stats() StreamStats
}

// Streamer opens sources by object key
type Streamer interface {
	Open(ctx context.Context, key string) (StreamPort, error)
}

// Cleaner is the text cleaning chain
type Cleaner interface {
	Clean(raw string) textclean.Result
}

// Ledger records per-source outcomes of each run
type Ledger interface {
	StartSource(ctx context.Context, runID, sourceID string) error
	FinishSource(ctx context.Context, runID, sourceID string, fin SourceFinish) error
}

// SourceError ties a failure to the source it aborted
type SourceError struct {
	SourceID string
	Err      error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.SourceID, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }
