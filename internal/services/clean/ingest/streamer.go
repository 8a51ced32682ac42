// Package ingest adapts the NDJSON reader to the cleaning domain
package ingest

import (
	"context"

	"chatclean/internal/adapters/ingest/ndjson"
	"chatclean/internal/platform/objstore"
	"chatclean/internal/services/clean/domain"
)

type streamer struct{ store objstore.Store }

// NewStreamer returns a domain.Streamer reading source blobs from store
func NewStreamer(store objstore.Store) domain.Streamer { return streamer{store: store} }

func (s streamer) Open(ctx context.Context, key string) (domain.StreamPort, error) {
	r, err := ndjson.Open(ctx, s.store, key)
	if err != nil {
		return nil, err
	}
	// *ndjson.Reader already matches the port since the record and stats types are aliases
	return r, nil
}
