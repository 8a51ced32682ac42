package service

import (
	"context"
	"encoding/json"
	"strings"

	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
	"chatclean/internal/platform/objstore"
)

// DefaultBatch is the batch size the topic-model trainer consumes
const DefaultBatch = 5000

// DocsStats counts what Docs streamed
type DocsStats struct {
	Blobs     int
	Malformed int
	Docs      int
	Batches   int
}

// Docs streams cleaned documents under prefix to fn in batches of at most batch.
// Blobs that are not JSON are logged and skipped; non-string and blank entries are dropped.
// An error from fn stops the walk and is returned as is
func Docs(ctx context.Context, store objstore.Store, prefix string, batch int, fn func([]string) error) (DocsStats, error) {
	var st DocsStats
	if batch <= 0 {
		batch = DefaultBatch
	}
	log := logger.C(ctx).With().Str("component", "docs").Logger()

	keys, err := store.List(ctx, prefix)
	if err != nil {
		return st, perr.WithOp(err, "clean.docs")
	}

	buf := make([]string, 0, batch)
	emit := func() error {
		if len(buf) == 0 {
			return nil
		}
		st.Batches++
		err := fn(buf)
		buf = make([]string, 0, batch)
		return err
	}

	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		text, err := store.ReadText(ctx, key)
		if err != nil {
			return st, perr.WithOp(err, "clean.docs")
		}
		st.Blobs++

		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			st.Malformed++
			log.Warn().Str("key", key).Err(err).Msg("error decoding cleaned blob, skipping")
			continue
		}
		items, ok := data.([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			doc, ok := it.(string)
			if !ok || strings.TrimSpace(doc) == "" {
				continue
			}
			buf = append(buf, doc)
			st.Docs++
			if len(buf) >= batch {
				if err := emit(); err != nil {
					return st, err
				}
			}
		}
	}
	return st, emit()
}
