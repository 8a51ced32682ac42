// Package registry keeps the source catalog: which sources exist and which are
// fully cleaned. The catalog is one JSON array in the object store, read once per
// run and rewritten wholesale on every mutation
package registry

import (
	"context"
	"encoding/json"
	"sync"

	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
	"chatclean/internal/platform/objstore"
	"chatclean/internal/services/clean/domain"
)

// DefaultKey is where the catalog lives unless CLEAN_CATALOG_KEY says otherwise
const DefaultKey = "additional/english.json"

// Registry is an in-memory snapshot of the catalog bound to its backing object.
// Safe for concurrent use
type Registry struct {
	store objstore.Store
	key   string

	mu      sync.RWMutex
	entries []*domain.SourceDescriptor
	byID    map[string]*domain.SourceDescriptor
}

// Load reads and parses the catalog. Any failure is ErrorCodeRegistryUnavailable.
// Duplicate ids collapse to their first occurrence
func Load(ctx context.Context, store objstore.Store, key string) (*Registry, error) {
	log := logger.C(ctx).With().Str("component", "registry").Str("key", key).Logger()

	text, err := store.ReadText(ctx, key)
	if err != nil {
		return nil, perr.WithKey(perr.Wrap(err, perr.ErrorCodeRegistryUnavailable, "read catalog"), key)
	}
	var raw []*domain.SourceDescriptor
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, perr.WithKey(perr.Wrap(err, perr.ErrorCodeRegistryUnavailable, "parse catalog"), key)
	}

	r := &Registry{store: store, key: key, byID: make(map[string]*domain.SourceDescriptor, len(raw))}
	dupes, anon := 0, 0
	for _, d := range raw {
		if d == nil {
			continue
		}
		if d.ID == "" {
			anon++
			r.entries = append(r.entries, d)
			continue
		}
		if _, seen := r.byID[d.ID]; seen {
			dupes++
			log.Warn().Str("source_id", d.ID).Msg("duplicate catalog id dropped")
			continue
		}
		r.byID[d.ID] = d
		r.entries = append(r.entries, d)
	}
	if anon > 0 {
		log.Warn().Int("entries", anon).Msg("catalog entries without id kept but ignored")
	}
	s := r.Summary()
	log.Info().Int("sources", s.Total).Int("cleaned", s.Cleaned).Int("duplicates", dupes).Msg("catalog loaded")
	return r, nil
}

// Has reports whether id is in the catalog
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// IsCleaned is false for unknown ids
func (r *Registry) IsCleaned(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return ok && d.Cleaned
}

// MarkCleaned flips the flag in memory; Persist makes it durable. Unknown ids are a logged no-op
func (r *Registry) MarkCleaned(id string) {
	r.mu.Lock()
	d, ok := r.byID[id]
	if ok {
		d.Cleaned = true
	}
	r.mu.Unlock()
	if !ok {
		logger.Named("registry").Warn().Str("source_id", id).Msg("mark cleaned: id not in catalog")
	}
}

// Persist overwrites the backing object with the whole catalog
func (r *Registry) Persist(ctx context.Context) error {
	r.mu.RLock()
	b, err := json.MarshalIndent(r.entries, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return perr.WithKey(perr.Wrap(err, perr.ErrorCodeUnknown, "encode catalog"), r.key)
	}
	if err := r.store.Put(ctx, r.key, b); err != nil {
		return perr.WithOp(err, "registry.persist")
	}
	return nil
}

// Summary counts sources by state; entries without id are not counted
func (r *Registry) Summary() domain.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := domain.Summary{Total: len(r.byID)}
	for _, d := range r.byID {
		if d.Cleaned {
			s.Cleaned++
		}
	}
	s.Pending = s.Total - s.Cleaned
	return s
}

// Loader binds Load to a store and key for the orchestrator
func Loader(store objstore.Store, key string) domain.RegistryLoader {
	return func(ctx context.Context) (domain.Registry, error) {
		r, err := Load(ctx, store, key)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
