package objstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	perr "chatclean/internal/platform/errors"
)

// Mem is an in-memory Store. FailPut and FailOpen let tests inject faults per key
type Mem struct {
	mu      sync.RWMutex
	objects map[string][]byte

	FailPut  func(key string) error
	FailOpen func(key string) error
}

// NewMem returns an empty store
func NewMem() *Mem { return &Mem{objects: map[string][]byte{}} }

// List returns sorted keys under prefix
func (m *Mem) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Open returns a reader over a copy of the object
func (m *Mem) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if m.FailOpen != nil {
		if err := m.FailOpen(key); err != nil {
			return nil, perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "open %s", key), key)
		}
	}
	b, ok := m.Get(key)
	if !ok {
		return nil, perr.WithKey(perr.NotFoundf("object %s missing", key), key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Put stores a copy of data
func (m *Mem) Put(_ context.Context, key string, data []byte) error {
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "put %s", key), key)
		}
	}
	m.mu.Lock()
	m.objects[key] = bytes.Clone(data)
	m.mu.Unlock()
	return nil
}

// ReadText reads a whole object
func (m *Mem) ReadText(ctx context.Context, key string) (string, error) {
	return readAllText(ctx, m, key)
}

// Get returns a copy of the object, for assertions
func (m *Mem) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(b), true
}
