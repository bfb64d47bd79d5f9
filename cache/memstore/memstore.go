// Package memstore provides an in-memory cache store.
//
// Entries live for the lifetime of the process and are not shared across
// processes. It backs tests and the front layer of cache.Layered.
package memstore

import (
	"context"
	"sync"
)

// Memstore is an in-memory key-value store.
// It is safe for concurrent use by multiple goroutines.
type Memstore struct {
	entries sync.Map
}

// New creates and returns a new Memstore instance.
func New() *Memstore {
	return &Memstore{}
}

// Get returns a copy of the data stored under key.
func (m *Memstore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	data := v.([]byte)
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data under key, overwriting any previous value.
func (m *Memstore) Set(ctx context.Context, key string, data []byte) error {
	m.entries.Store(key, append([]byte(nil), data...))
	return nil
}

// Delete removes key. Missing keys are a no-op.
func (m *Memstore) Delete(ctx context.Context, key string) error {
	m.entries.Delete(key)
	return nil
}

// DeleteAll removes every entry.
func (m *Memstore) DeleteAll(ctx context.Context) error {
	m.entries.Clear()
	return nil
}

// Len reports the number of stored entries.
func (m *Memstore) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
