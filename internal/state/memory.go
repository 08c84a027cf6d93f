// internal/state/memory.go
package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"listing-monitor/internal/common/errors"
)

// MemoryStore is the default single-node backing for transient enrichment
// state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]Entry // listingID -> kind -> entry
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]map[string]Entry),
	}
}

func (m *MemoryStore) set(listingID, kind string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds, ok := m.entries[listingID]
	if !ok {
		kinds = make(map[string]Entry)
		m.entries[listingID] = kinds
	}
	kinds[kind] = e
}

func (m *MemoryStore) SetLoading(ctx context.Context, listingID, kind string) error {
	m.set(listingID, kind, Entry{Loading: true, UpdatedAt: time.Now().UTC()})
	return nil
}

func (m *MemoryStore) SetValue(ctx context.Context, listingID, kind string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.set(listingID, kind, Entry{Value: raw, UpdatedAt: time.Now().UTC()})
	return nil
}

func (m *MemoryStore) SetFailure(ctx context.Context, listingID, kind string, failure errors.FailureKind) error {
	m.set(listingID, kind, Entry{Failure: string(failure), UpdatedAt: time.Now().UTC()})
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, listingID, kind string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds, ok := m.entries[listingID]
	if !ok {
		return nil, nil
	}
	e, ok := kinds[kind]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *MemoryStore) Snapshot(ctx context.Context, listingID string) (map[string]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Entry, len(m.entries[listingID]))
	for kind, e := range m.entries[listingID] {
		out[kind] = e
	}
	return out, nil
}

func (m *MemoryStore) Purge(ctx context.Context, listingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, listingID)
	return nil
}
