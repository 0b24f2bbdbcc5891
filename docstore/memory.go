package docstore

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-memory store. Its zero value is not usable, use NewMemory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte // collection -> id -> doc
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(doc), nil
}

// List returns the documents of collection ordered by id.
func (m *Memory) List(_ context.Context, collection string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll := m.docs[collection]
	ids := slices.Sorted(maps.Keys(coll))
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, slices.Clone(coll[id]))
	}
	return out, nil
}

func (m *Memory) Set(_ context.Context, collection, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(Put(collection, id, doc))
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(Remove(collection, id))
	return nil
}

// Batch applies all writes under a single lock.
func (m *Memory) Batch(_ context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		m.apply(w)
	}
	return nil
}

// apply must be called with the lock held.
func (m *Memory) apply(w Write) {
	if w.IsDelete() {
		delete(m.docs[w.Collection], w.ID)
		return
	}
	coll, ok := m.docs[w.Collection]
	if !ok {
		coll = make(map[string][]byte)
		m.docs[w.Collection] = coll
	}
	coll[w.ID] = slices.Clone(w.Doc)
}
