package ledger

import (
	"context"
	"sync"
)

// Ledger remembers which upstream articles were stored in which
// collection, so ingesting the same export twice does not duplicate items.
type Ledger interface {
	// Seen reports whether articleID was already stored in collection.
	Seen(ctx context.Context, collection, articleID string) (bool, error)

	// Record notes that articleID was stored as documentID. Recording an
	// article twice keeps the first entry.
	Record(ctx context.Context, collection, articleID, documentID string) error

	// Forget drops the entry of documentID, e.g. after the item was deleted.
	Forget(ctx context.Context, collection, documentID string) error
}

type memoryKey struct{ collection, articleID string }

// Memory is a process-local Ledger.
type Memory struct {
	mu      sync.RWMutex
	entries map[memoryKey]string
}

var _ Ledger = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[memoryKey]string)}
}

func (m *Memory) Seen(_ context.Context, collection, articleID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[memoryKey{collection, articleID}]
	return ok, nil
}

func (m *Memory) Record(_ context.Context, collection, articleID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey{collection, articleID}
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = documentID
	}
	return nil
}

func (m *Memory) Forget(_ context.Context, collection, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, id := range m.entries {
		if key.collection == collection && id == documentID {
			delete(m.entries, key)
		}
	}
	return nil
}
