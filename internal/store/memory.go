package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps collections as raw JSON in memory. Used by tests and
// as the fallback backend when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Read(ctx context.Context, collection string, dest any) error {
	s.mu.RLock()
	payload, ok := s.collections[collection]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound{Collection: collection}
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

func (s *MemoryStore) Write(ctx context.Context, collection string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	s.mu.Lock()
	s.collections[collection] = payload
	s.mu.Unlock()
	return nil
}

var _ RecordStore = (*MemoryStore)(nil)
