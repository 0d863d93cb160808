package memory

import (
	"context"
	"sync"

	"x1-token-scanner/internal/storage"
)

// SupplyFactStore is an in-memory implementation of storage.SupplyFactStore.
type SupplyFactStore struct {
	mu    sync.RWMutex
	facts map[string]float64
}

// NewSupplyFactStore creates a new in-memory supply fact store.
func NewSupplyFactStore() *SupplyFactStore {
	return &SupplyFactStore{facts: make(map[string]float64)}
}

// Get retrieves a recorded fact.
func (s *SupplyFactStore) Get(_ context.Context, key string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.facts[key]
	if !exists {
		return 0, storage.ErrNotFound
	}
	return value, nil
}

// Put records a fact. The first write wins.
func (s *SupplyFactStore) Put(_ context.Context, key string, value float64) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.facts[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.facts[key] = value
	return nil
}

var _ storage.SupplyFactStore = (*SupplyFactStore)(nil)
