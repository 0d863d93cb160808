// Package memory provides in-memory store implementations for tests
// and for running the scanner without external databases.
package memory

import (
	"context"
	"sync"
	"time"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/storage"
)

type lpStatusEntry struct {
	status   domain.AggregateLPStatus
	storedAt time.Time
}

// LPStatusStore is an in-memory implementation of storage.LPStatusStore.
type LPStatusStore struct {
	mu      sync.RWMutex
	entries map[string]lpStatusEntry
	now     func() time.Time
}

// NewLPStatusStore creates a new in-memory LP status store.
func NewLPStatusStore() *LPStatusStore {
	return &LPStatusStore{
		entries: make(map[string]lpStatusEntry),
		now:     time.Now,
	}
}

// Get retrieves a cached status no older than maxAge.
func (s *LPStatusStore) Get(_ context.Context, mint string, maxAge time.Duration) (*domain.AggregateLPStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	if s.now().Sub(entry.storedAt) > maxAge {
		return nil, storage.ErrNotFound
	}

	statusCopy := entry.status
	statusCopy.Pools = append([]domain.PoolBurnInfo(nil), entry.status.Pools...)
	return &statusCopy, nil
}

// Upsert stores or replaces the status for its mint.
func (s *LPStatusStore) Upsert(_ context.Context, status *domain.AggregateLPStatus) error {
	if status == nil || status.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statusCopy := *status
	statusCopy.Pools = append([]domain.PoolBurnInfo(nil), status.Pools...)
	s.entries[status.Mint] = lpStatusEntry{status: statusCopy, storedAt: s.now()}
	return nil
}

// Delete drops the cached status for a mint.
func (s *LPStatusStore) Delete(_ context.Context, mint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, mint)
	return nil
}

var _ storage.LPStatusStore = (*LPStatusStore)(nil)
