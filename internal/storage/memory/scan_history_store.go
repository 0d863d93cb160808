package memory

import (
	"context"
	"sync"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/storage"
)

// ScanHistoryStore is an in-memory implementation of storage.ScanHistoryStore.
type ScanHistoryStore struct {
	mu      sync.RWMutex
	records map[string][]*domain.ScanRecord // keyed by mint, append order
}

// NewScanHistoryStore creates a new in-memory scan history store.
func NewScanHistoryStore() *ScanHistoryStore {
	return &ScanHistoryStore{records: make(map[string][]*domain.ScanRecord)}
}

// Insert appends one scan record.
func (s *ScanHistoryStore) Insert(_ context.Context, rec *domain.ScanRecord) error {
	if rec == nil || rec.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	s.records[rec.Mint] = append(s.records[rec.Mint], &recCopy)
	return nil
}

// GetByMint retrieves the most recent records for a mint, newest first.
func (s *ScanHistoryStore) GetByMint(_ context.Context, mint string, limit int) ([]*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[mint]
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}

	out := make([]*domain.ScanRecord, 0, limit)
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		recCopy := *recs[i]
		out = append(out, &recCopy)
	}
	return out, nil
}

var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)
