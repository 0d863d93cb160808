package postgres

import (
	"context"
	"fmt"
	"time"

	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/storage"
)

// SupplyFactStore is a PostgreSQL implementation of storage.SupplyFactStore.
type SupplyFactStore struct {
	pool *Pool
}

// NewSupplyFactStore creates a new PostgreSQL supply fact store.
func NewSupplyFactStore(pool *Pool) *SupplyFactStore {
	return &SupplyFactStore{pool: pool}
}

// Get retrieves a recorded fact.
func (s *SupplyFactStore) Get(ctx context.Context, key string) (float64, error) {
	query := `SELECT value FROM supply_facts WHERE key = $1`

	start := time.Now()
	var value float64
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if isNotFoundError(err) {
			observability.RecordDBQuery("postgres", "supply_fact_get", start, nil)
			return 0, storage.ErrNotFound
		}
		observability.RecordDBQuery("postgres", "supply_fact_get", start, err)
		return 0, fmt.Errorf("get supply fact: %w", err)
	}
	observability.RecordDBQuery("postgres", "supply_fact_get", start, nil)
	return value, nil
}

// Put records a fact. The first write wins: a unique violation maps
// to storage.ErrDuplicateKey so racing analyses can tell a lost write
// race from a real database failure.
func (s *SupplyFactStore) Put(ctx context.Context, key string, value float64) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO supply_facts (key, value, created_at)
		VALUES ($1, $2, NOW())`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query, key, value)
	if isDuplicateKeyError(err) {
		observability.RecordDBQuery("postgres", "supply_fact_put", start, nil)
		return storage.ErrDuplicateKey
	}
	observability.RecordDBQuery("postgres", "supply_fact_put", start, err)
	if err != nil {
		return fmt.Errorf("put supply fact: %w", err)
	}
	return nil
}

var _ storage.SupplyFactStore = (*SupplyFactStore)(nil)
