package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/storage"
)

// LPStatusStore is a PostgreSQL implementation of storage.LPStatusStore.
type LPStatusStore struct {
	pool *Pool
}

// NewLPStatusStore creates a new PostgreSQL LP status store.
func NewLPStatusStore(pool *Pool) *LPStatusStore {
	return &LPStatusStore{pool: pool}
}

// Get retrieves a cached status no older than maxAge.
func (s *LPStatusStore) Get(ctx context.Context, mint string, maxAge time.Duration) (*domain.AggregateLPStatus, error) {
	query := `
		SELECT found, pools, total_original, total_burned, burn_percent, burn_tx_count
		FROM lp_status
		WHERE mint = $1 AND updated_at > $2`

	cutoff := time.Now().Add(-maxAge)

	start := time.Now()
	var (
		status    domain.AggregateLPStatus
		poolsJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, mint, cutoff).Scan(
		&status.Found,
		&poolsJSON,
		&status.TotalOriginal,
		&status.TotalBurned,
		&status.BurnPercent,
		&status.BurnTxCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			observability.RecordDBQuery("postgres", "lp_status_get", start, nil)
			return nil, storage.ErrNotFound
		}
		observability.RecordDBQuery("postgres", "lp_status_get", start, err)
		return nil, fmt.Errorf("get lp status: %w", err)
	}
	observability.RecordDBQuery("postgres", "lp_status_get", start, nil)

	status.Mint = mint
	if len(poolsJSON) > 0 {
		if err := json.Unmarshal(poolsJSON, &status.Pools); err != nil {
			return nil, fmt.Errorf("unmarshal pools: %w", err)
		}
	}

	return &status, nil
}

// Upsert stores or replaces the status for its mint.
func (s *LPStatusStore) Upsert(ctx context.Context, status *domain.AggregateLPStatus) error {
	if status == nil || status.Mint == "" {
		return storage.ErrInvalidInput
	}

	poolsJSON, err := json.Marshal(status.Pools)
	if err != nil {
		return fmt.Errorf("marshal pools: %w", err)
	}

	query := `
		INSERT INTO lp_status (mint, found, pools, total_original, total_burned, burn_percent, burn_tx_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (mint) DO UPDATE SET
			found = EXCLUDED.found,
			pools = EXCLUDED.pools,
			total_original = EXCLUDED.total_original,
			total_burned = EXCLUDED.total_burned,
			burn_percent = EXCLUDED.burn_percent,
			burn_tx_count = EXCLUDED.burn_tx_count,
			updated_at = NOW()`

	start := time.Now()
	_, err = s.pool.Exec(ctx, query,
		status.Mint,
		status.Found,
		poolsJSON,
		status.TotalOriginal,
		status.TotalBurned,
		status.BurnPercent,
		status.BurnTxCount,
	)
	observability.RecordDBQuery("postgres", "lp_status_upsert", start, err)
	if err != nil {
		return fmt.Errorf("upsert lp status: %w", err)
	}

	return nil
}

// Delete drops the cached status for a mint.
func (s *LPStatusStore) Delete(ctx context.Context, mint string) error {
	start := time.Now()
	_, err := s.pool.Exec(ctx, `DELETE FROM lp_status WHERE mint = $1`, mint)
	observability.RecordDBQuery("postgres", "lp_status_delete", start, err)
	if err != nil {
		return fmt.Errorf("delete lp status: %w", err)
	}
	return nil
}

var _ storage.LPStatusStore = (*LPStatusStore)(nil)
