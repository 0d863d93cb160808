package storage

import (
	"context"
	"time"

	"x1-token-scanner/internal/domain"
)

// LPStatusStore caches aggregate LP burn status per token mint.
// Entries go stale: Get enforces the caller's freshness bound so a
// cold or expired entry forces a fresh on-chain analysis.
type LPStatusStore interface {
	// Get retrieves the cached status for a mint if it was stored no
	// longer than maxAge ago. Returns ErrNotFound when missing or stale.
	Get(ctx context.Context, mint string, maxAge time.Duration) (*domain.AggregateLPStatus, error)

	// Upsert stores or replaces the status for its mint, resetting the
	// entry's age.
	Upsert(ctx context.Context, status *domain.AggregateLPStatus) error

	// Delete drops the cached status for a mint. Deleting a missing
	// entry is not an error.
	Delete(ctx context.Context, mint string) error
}

// SupplyFactStore records immutable supply facts keyed per LP mint.
// Facts never expire: a pool's first mint amount and lifetime minted
// total are historical constants, so a hit skips a full history walk.
//
// Two namespaces share the store: the initial supply lives under the
// LP mint itself, the lifetime minted total under TotalMintedKey.
type SupplyFactStore interface {
	// Get retrieves a recorded fact. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) (float64, error)

	// Put records a fact. The store is append-only: writing a key
	// that already holds a value leaves it untouched and returns
	// ErrDuplicateKey. Concurrent analyses reconstruct the same
	// immutable history, so losing the race is harmless.
	Put(ctx context.Context, key string, value float64) error
}

// TotalMintedKey is the namespace for an LP mint's lifetime minted total.
func TotalMintedKey(lpMint string) string {
	return "total:" + lpMint
}

// ScanHistoryStore is an append-only log of completed analysis runs.
type ScanHistoryStore interface {
	// Insert appends one scan record.
	Insert(ctx context.Context, rec *domain.ScanRecord) error

	// GetByMint retrieves the most recent records for a mint, newest
	// first, up to limit.
	GetByMint(ctx context.Context, mint string, limit int) ([]*domain.ScanRecord, error)
}
