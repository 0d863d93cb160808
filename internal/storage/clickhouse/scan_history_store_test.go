package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/storage"
)

func TestScanHistoryStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScanHistoryStore(conn)

	for i, score := range []int{10, 25, 40} {
		rec := &domain.ScanRecord{
			Mint:             "HistMint1",
			Symbol:           "HST",
			RiskLevel:        domain.RiskMedium,
			RiskScore:        score,
			PriceUSD:         0.5,
			LiquidityUSD:     10_000,
			LPBurnPercent:    90,
			TopHolderPercent: 12.5,
			HolderCount:      321,
			ScannedAt:        int64(1700000000 + i*60),
		}
		require.NoError(t, store.Insert(ctx, rec))
	}

	recs, err := store.GetByMint(ctx, "HistMint1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Newest first
	assert.Equal(t, 40, recs[0].RiskScore)
	assert.Equal(t, 25, recs[1].RiskScore)
	assert.Equal(t, "HST", recs[0].Symbol)
	assert.Equal(t, domain.RiskMedium, recs[0].RiskLevel)
	assert.Equal(t, 321, recs[0].HolderCount)
	assert.InDelta(t, 12.5, recs[0].TopHolderPercent, 0.0001)
}

func TestScanHistoryStore_GetUnknownMint(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanHistoryStore(conn)

	recs, err := store.GetByMint(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestScanHistoryStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanHistoryStore(conn)

	assert.ErrorIs(t, store.Insert(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(context.Background(), &domain.ScanRecord{}), storage.ErrInvalidInput)
}
