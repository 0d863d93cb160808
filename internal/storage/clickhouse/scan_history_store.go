package clickhouse

import (
	"context"
	"fmt"
	"time"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/storage"
)

// ScanHistoryStore implements storage.ScanHistoryStore using ClickHouse.
type ScanHistoryStore struct {
	conn *Conn
}

// NewScanHistoryStore creates a new ScanHistoryStore.
func NewScanHistoryStore(conn *Conn) *ScanHistoryStore {
	return &ScanHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)

// Insert appends one scan record.
func (s *ScanHistoryStore) Insert(ctx context.Context, rec *domain.ScanRecord) (err error) {
	if rec == nil || rec.Mint == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() { observability.RecordDBQuery("clickhouse", "scan_history_insert", start, err) }()

	query := `
		INSERT INTO scan_history (
			mint, symbol, risk_level, risk_score, price_usd, liquidity_usd,
			lp_burn_percent, top_holder_percent, holder_count, scanned_at
		)`

	batch, err := s.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		rec.Mint,
		rec.Symbol,
		string(rec.RiskLevel),
		int32(rec.RiskScore),
		rec.PriceUSD,
		rec.LiquidityUSD,
		rec.LPBurnPercent,
		rec.TopHolderPercent,
		int32(rec.HolderCount),
		time.Unix(rec.ScannedAt, 0),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves the most recent records for a mint, newest first.
func (s *ScanHistoryStore) GetByMint(ctx context.Context, mint string, limit int) (records []*domain.ScanRecord, err error) {
	if limit <= 0 {
		limit = 100
	}

	start := time.Now()
	defer func() { observability.RecordDBQuery("clickhouse", "scan_history_get", start, err) }()

	query := `
		SELECT mint, symbol, risk_level, risk_score, price_usd, liquidity_usd,
		       lp_burn_percent, top_holder_percent, holder_count, scanned_at
		FROM scan_history
		WHERE mint = ?
		ORDER BY scanned_at DESC
		LIMIT ?`

	rows, err := s.conn.Query(ctx, query, mint, limit)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec       domain.ScanRecord
			riskLevel string
			riskScore int32
			holders   int32
			scannedAt time.Time
		)
		err := rows.Scan(
			&rec.Mint,
			&rec.Symbol,
			&riskLevel,
			&riskScore,
			&rec.PriceUSD,
			&rec.LiquidityUSD,
			&rec.LPBurnPercent,
			&rec.TopHolderPercent,
			&holders,
			&scannedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.RiskLevel = domain.RiskLevel(riskLevel)
		rec.RiskScore = int(riskScore)
		rec.HolderCount = int(holders)
		rec.ScannedAt = scannedAt.Unix()
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
