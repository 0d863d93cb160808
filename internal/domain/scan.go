package domain

// ScanRecord is one row of analysis history, persisted after each
// completed run for trend queries and export tooling.
type ScanRecord struct {
	Mint             string
	Symbol           string
	RiskLevel        RiskLevel
	RiskScore        int
	PriceUSD         float64
	LiquidityUSD     float64
	LPBurnPercent    float64
	TopHolderPercent float64
	HolderCount      int
	ScannedAt        int64 // Unix timestamp (seconds)
}
