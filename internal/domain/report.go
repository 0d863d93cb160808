package domain

// RiskLevel classifies the overall risk of a token.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "SAFE"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// SecurityReport is the terminal aggregate of one analysis run.
// Immutable after construction; consumers render or persist it, the
// engine does not.
type SecurityReport struct {
	Mint        string  `json:"mint"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint8   `json:"decimals"`
	TotalSupply float64 `json:"total_supply"` // UI units
	RawSupply   uint64  `json:"raw_supply"`

	MintAuthority   string `json:"mint_authority,omitempty"`   // empty when revoked
	FreezeAuthority string `json:"freeze_authority,omitempty"` // empty when revoked

	Holders HolderStats `json:"holders"`

	LPStatus AggregateLPStatus `json:"lp_status"`
	LPBurnTx *BurnTxDetail     `json:"lp_burn_tx,omitempty"`

	PriceWXNT      float64  `json:"price_wxnt"`
	PriceUSD       float64  `json:"price_usd"`
	XNTUSDRate     float64  `json:"xnt_usd_rate"`
	PriceChange24h *float64 `json:"price_change_24h,omitempty"` // nil when no reference price found
	LiquidityWXNT  float64  `json:"liquidity_wxnt"`
	LiquidityUSD   float64  `json:"liquidity_usd"`
	TokenReserve   float64  `json:"token_reserve"`
	WXNTReserve    float64  `json:"wxnt_reserve"`
	Volume24hWXNT  float64  `json:"volume_24h_wxnt"`
	Volume24hUSD   float64  `json:"volume_24h_usd"`
	MarketCapUSD   float64  `json:"market_cap_usd"`

	Age      string        `json:"age"`
	Deployer *DeployerInfo `json:"deployer,omitempty"`

	RiskLevel RiskLevel `json:"risk_level"`
	RiskScore int       `json:"risk_score"`
	Warnings  []string  `json:"warnings"`
	Positives []string  `json:"positives"`

	AnalyzedAt int64 `json:"analyzed_at"` // Unix timestamp (seconds)
}

// MintAuthorityEnabled reports whether the supply can still be increased.
func (r *SecurityReport) MintAuthorityEnabled() bool {
	return r.MintAuthority != ""
}

// FreezeAuthorityEnabled reports whether accounts can still be frozen.
func (r *SecurityReport) FreezeAuthorityEnabled() bool {
	return r.FreezeAuthority != ""
}
