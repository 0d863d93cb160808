package domain

// PoolPrice holds spot pricing derived from AMM pool reserves.
// Liquidity assumes a symmetric pool (paired reserve times two).
type PoolPrice struct {
	TokenReserve  float64
	WXNTReserve   float64
	PriceWXNT     float64
	LiquidityWXNT float64
	PoolAuthority string
}

// DeployerInfo describes the wallet that created a token.
type DeployerInfo struct {
	Address       string   `json:"address"`
	TokensCreated int      `json:"tokens_created"` // distinct mints initialized in a recent sample
	TokenMints    []string `json:"token_mints,omitempty"`
	Balance       float64  `json:"balance"` // current holding of the scanned token
	CreationDate  string   `json:"creation_date,omitempty"` // YYYY-MM-DD, empty if block time unknown
	CreationTx    string   `json:"creation_tx,omitempty"`
}
