package domain

// BurnMethod tags how LP tokens left circulation for a pool.
type BurnMethod string

const (
	BurnMethodNone        BurnMethod = ""
	BurnMethodIncinerator BurnMethod = "incinerator"
	BurnMethodInstruction BurnMethod = "burn-instruction"
	BurnMethodBoth        BurnMethod = "both"
)

// ReconcileCase identifies which branch of the supply-accounting formula
// produced a pool's burn figures. Unclassified states are kept visible for
// monitoring instead of being silently defaulted.
type ReconcileCase string

const (
	ReconcileSupplyDiff   ReconcileCase = "supply-diff"   // supply only shrank since first mint
	ReconcileRegrown      ReconcileCase = "regrown"       // liquidity added after burns
	ReconcileNoBurn       ReconcileCase = "no-burn"       // no burn signal at all
	ReconcileUnclassified ReconcileCase = "unclassified"  // burn signal but no usable supply history
)

// PoolCandidate is a program account matched during pool discovery.
// Transient: produced by the offset scan, consumed by burn analysis.
type PoolCandidate struct {
	Address string
	Data    []byte // raw account bytes
}

// PoolBurnInfo holds per-pool LP supply accounting.
// Invariant: BurnedAmount >= 0 and BurnPercent = min(100,
// BurnedAmount/OriginalSupply*100) when OriginalSupply > 0. Pools with
// OriginalSupply == 0 are excluded from aggregation (decode false positive).
type PoolBurnInfo struct {
	PoolAddress    string        `json:"pool_address"`
	LPMint         string        `json:"lp_mint"` // empty when LP bookkeeping is unavailable
	CurrentSupply  float64       `json:"current_supply"`
	OriginalSupply float64       `json:"original_supply"`
	BurnedAmount   float64       `json:"burned_amount"`
	BurnPercent    float64       `json:"burn_percent"`
	BurnTxCount    int           `json:"burn_tx_count"`
	BurnAccount    string        `json:"burn_account,omitempty"` // incinerator token account, if any
	Method         BurnMethod    `json:"method,omitempty"`
	Case           ReconcileCase `json:"case,omitempty"`
	PairLabel      string        `json:"pair_label,omitempty"` // counter-asset symbol or truncated address
}

// AggregateLPStatus summarizes burn accounting across every discovered pool.
// Pools are sorted by original supply descending; index 0 is the main pool.
// The overall percentage uses pooled sums, not an average of per-pool
// percentages.
type AggregateLPStatus struct {
	Mint          string         `json:"mint"`
	Found         bool           `json:"found"`
	Pools         []PoolBurnInfo `json:"pools,omitempty"`
	TotalOriginal float64        `json:"total_original"`
	TotalBurned   float64        `json:"total_burned"`
	BurnPercent   float64        `json:"burn_percent"` // capped at 100
	BurnTxCount   int            `json:"burn_tx_count"`
}

// Burned reports whether any LP tokens were destroyed in any pool.
func (a *AggregateLPStatus) Burned() bool {
	return a.TotalBurned > 0
}

// MainPool returns the pool with the largest original supply, or nil.
func (a *AggregateLPStatus) MainPool() *PoolBurnInfo {
	if len(a.Pools) == 0 {
		return nil
	}
	return &a.Pools[0]
}

// BurnTxDetail describes the most recent incinerator deposit for an LP mint.
type BurnTxDetail struct {
	Signature   string  `json:"signature"`
	Burner      string  `json:"burner"`
	Amount      float64 `json:"amount"`
	BlockTime   int64   `json:"block_time"`
	BurnAccount string  `json:"burn_account"`
}
