package domain

// Holder is one entry in the largest-accounts ranking.
type Holder struct {
	Rank     int     `json:"rank"`
	Address  string  `json:"address"`
	UIAmount float64 `json:"ui_amount"`
	Percent  float64 `json:"percent"` // of total supply
}

// HolderStats summarizes holder concentration for a mint.
// A zero-supply mint yields all-zero stats; that is not an error, the
// ratios are simply undefined.
type HolderStats struct {
	TopHolders       []Holder `json:"top_holders"`
	TopHolderPercent float64  `json:"top_holder_percent"`
	Top10Percent     float64  `json:"top10_percent"`
	HolderCount      int      `json:"holder_count"` // exact on-chain count when available, else sample size
}
