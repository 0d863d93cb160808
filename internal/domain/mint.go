package domain

// MintState represents the decoded state of an SPL token mint account.
// Authorities are nil when their option flag is unset (revoked).
type MintState struct {
	Mint            string  // mint address (base58)
	Decimals        uint8   // base-unit exponent
	Supply          uint64  // raw supply in base units
	MintAuthority   *string // nil if revoked
	FreezeAuthority *string // nil if revoked
	Initialized     bool
}

// UISupply returns the supply scaled by decimals.
func (m *MintState) UISupply() float64 {
	if m.Supply == 0 {
		return 0
	}
	div := 1.0
	for i := uint8(0); i < m.Decimals; i++ {
		div *= 10
	}
	return float64(m.Supply) / div
}

// TokenIdentity holds the display name and symbol for a mint.
// Either field may be empty when no on-chain metadata exists.
type TokenIdentity struct {
	Name   string
	Symbol string
	URI    string
}
