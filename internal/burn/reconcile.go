// Package burn reconstructs how much of a pool's LP supply has been
// destroyed, combining current supply, mint history and burn evidence
// into a single accounting.
package burn

import "x1-token-scanner/internal/domain"

// ReconcileInput carries the supply facts gathered for one LP mint.
type ReconcileInput struct {
	InitialSupply     float64 // first mint amount, 0 when history walk found none
	CurrentSupply     float64
	Incinerated       float64 // held by incinerator accounts
	InstructionBurned float64 // destroyed via burn instructions
	TotalMinted       float64 // lifetime minted, 0 when unknown
}

// BurnSignal reports whether any direct burn evidence exists.
func (in ReconcileInput) BurnSignal() bool {
	return in.Incinerated > 0 || in.InstructionBurned > 0
}

// Reconcile resolves the original supply and burned amount for an LP
// mint. Three regular regimes exist, plus an unclassified state kept
// visible for monitoring:
//
//  1. Supply only shrank since the first mint: the difference plus any
//     incinerator holdings was burned.
//  2. Supply regrew past the first mint (liquidity added after burns):
//     only direct burn evidence counts, against the lifetime total.
//  3. No burn evidence at all: nothing burned; original falls back to
//     whatever supply figure is known, floored at 1 so the pool stays
//     in the aggregate.
//
// Burn evidence with no usable supply history fits none of the
// regimes; those pools are tagged unclassified rather than guessed at.
func Reconcile(in ReconcileInput) (original, burned float64, c domain.ReconcileCase) {
	if in.InitialSupply > 0 && in.InitialSupply >= in.CurrentSupply {
		burned = (in.InitialSupply - in.CurrentSupply) + in.Incinerated
		original = in.InitialSupply
		if in.Incinerated > 0 {
			original += in.Incinerated
		}
		return original, burned, domain.ReconcileSupplyDiff
	}

	if !in.BurnSignal() {
		original = in.CurrentSupply
		if original == 0 {
			original = in.InitialSupply
		}
		if original == 0 {
			original = 1
		}
		return original, 0, domain.ReconcileNoBurn
	}

	if in.CurrentSupply > in.InitialSupply {
		burned = in.Incinerated + in.InstructionBurned
		original = in.TotalMinted
		if original <= 0 {
			original = in.CurrentSupply + in.InstructionBurned + in.Incinerated
		}
		return original, burned, domain.ReconcileRegrown
	}

	// Burn signal with no initial and no current supply
	burned = in.Incinerated + in.InstructionBurned
	original = in.TotalMinted
	if original <= 0 {
		original = burned
	}
	if original == 0 {
		original = 1
	}
	return original, burned, domain.ReconcileUnclassified
}

// BurnPercent computes the burned share capped at 100. Zero original
// supply yields zero.
func BurnPercent(original, burned float64) float64 {
	if original <= 0 {
		return 0
	}
	percent := burned / original * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}

// methodFor tags which burn evidence backed the figures.
func methodFor(in ReconcileInput) domain.BurnMethod {
	switch {
	case in.Incinerated > 0 && in.InstructionBurned > 0:
		return domain.BurnMethodBoth
	case in.Incinerated > 0:
		return domain.BurnMethodIncinerator
	case in.InstructionBurned > 0:
		return domain.BurnMethodInstruction
	default:
		return domain.BurnMethodNone
	}
}
