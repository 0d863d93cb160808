// Package risk folds analysis outputs into a deterministic score and
// classification. Scoring is a pure function: identical inputs always
// produce identical scores, warnings and positives, in the same order.
package risk

import (
	"fmt"

	"x1-token-scanner/internal/domain"
)

// Weights and thresholds for each scored signal.
const (
	mintAuthorityWeight   = 25
	freezeAuthorityWeight = 25

	topHolderVeryHigh = 50 // percent
	topHolderModerate = 20
	topHolderNotable  = 10

	top10Threshold = 80

	lpBurnStrong  = 90 // percent burned
	lpBurnPartial = 50

	liquidityFloorUSD  = 5000
	liquidityFloorWXNT = 2000
)

// Classification thresholds.
const (
	criticalThreshold = 75
	highThreshold     = 50
	mediumThreshold   = 25
)

// Input carries everything the scoring function looks at.
type Input struct {
	MintAuthorityEnabled   bool
	FreezeAuthorityEnabled bool

	TopHolderPercent float64
	Top10Percent     float64

	LPFound       bool
	LPBurnPercent float64

	LiquidityUSD  float64
	LiquidityWXNT float64 // fallback floor when no USD rate is known
}

// Result is the scored classification. Warnings and positives keep
// evaluation order; consumers truncate from the front.
type Result struct {
	Score     int
	Level     domain.RiskLevel
	Warnings  []string
	Positives []string
}

// Score evaluates every signal in a fixed order and clamps the sum to
// [0, 100].
func Score(in Input) Result {
	var r Result

	if in.MintAuthorityEnabled {
		r.Score += mintAuthorityWeight
		r.warn("Mint authority active — supply can increase")
	} else {
		r.positive("Mint authority revoked")
	}

	if in.FreezeAuthorityEnabled {
		r.Score += freezeAuthorityWeight
		r.warn("Freeze authority active — tokens can be frozen")
	} else {
		r.positive("Freeze authority revoked")
	}

	switch {
	case in.TopHolderPercent > topHolderVeryHigh:
		r.Score += 20
		r.warn("Top holder owns %.1f%% (very high)", in.TopHolderPercent)
	case in.TopHolderPercent > topHolderModerate:
		r.Score += 10
		r.warn("Top holder owns %.1f%% (moderate)", in.TopHolderPercent)
	case in.TopHolderPercent > topHolderNotable:
		r.Score += 5
		r.warn("Top holder at %.1f%%", in.TopHolderPercent)
	}

	if in.Top10Percent > top10Threshold {
		r.Score += 5
		r.warn("Top 10 hold %.1f%%", in.Top10Percent)
	}

	if in.LPFound {
		switch {
		case in.LPBurnPercent >= lpBurnStrong:
			r.positive("LP burns detected (%.1f%%)", in.LPBurnPercent)
		case in.LPBurnPercent >= lpBurnPartial:
			r.Score += 5
			r.positive("Some LP burns (%.1f%%)", in.LPBurnPercent)
			r.warn("LP Safety %.1f%% (below 90%%)", in.LPBurnPercent)
		case in.LPBurnPercent > 0:
			r.Score += 10
			r.warn("LP Safety only %.1f%% (below 50%%)", in.LPBurnPercent)
		default:
			r.Score += 15
			r.warn("LP not burned — dev can pull liquidity")
		}
	} else {
		r.Score += 15
		r.warn("No LP found")
	}

	if in.LiquidityUSD > 0 && in.LiquidityUSD < liquidityFloorUSD {
		r.Score += 5
		r.warn("Low liquidity (%s)", FormatUSD(in.LiquidityUSD))
	} else if in.LiquidityUSD == 0 && in.LiquidityWXNT > 0 && in.LiquidityWXNT < liquidityFloorWXNT {
		r.Score += 5
		r.warn("Low liquidity (%s XNT)", FormatNumber(in.LiquidityWXNT))
	}

	if r.Score > 100 {
		r.Score = 100
	}
	r.Level = levelFor(r.Score)
	return r
}

func levelFor(score int) domain.RiskLevel {
	switch {
	case score >= criticalThreshold:
		return domain.RiskCritical
	case score >= highThreshold:
		return domain.RiskHigh
	case score >= mediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskSafe
	}
}

func (r *Result) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) positive(format string, args ...interface{}) {
	r.Positives = append(r.Positives, fmt.Sprintf(format, args...))
}

// FormatNumber renders a float with K/M suffixes for display.
func FormatNumber(num float64) string {
	switch {
	case num >= 1_000_000:
		return fmt.Sprintf("%.2fM", num/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.2fK", num/1_000)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}

// FormatUSD renders a dollar figure with K/M suffixes.
func FormatUSD(num float64) string {
	return "$" + FormatNumber(num)
}
