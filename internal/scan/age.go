package scan

import (
	"context"
	"fmt"
	"time"

	"x1-token-scanner/internal/solana"
)

const (
	historyPageSize = 1000
	historyMaxPages = 25
)

// tokenAge walks the mint's full signature history to its oldest
// transaction and renders the elapsed time. Returns "Unknown" when the
// history is empty or carries no block time.
func (a *Analyzer) tokenAge(ctx context.Context, mint string) string {
	var oldest *int64
	err := solana.WalkSignatures(ctx, a.rpc, mint, historyPageSize, historyMaxPages, func(page []solana.SignatureInfo) bool {
		if len(page) > 0 {
			oldest = page[len(page)-1].BlockTime
		}
		return true
	})
	if err != nil || oldest == nil {
		return "Unknown"
	}
	return formatAge(a.now().Sub(time.Unix(*oldest, 0)))
}

// formatAge renders a duration in the coarsest sensible unit.
func formatAge(age time.Duration) string {
	days := int(age.Hours() / 24)
	switch {
	case days >= 365:
		return fmt.Sprintf("%dy", days/365)
	case days >= 30:
		return fmt.Sprintf("%dmo", days/30)
	case days >= 1:
		return fmt.Sprintf("%dd", days)
	}
	if hours := int(age.Hours()); hours >= 1 {
		return fmt.Sprintf("%dh", hours)
	}
	return "<1h"
}
