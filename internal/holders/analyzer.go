// Package holders measures how concentrated a token's supply is
// across its largest accounts.
package holders

import (
	"context"
	"fmt"
	"strconv"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

// Analyzer computes holder concentration stats.
type Analyzer struct {
	rpc solana.RPCClient
}

// NewAnalyzer creates a holder analyzer.
func NewAnalyzer(rpc solana.RPCClient) *Analyzer {
	return &Analyzer{rpc: rpc}
}

// AnalyzeHolders ranks the mint's largest accounts against its total
// supply. Percentages use raw amounts so rounding in ui values cannot
// skew them. A zero total supply yields all-zero stats.
func (a *Analyzer) AnalyzeHolders(ctx context.Context, mint string, totalSupply uint64) (*domain.HolderStats, error) {
	stats := &domain.HolderStats{}

	largest, err := a.rpc.GetTokenLargestAccounts(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("largest accounts for %s: %w", mint, err)
	}
	if len(largest) == 0 || totalSupply == 0 {
		return stats, nil
	}

	supply := float64(totalSupply)
	var top10Raw float64

	for i, account := range largest {
		raw, err := strconv.ParseFloat(account.Amount, 64)
		if err != nil {
			raw = 0
		}
		percent := raw / supply * 100

		stats.TopHolders = append(stats.TopHolders, domain.Holder{
			Rank:     i + 1,
			Address:  account.Address,
			UIAmount: account.UIValue(),
			Percent:  percent,
		})

		if i < 10 {
			top10Raw += raw
		}
		if i == 0 {
			stats.TopHolderPercent = percent
		}
	}

	stats.Top10Percent = top10Raw / supply * 100
	stats.HolderCount = len(stats.TopHolders)
	return stats, nil
}

// AccurateHolderCount counts every token account for the mint holding
// a positive balance. Falls back to the token-2022 program when the
// classic program has no accounts for the mint.
func (a *Analyzer) AccurateHolderCount(ctx context.Context, mint string) (int, error) {
	filters := []solana.Filter{
		solana.DataSizeFilter(token.TokenAccountSize),
		solana.MemcmpFilter(0, mint),
	}

	accounts, err := a.rpc.GetParsedProgramAccounts(ctx, token.TokenProgramID, filters)
	if err != nil {
		return 0, fmt.Errorf("token accounts for %s: %w", mint, err)
	}

	if len(accounts) == 0 {
		// Token-2022 accounts carry extensions, so no size filter.
		accounts, err = a.rpc.GetParsedProgramAccounts(ctx, token.Token2022ProgramID, []solana.Filter{
			solana.MemcmpFilter(0, mint),
		})
		if err != nil {
			return 0, fmt.Errorf("token-2022 accounts for %s: %w", mint, err)
		}
	}

	count := 0
	for _, account := range accounts {
		info, err := account.Account.TokenAccountInfo()
		if err != nil {
			continue
		}
		if info.TokenAmount.Value() > 0 {
			count++
		}
	}
	return count, nil
}
