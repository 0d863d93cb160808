// Package market derives spot prices, liquidity and trading activity
// for a token from its AMM pool balance snapshots. The chain exposes
// no price oracle, so every figure is reconstructed from recent
// transaction metadata.
package market

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

const (
	priceSigLimit  = 50
	priceTxSample  = 20
	changeWindow   = 2 * time.Hour
	changeMaxPages = 10
	changePageSize = 1000
	changeTxTries  = 5
	volumeMaxPages = 5
	volumePageSize = 200
	dayWindow      = 24 * time.Hour
)

// Resolver reconstructs market figures from pool balance snapshots.
type Resolver struct {
	rpc solana.RPCClient
	now func() time.Time
}

// NewResolver creates a market resolver.
func NewResolver(rpc solana.RPCClient) *Resolver {
	return &Resolver{rpc: rpc, now: time.Now}
}

// PoolPrice derives the token's spot price in WXNT from the most
// recent transaction that touched its main pool. Returns nil when no
// recent transaction exposes both reserves.
//
// The AMM authority owns every pool's token accounts, so a swap's post
// balances snapshot the reserves: the largest WXNT balance belongs to
// the main pool.
func (r *Resolver) PoolPrice(ctx context.Context, mint string) (*domain.PoolPrice, error) {
	sigs, err := r.rpc.GetSignaturesForAddress(ctx, mint, &solana.SignaturesOpts{Limit: priceSigLimit})
	if err != nil {
		return nil, fmt.Errorf("signatures for %s: %w", mint, err)
	}

	if len(sigs) > priceTxSample {
		sigs = sigs[:priceTxSample]
	}

	for _, sig := range sigs {
		tx, err := r.rpc.GetParsedTransaction(ctx, sig.Signature)
		if err != nil || tx == nil || tx.Meta == nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		var tokenReserve, wxntReserve float64
		for _, bal := range tx.Meta.PostTokenBalances {
			if bal.Owner != token.AMMAuthority {
				continue
			}
			amount := bal.UITokenAmount.Value()
			if amount <= 0 {
				continue
			}
			switch bal.Mint {
			case mint:
				tokenReserve = amount
			case token.WXNTMint:
				if amount > wxntReserve {
					wxntReserve = amount
				}
			}
		}

		if tokenReserve > 0 && wxntReserve > 0 {
			return &domain.PoolPrice{
				TokenReserve:  tokenReserve,
				WXNTReserve:   wxntReserve,
				PriceWXNT:     wxntReserve / tokenReserve,
				LiquidityWXNT: wxntReserve * 2,
				PoolAuthority: token.AMMAuthority,
			}, nil
		}
	}
	return nil, nil
}

// PriceChange24h computes the percentage move since roughly a day ago
// by sampling transactions near the 24h mark. The second return is
// false when no usable historical price exists.
func (r *Resolver) PriceChange24h(ctx context.Context, mint string, currentPrice float64) (float64, bool) {
	if currentPrice <= 0 {
		return 0, false
	}

	target := r.now().Add(-dayWindow).Unix()
	before := ""

	for page := 0; page < changeMaxPages; page++ {
		sigs, err := r.rpc.GetSignaturesForAddress(ctx, mint, &solana.SignaturesOpts{
			Limit:  changePageSize,
			Before: before,
		})
		if err != nil || len(sigs) == 0 {
			return 0, false
		}

		oldest := sigs[len(sigs)-1]
		before = oldest.Signature

		if oldest.BlockTime != nil && *oldest.BlockTime < target {
			return r.priceNear(ctx, mint, sigs, target, currentPrice)
		}
		if len(sigs) < changePageSize {
			return 0, false
		}
	}
	return 0, false
}

// priceNear tries the transactions closest to the target time, inside
// a two hour window, until one exposes a sane historical price.
func (r *Resolver) priceNear(ctx context.Context, mint string, sigs []solana.SignatureInfo, target int64, currentPrice float64) (float64, bool) {
	window := int64(changeWindow / time.Second)

	var candidates []solana.SignatureInfo
	for _, sig := range sigs {
		if sig.BlockTime == nil {
			continue
		}
		if abs64(*sig.BlockTime-target) < window {
			candidates = append(candidates, sig)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return abs64(*candidates[i].BlockTime-target) < abs64(*candidates[j].BlockTime-target)
	})

	if len(candidates) > changeTxTries {
		candidates = candidates[:changeTxTries]
	}

	for _, sig := range candidates {
		tx, err := r.rpc.GetParsedTransaction(ctx, sig.Signature)
		if err != nil || tx == nil || tx.Meta == nil {
			continue
		}

		// Largest token balance and smallest WXNT balance pick the
		// direct token/WXNT pool over routed pools.
		var tokenAmount, wxntAmount float64
		for _, bal := range tx.Meta.PostTokenBalances {
			if bal.Owner != token.AMMAuthority {
				continue
			}
			amount := bal.UITokenAmount.Value()
			if amount <= 0 {
				continue
			}
			switch bal.Mint {
			case mint:
				if amount > tokenAmount {
					tokenAmount = amount
				}
			case token.WXNTMint:
				if wxntAmount == 0 || amount < wxntAmount {
					wxntAmount = amount
				}
			}
		}
		if tokenAmount <= 0 || wxntAmount <= 0 {
			continue
		}

		oldPrice := wxntAmount / tokenAmount
		ratio := currentPrice / oldPrice
		// Outliers come from pool creation and removal transactions.
		if ratio <= 0.01 || ratio >= 100 {
			continue
		}
		return (currentPrice - oldPrice) / oldPrice * 100, true
	}
	return 0, false
}

// Volume24h sums the absolute WXNT reserve movement across the
// token's transactions over the last day.
func (r *Resolver) Volume24h(ctx context.Context, mint string) (float64, error) {
	cutoff := r.now().Add(-dayWindow).Unix()
	var total float64
	before := ""

	for page := 0; page < volumeMaxPages; page++ {
		sigs, err := r.rpc.GetSignaturesForAddress(ctx, mint, &solana.SignaturesOpts{
			Limit:  volumePageSize,
			Before: before,
		})
		if err != nil {
			return total, err
		}
		if len(sigs) == 0 {
			return total, nil
		}

		for _, sig := range sigs {
			if sig.BlockTime != nil && *sig.BlockTime < cutoff {
				return total, nil
			}
			tx, err := r.rpc.GetParsedTransaction(ctx, sig.Signature)
			if err != nil || tx == nil || tx.Meta == nil {
				if ctx.Err() != nil {
					return total, ctx.Err()
				}
				continue
			}
			total += wxntDelta(tx.Meta)
		}

		oldest := sigs[len(sigs)-1]
		if oldest.BlockTime != nil && *oldest.BlockTime < cutoff {
			return total, nil
		}
		before = oldest.Signature
		if len(sigs) < volumePageSize {
			return total, nil
		}
	}
	return total, nil
}

// wxntDelta sums the absolute WXNT change across the AMM authority's
// accounts in one transaction.
func wxntDelta(meta *solana.ParsedMeta) float64 {
	var delta float64
	for _, pre := range meta.PreTokenBalances {
		if pre.Owner != token.AMMAuthority || pre.Mint != token.WXNTMint {
			continue
		}
		for _, post := range meta.PostTokenBalances {
			if post.AccountIndex != pre.AccountIndex || post.Mint != token.WXNTMint {
				continue
			}
			delta += math.Abs(post.UITokenAmount.Value() - pre.UITokenAmount.Value())
		}
	}
	return delta
}

// XNTUSDPrice derives the chain token's dollar price by inverting the
// USDC pool's price. Returns zero when the pool is unreadable.
func (r *Resolver) XNTUSDPrice(ctx context.Context) float64 {
	price, err := r.PoolPrice(ctx, token.USDCPoolMint)
	if err != nil {
		log.Printf("[market] usdc pool price: %v", err)
		return 0
	}
	if price == nil || price.PriceWXNT <= 0 {
		return 0
	}
	return 1 / price.PriceWXNT
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
