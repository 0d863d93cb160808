package burn

import (
	"context"
	"errors"
	"log"
	"strconv"

	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage"
)

const (
	supplyPageLimit = 1000
	supplyMaxPages  = 10
)

// initialSupply reconstructs an LP mint's first mint amount from
// transaction history, oldest first. The result is a historical
// constant, so hits are served from the fact store indefinitely.
func (a *Analyzer) initialSupply(ctx context.Context, lpMint string, decimals uint8) float64 {
	if v, err := a.facts.Get(ctx, lpMint); err == nil {
		observability.RecordCacheHit("supply_facts")
		return v
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[burn] supply fact lookup %s: %v", lpMint, err)
	}
	observability.RecordCacheMiss("supply_facts")

	sigs, err := solana.CollectAllSignatures(ctx, a.rpc, lpMint, supplyPageLimit, supplyMaxPages)
	if err != nil || len(sigs) == 0 {
		return 0
	}

	// Oldest transaction first: the first mintTo is the creation mint.
	for i := len(sigs) - 1; i >= 0; i-- {
		tx, err := a.rpc.GetParsedTransaction(ctx, sigs[i].Signature)
		if err != nil || tx == nil {
			if ctx.Err() != nil {
				return 0
			}
			continue
		}

		for _, ix := range tx.AllInstructions() {
			amount, ok := mintAmount(ix, lpMint, decimals)
			if ok && amount > 0 {
				if err := a.facts.Put(ctx, lpMint, amount); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
					log.Printf("[burn] cache initial supply %s: %v", lpMint, err)
				}
				return amount
			}
		}
	}
	return 0
}

// totalMinted sums every mint amount across the LP mint's history.
// Used as the burn denominator when liquidity was re-added after burns.
func (a *Analyzer) totalMinted(ctx context.Context, lpMint string, decimals uint8) float64 {
	key := storage.TotalMintedKey(lpMint)
	if v, err := a.facts.Get(ctx, key); err == nil {
		observability.RecordCacheHit("supply_facts")
		return v
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[burn] supply fact lookup %s: %v", key, err)
	}
	observability.RecordCacheMiss("supply_facts")

	sigs, err := solana.CollectAllSignatures(ctx, a.rpc, lpMint, supplyPageLimit, supplyMaxPages)
	if err != nil || len(sigs) == 0 {
		return 0
	}

	var total float64
	for i := len(sigs) - 1; i >= 0; i-- {
		tx, err := a.rpc.GetParsedTransaction(ctx, sigs[i].Signature)
		if err != nil || tx == nil {
			if ctx.Err() != nil {
				return 0
			}
			continue
		}

		for _, ix := range tx.AllInstructions() {
			if amount, ok := mintAmount(ix, lpMint, decimals); ok {
				total += amount
			}
		}
	}

	if total > 0 {
		// A concurrent analysis may have recorded the same fact first
		if err := a.facts.Put(ctx, key, total); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			log.Printf("[burn] cache total minted %s: %v", lpMint, err)
		}
	}
	return total
}

// mintAmount extracts the minted amount from a mintTo or mintToChecked
// instruction targeting lpMint. The second return is false when the
// instruction does not apply.
func mintAmount(ix solana.ParsedInstruction, lpMint string, decimals uint8) (float64, bool) {
	if ix.Parsed == nil {
		return 0, false
	}
	if ix.Parsed.Type != "mintTo" && ix.Parsed.Type != "mintToChecked" {
		return 0, false
	}
	if ix.Parsed.Info.Mint != lpMint {
		return 0, false
	}
	return instructionAmount(ix.Parsed.Info, decimals), true
}

// instructionAmount reads the ui amount when present, falling back to
// the raw integer amount scaled by the mint's decimals.
func instructionAmount(info solana.InstructionInfo, decimals uint8) float64 {
	if info.TokenAmount != nil && info.TokenAmount.UIAmount != nil {
		return *info.TokenAmount.UIAmount
	}
	raw, err := strconv.ParseFloat(info.Amount, 64)
	if err != nil || raw <= 0 {
		return 0
	}
	divisor := 1.0
	for i := uint8(0); i < decimals; i++ {
		divisor *= 10
	}
	return raw / divisor
}
