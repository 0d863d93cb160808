package burn

import (
	"context"
	"fmt"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

// LatestBurnTx reports the most recent deposit into the incinerator's
// token account for an LP mint. Returns nil when the incinerator holds
// no account for the mint or no deposit is found.
func (a *Analyzer) LatestBurnTx(ctx context.Context, lpMint string) (*domain.BurnTxDetail, error) {
	accounts, err := a.rpc.GetTokenAccountsByOwner(ctx, token.IncineratorAddress, solana.TokenAccountsQuery{Mint: lpMint})
	if err != nil {
		return nil, fmt.Errorf("incinerator accounts for %s: %w", lpMint, err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	burnAccount := accounts[0].Pubkey

	sigs, err := a.rpc.GetSignaturesForAddress(ctx, burnAccount, &solana.SignaturesOpts{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("burn account signatures %s: %w", burnAccount, err)
	}
	if len(sigs) == 0 {
		return nil, nil
	}

	tx, err := a.rpc.GetParsedTransaction(ctx, sigs[0].Signature)
	if err != nil {
		return nil, fmt.Errorf("burn transaction %s: %w", sigs[0].Signature, err)
	}
	if tx == nil {
		return nil, nil
	}

	detail := &domain.BurnTxDetail{
		Signature:   sigs[0].Signature,
		BurnAccount: burnAccount,
	}
	if sigs[0].BlockTime != nil {
		detail.BlockTime = *sigs[0].BlockTime
	}

	// The deposit shows up as the last matching transfer in the
	// top-level instructions.
	if tx.Message != nil {
		for _, ix := range tx.Message.Instructions {
			if ix.Parsed == nil {
				continue
			}
			ixType := ix.Parsed.Type
			if ixType != "transfer" && ixType != "transferChecked" {
				continue
			}
			info := ix.Parsed.Info
			if info.Mint != lpMint && ixType != "transfer" {
				continue
			}
			detail.Burner = info.Authority
			if detail.Burner == "" {
				detail.Burner = info.Source
			}
			if info.TokenAmount != nil && info.TokenAmount.UIAmount != nil {
				detail.Amount = *info.TokenAmount.UIAmount
			} else {
				detail.Amount = instructionAmount(info, 0)
			}
		}
	}
	return detail, nil
}
