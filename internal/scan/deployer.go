package scan

import (
	"context"
	"time"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
)

// deployerTxSample bounds how many of the deployer's recent
// transactions are inspected for other token creations.
const deployerTxSample = 50

// deployerInfo identifies the wallet that created the mint and
// profiles it: other mints it initialized recently and its current
// holding of the scanned token. Returns nil when the creation
// transaction cannot be located.
func (a *Analyzer) deployerInfo(ctx context.Context, mint string) *domain.DeployerInfo {
	var oldest *solana.SignatureInfo
	err := solana.WalkSignatures(ctx, a.rpc, mint, historyPageSize, historyMaxPages, func(page []solana.SignatureInfo) bool {
		if len(page) > 0 {
			oldest = &page[len(page)-1]
		}
		return true
	})
	if err != nil || oldest == nil {
		return nil
	}

	tx, err := a.rpc.GetParsedTransaction(ctx, oldest.Signature)
	if err != nil || tx == nil {
		return nil
	}
	deployer := tx.FeePayer()
	if deployer == "" {
		return nil
	}

	info := &domain.DeployerInfo{
		Address:    deployer,
		CreationTx: oldest.Signature,
	}
	if oldest.BlockTime != nil {
		info.CreationDate = time.Unix(*oldest.BlockTime, 0).UTC().Format("2006-01-02")
	}

	info.TokenMints = a.deployerMints(ctx, deployer)
	info.TokensCreated = len(info.TokenMints)
	info.Balance = a.ownerBalance(ctx, deployer, mint)
	return info
}

// deployerMints samples the wallet's recent transactions for mint
// initializations, deduplicated.
func (a *Analyzer) deployerMints(ctx context.Context, deployer string) []string {
	sigs, err := a.rpc.GetSignaturesForAddress(ctx, deployer, &solana.SignaturesOpts{Limit: historyPageSize})
	if err != nil {
		return nil
	}
	if len(sigs) > deployerTxSample {
		sigs = sigs[:deployerTxSample]
	}

	seen := make(map[string]bool)
	var mints []string
	for _, sig := range sigs {
		tx, err := a.rpc.GetParsedTransaction(ctx, sig.Signature)
		if err != nil || tx == nil {
			if ctx.Err() != nil {
				return mints
			}
			continue
		}
		for _, ix := range tx.AllInstructions() {
			if ix.Parsed == nil {
				continue
			}
			if ix.Parsed.Type != "initializeMint" && ix.Parsed.Type != "initializeMint2" {
				continue
			}
			m := ix.Parsed.Info.Mint
			if m != "" && !seen[m] {
				seen[m] = true
				mints = append(mints, m)
			}
		}
	}
	return mints
}

// ownerBalance sums the owner's token accounts for the mint.
func (a *Analyzer) ownerBalance(ctx context.Context, owner, mint string) float64 {
	accounts, err := a.rpc.GetTokenAccountsByOwner(ctx, owner, solana.TokenAccountsQuery{Mint: mint})
	if err != nil {
		return 0
	}
	var total float64
	for _, account := range accounts {
		info, err := account.Account.TokenAccountInfo()
		if err != nil {
			continue
		}
		total += info.TokenAmount.Value()
	}
	return total
}
