package discovery

import (
	"context"
	"log"

	"github.com/mr-tron/base58"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

// Finder scans the AMM program's accounts for pools holding a mint.
type Finder struct {
	rpc        solana.RPCClient
	verifier   MintVerifier
	ammProgram string
	verbose    bool
}

// FinderOptions configures a Finder.
type FinderOptions struct {
	RPC        solana.RPCClient
	Verifier   MintVerifier // defaults to RPCMintVerifier over RPC
	AMMProgram string       // defaults to token.AMMProgramID
	Verbose    bool
}

// NewFinder creates a pool finder.
func NewFinder(opts FinderOptions) *Finder {
	f := &Finder{
		rpc:        opts.RPC,
		verifier:   opts.Verifier,
		ammProgram: opts.AMMProgram,
		verbose:    opts.Verbose,
	}
	if f.verifier == nil {
		f.verifier = NewRPCMintVerifier(opts.RPC)
	}
	if f.ammProgram == "" {
		f.ammProgram = token.AMMProgramID
	}
	return f
}

// FindPools returns every AMM pool account referencing the mint at any
// known offset, deduplicated by address. A failed offset query is
// logged and skipped; the remaining offsets still contribute.
func (f *Finder) FindPools(ctx context.Context, mint string) ([]domain.PoolCandidate, error) {
	seen := make(map[string]bool)
	var pools []domain.PoolCandidate

	for _, offset := range MintOffsets {
		filters := []solana.Filter{solana.MemcmpFilter(offset, mint)}

		accounts, err := f.rpc.GetProgramAccounts(ctx, f.ammProgram, filters)
		if err != nil {
			if ctx.Err() != nil {
				return pools, ctx.Err()
			}
			log.Printf("[discovery] offset %d query failed for %s: %v", offset, mint, err)
			continue
		}

		for _, account := range accounts {
			if seen[account.Pubkey] {
				continue
			}
			seen[account.Pubkey] = true

			data, err := account.Account.DecodeData()
			if err != nil {
				log.Printf("[discovery] undecodable pool account %s: %v", account.Pubkey, err)
				continue
			}
			pools = append(pools, domain.PoolCandidate{Address: account.Pubkey, Data: data})
		}
	}

	if f.verbose {
		log.Printf("[discovery] found %d pools for %s", len(pools), mint)
	}
	return pools, nil
}

// ResolveLPMint extracts the pool's LP mint from its account data.
// Each candidate offset is tried in order; a candidate survives when
// it is a plausible pubkey, not in the skip set, and verifies as a
// mint on-chain. Returns empty when no offset yields a mint.
func (f *Finder) ResolveLPMint(ctx context.Context, pool domain.PoolCandidate, skip map[string]bool) string {
	for _, offset := range LPMintOffsets {
		candidate := readPubkey(pool.Data, offset)
		if candidate == "" || skip[candidate] {
			continue
		}

		ok, err := f.verifier.IsMint(ctx, candidate)
		if err != nil {
			log.Printf("[discovery] verify %s: %v", candidate, err)
			continue
		}
		if ok {
			return candidate
		}
	}

	if f.verbose {
		log.Printf("[discovery] no LP mint resolved for pool %s", pool.Address)
	}
	return ""
}

// PairLabel identifies the counter asset of a pool: each pair offset
// candidate is verified as a real mint on-chain, then labeled with a
// known quote symbol, its metadata symbol, or a truncated address.
// When the offsets yield nothing the pool's own token accounts are
// read instead. lpMint, when already resolved, is excluded so the
// pool's own LP token cannot label itself. Returns "Unknown" when no
// counter mint can be identified.
func (f *Finder) PairLabel(ctx context.Context, pool domain.PoolCandidate, targetMint, lpMint string) string {
	skip := pairSkipSet(f.ammProgram, targetMint, lpMint)

	for _, offset := range PairOffsets {
		candidate := readPubkey(pool.Data, offset)
		if candidate == "" || skip[candidate] {
			continue
		}
		if symbol := token.KnownSymbol(candidate); symbol != "" {
			return symbol
		}

		// Offset scanning yields program IDs and vault addresses too;
		// only a verified mint can be the counter asset.
		ok, err := f.verifier.IsMint(ctx, candidate)
		if err != nil || !ok {
			continue
		}
		return f.labelMint(ctx, candidate)
	}

	// Fallback: read the counter mint off the pool's own token accounts
	accounts, err := f.rpc.GetTokenAccountsByOwner(ctx, pool.Address, solana.TokenAccountsQuery{ProgramID: token.TokenProgramID})
	if err != nil {
		return "Unknown"
	}
	for _, account := range accounts {
		if account.Account.Parsed == nil {
			continue
		}
		info, err := account.Account.TokenAccountInfo()
		if err != nil || info.Mint == "" || skip[info.Mint] {
			continue
		}
		if symbol := token.KnownSymbol(info.Mint); symbol != "" {
			return symbol
		}
		return f.labelMint(ctx, info.Mint)
	}

	return "Unknown"
}

// labelMint resolves a display label for a counter mint: its Metaplex
// metadata symbol when one exists, otherwise the truncated address.
func (f *Finder) labelMint(ctx context.Context, mint string) string {
	pda := token.DeriveMetadataPDA(mint)
	if pda != "" {
		if account, err := f.rpc.GetAccountInfo(ctx, pda); err == nil && account != nil {
			if data, err := account.DecodeData(); err == nil {
				if id := token.DecodeMetadata(data); id != nil && id.Symbol != "" {
					return id.Symbol
				}
			}
		}
	}
	return token.TruncateAddress(mint)
}

// pairSkipSet lists addresses that can never be a counter asset: the
// token itself, its LP mint, and the program IDs that share the pool's
// account layout.
func pairSkipSet(ammProgram, targetMint, lpMint string) map[string]bool {
	skip := map[string]bool{
		token.TokenProgramID:     true,
		token.Token2022ProgramID: true,
		token.ATAProgramID:       true,
		token.MetadataProgramID:  true,
		token.SystemProgramID:    true,
		ammProgram:               true,
		targetMint:               true,
	}
	if lpMint != "" {
		skip[lpMint] = true
	}
	return skip
}

// readPubkey decodes 32 bytes at offset as a base58 pubkey. Returns
// empty for out-of-range offsets and all-zero keys.
func readPubkey(data []byte, offset int) string {
	if offset < 0 || offset+32 > len(data) {
		return ""
	}

	raw := data[offset : offset+32]
	zero := true
	for _, b := range raw {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return ""
	}
	return base58.Encode(raw)
}
