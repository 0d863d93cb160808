package burn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"x1-token-scanner/internal/discovery"
	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage"
	"x1-token-scanner/internal/token"
)

const (
	// DefaultCacheTTL bounds how long a cached LP status is served
	// before the chain is re-queried.
	DefaultCacheTTL = 6 * time.Hour

	// DefaultConcurrency is the per-analysis pool fan-out width.
	DefaultConcurrency = 4

	// minPoolDataLen is the smallest account a pool layout can occupy;
	// anything shorter is a filter false positive.
	minPoolDataLen = 168

	incineratorSigLimit = 20
	burnScanSigLimit    = 50
)

// Analyzer reconstructs LP burn status for a token across every AMM
// pool that references it. Results are cached per mint; supply facts
// recovered from history walks are cached permanently.
type Analyzer struct {
	rpc         solana.RPCClient
	finder      *discovery.Finder
	cache       storage.LPStatusStore
	facts       storage.SupplyFactStore
	ttl         time.Duration
	concurrency int
	verbose     bool
}

// AnalyzerOptions configures an Analyzer. RPC, Finder, Cache and Facts
// are required.
type AnalyzerOptions struct {
	RPC         solana.RPCClient
	Finder      *discovery.Finder
	Cache       storage.LPStatusStore
	Facts       storage.SupplyFactStore
	CacheTTL    time.Duration // defaults to DefaultCacheTTL
	Concurrency int           // defaults to DefaultConcurrency
	Verbose     bool
}

// NewAnalyzer creates a burn analyzer.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	a := &Analyzer{
		rpc:         opts.RPC,
		finder:      opts.Finder,
		cache:       opts.Cache,
		facts:       opts.Facts,
		ttl:         opts.CacheTTL,
		concurrency: opts.Concurrency,
		verbose:     opts.Verbose,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultCacheTTL
	}
	if a.concurrency <= 0 {
		a.concurrency = DefaultConcurrency
	}
	return a
}

// AnalyzeLPStatus resolves the aggregate LP burn status for a token
// mint. A fresh cached entry short-circuits the analysis entirely.
// Pools whose LP mint cannot be resolved are still reported, with zero
// supply figures, so the pool count stays honest.
func (a *Analyzer) AnalyzeLPStatus(ctx context.Context, mint string) (*domain.AggregateLPStatus, error) {
	if cached, err := a.cache.Get(ctx, mint, a.ttl); err == nil {
		observability.RecordCacheHit("lp_status")
		return cached, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[burn] lp status cache lookup %s: %v", mint, err)
	}
	observability.RecordCacheMiss("lp_status")

	pools, err := a.finder.FindPools(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("find pools for %s: %w", mint, err)
	}

	status := &domain.AggregateLPStatus{Mint: mint}
	if len(pools) == 0 {
		a.storeStatus(ctx, status)
		return status, nil
	}
	status.Found = true

	skip := map[string]bool{
		mint:                     true,
		token.WXNTMint:           true,
		token.TokenProgramID:     true,
		token.Token2022ProgramID: true,
		token.AMMProgramID:       true,
	}

	results := make([]*domain.PoolBurnInfo, len(pools))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i, pool := range pools {
		if len(pool.Data) < minPoolDataLen {
			continue
		}

		wg.Add(1)
		go func(i int, pool domain.PoolCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			info, err := a.analyzePool(ctx, mint, pool, skip)
			if err != nil {
				log.Printf("[burn] pool %s: %v", pool.Address, err)
				return
			}
			results[i] = info
		}(i, pool)
	}
	wg.Wait()

	seenLP := make(map[string]bool)
	for _, info := range results {
		if info == nil {
			continue
		}
		if info.LPMint != "" {
			// Resolved pools with no supply history are decode false
			// positives; duplicates are the same pool matched at
			// different offsets.
			if info.OriginalSupply == 0 || seenLP[info.LPMint] {
				continue
			}
			seenLP[info.LPMint] = true
		}

		status.Pools = append(status.Pools, *info)
		status.TotalOriginal += info.OriginalSupply
		status.TotalBurned += info.BurnedAmount
		status.BurnTxCount += info.BurnTxCount
	}

	sort.SliceStable(status.Pools, func(i, j int) bool {
		return status.Pools[i].OriginalSupply > status.Pools[j].OriginalSupply
	})

	status.BurnPercent = BurnPercent(status.TotalOriginal, status.TotalBurned)

	if a.verbose {
		log.Printf("[burn] %s: %d pools, %.2f%% burned", mint, len(status.Pools), status.BurnPercent)
	}

	a.storeStatus(ctx, status)
	return status, nil
}

// analyzePool resolves one pool's LP accounting. A pool whose LP mint
// cannot be located still yields an entry, zero-figured.
func (a *Analyzer) analyzePool(ctx context.Context, mint string, pool domain.PoolCandidate, skip map[string]bool) (*domain.PoolBurnInfo, error) {
	lpMint := a.finder.ResolveLPMint(ctx, pool, skip)
	pairLabel := a.finder.PairLabel(ctx, pool, mint, lpMint)
	if lpMint == "" {
		return &domain.PoolBurnInfo{
			PoolAddress: pool.Address,
			PairLabel:   pairLabel,
		}, nil
	}

	supply, err := a.rpc.GetTokenSupply(ctx, lpMint)
	if err != nil {
		return nil, fmt.Errorf("lp supply %s: %w", lpMint, err)
	}
	if supply == nil {
		return nil, fmt.Errorf("lp mint %s vanished", lpMint)
	}
	current := supply.Value()
	decimals := supply.Decimals

	in := ReconcileInput{CurrentSupply: current}
	in.InitialSupply = a.initialSupply(ctx, lpMint, decimals)

	incinerated, burnAccount, incineratorTxs := a.incineratorHoldings(ctx, lpMint)
	in.Incinerated = incinerated

	instructionBurned, instructionTxs := a.instructionBurns(ctx, lpMint, decimals)
	in.InstructionBurned = instructionBurned

	// The lifetime minted total only matters once supply regrew past
	// the first mint; the walk is expensive, so fetch it lazily.
	if in.BurnSignal() && !(in.InitialSupply > 0 && in.InitialSupply >= current) {
		in.TotalMinted = a.totalMinted(ctx, lpMint, decimals)
	}

	original, burned, rcase := Reconcile(in)

	return &domain.PoolBurnInfo{
		PoolAddress:    pool.Address,
		LPMint:         lpMint,
		CurrentSupply:  current,
		OriginalSupply: original,
		BurnedAmount:   burned,
		BurnPercent:    BurnPercent(original, burned),
		BurnTxCount:    incineratorTxs + instructionTxs,
		BurnAccount:    burnAccount,
		Method:         methodFor(in),
		Case:           rcase,
		PairLabel:      pairLabel,
	}, nil
}

// incineratorHoldings sums LP tokens parked on the incinerator and
// counts recent deposits into the holding account.
func (a *Analyzer) incineratorHoldings(ctx context.Context, lpMint string) (amount float64, burnAccount string, txCount int) {
	accounts, err := a.rpc.GetTokenAccountsByOwner(ctx, token.IncineratorAddress, solana.TokenAccountsQuery{Mint: lpMint})
	if err != nil {
		log.Printf("[burn] incinerator accounts for %s: %v", lpMint, err)
		return 0, "", 0
	}

	for _, account := range accounts {
		info, err := account.Account.TokenAccountInfo()
		if err != nil {
			continue
		}
		if v := info.TokenAmount.Value(); v > 0 {
			amount += v
			burnAccount = account.Pubkey
		}
	}
	if burnAccount == "" {
		return amount, "", 0
	}

	sigs, err := a.rpc.GetSignaturesForAddress(ctx, burnAccount, &solana.SignaturesOpts{Limit: incineratorSigLimit})
	if err != nil {
		return amount, burnAccount, 1
	}
	return amount, burnAccount, len(sigs)
}

// instructionBurns scans the LP mint's recent transactions for burn
// and burnChecked instructions, returning the destroyed amount and the
// number of matching instructions.
func (a *Analyzer) instructionBurns(ctx context.Context, lpMint string, decimals uint8) (total float64, txCount int) {
	sigs, err := a.rpc.GetSignaturesForAddress(ctx, lpMint, &solana.SignaturesOpts{Limit: burnScanSigLimit})
	if err != nil {
		log.Printf("[burn] burn scan signatures for %s: %v", lpMint, err)
		return 0, 0
	}

	for _, sig := range sigs {
		if sig.Failed() {
			continue
		}
		tx, err := a.rpc.GetParsedTransaction(ctx, sig.Signature)
		if err != nil || tx == nil {
			if ctx.Err() != nil {
				return total, txCount
			}
			continue
		}

		for _, ix := range tx.AllInstructions() {
			if ix.Parsed == nil {
				continue
			}
			ixType := ix.Parsed.Type
			if ixType != "burn" && ixType != "burnChecked" {
				continue
			}
			// Plain burn instructions omit the mint field; trust them.
			if ix.Parsed.Info.Mint != lpMint && ixType != "burn" {
				continue
			}
			if amount := instructionAmount(ix.Parsed.Info, decimals); amount > 0 {
				total += amount
				txCount++
			}
		}
	}
	return total, txCount
}

func (a *Analyzer) storeStatus(ctx context.Context, status *domain.AggregateLPStatus) {
	if err := a.cache.Upsert(ctx, status); err != nil {
		log.Printf("[burn] cache lp status %s: %v", status.Mint, err)
	}
}
