// Package scan orchestrates a full token security analysis: it
// fetches and decodes the mint, fans out the independent
// sub-analyses, prices the result in USD and folds everything into a
// scored SecurityReport.
package scan

import (
	"context"
	"log"
	"sync"
	"time"

	"x1-token-scanner/internal/burn"
	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/holders"
	"x1-token-scanner/internal/market"
	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/risk"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage"
	"x1-token-scanner/internal/token"
)

// Analyzer is the top-level entry point of the scanner.
type Analyzer struct {
	rpc     solana.RPCClient
	burn    *burn.Analyzer
	holders *holders.Analyzer
	market  *market.Resolver
	history storage.ScanHistoryStore
	list    TokenList
	now     func() time.Time
	verbose bool
}

// Options configures an Analyzer. RPC, Burn, Holders and Market are
// required; History and TokenList are optional.
type Options struct {
	RPC       solana.RPCClient
	Burn      *burn.Analyzer
	Holders   *holders.Analyzer
	Market    *market.Resolver
	History   storage.ScanHistoryStore
	TokenList TokenList
	Verbose   bool
}

// New creates a scan analyzer.
func New(opts Options) *Analyzer {
	list := opts.TokenList
	if list == nil {
		list = TokenList{}
	}
	return &Analyzer{
		rpc:     opts.RPC,
		burn:    opts.Burn,
		holders: opts.Holders,
		market:  opts.Market,
		history: opts.History,
		list:    list,
		now:     time.Now,
		verbose: opts.Verbose,
	}
}

// Analyze runs a full security analysis of a token mint.
//
// The mint fetch is the only mandatory step; every sub-analysis
// absorbs its own failures and degrades to a neutral default, so a
// partially-unavailable chain still produces a usable report.
func (a *Analyzer) Analyze(ctx context.Context, mint string) (*domain.SecurityReport, error) {
	if !token.ValidAddress(mint) {
		return nil, ErrInvalidAddress
	}

	account, err := a.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, ErrTokenInfoUnavailable
	}
	if account == nil || (account.Owner != token.TokenProgramID && account.Owner != token.Token2022ProgramID) {
		return nil, ErrNotAToken
	}

	data, err := account.DecodeData()
	if err != nil {
		return nil, ErrTokenInfoUnavailable
	}
	state, err := token.DecodeMint(data)
	if err != nil {
		return nil, ErrTokenInfoUnavailable
	}
	state.Mint = mint

	// Independent sub-analyses fan out; each one owns its failures.
	var (
		wg            sync.WaitGroup
		holderStats   *domain.HolderStats
		age           string
		poolPrice     *domain.PoolPrice
		accurateCount int
		lpStatus      *domain.AggregateLPStatus
		deployer      *domain.DeployerInfo
		identity      *domain.TokenIdentity
	)

	run := func(name string, fn func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			if a.verbose {
				log.Printf("[scan] %s done for %s", name, mint)
			}
		}()
	}

	run("holders", func(ctx context.Context) {
		stats, err := a.holders.AnalyzeHolders(ctx, mint, state.Supply)
		if err != nil {
			log.Printf("[scan] holder analysis %s: %v", mint, err)
			observability.RecordAbsorbedFailure("holders")
			stats = &domain.HolderStats{}
		}
		holderStats = stats
	})
	run("age", func(ctx context.Context) {
		age = a.tokenAge(ctx, mint)
	})
	run("price", func(ctx context.Context) {
		price, err := a.market.PoolPrice(ctx, mint)
		if err != nil {
			log.Printf("[scan] pool price %s: %v", mint, err)
			observability.RecordAbsorbedFailure("price")
		}
		poolPrice = price
	})
	run("holder-count", func(ctx context.Context) {
		count, err := a.holders.AccurateHolderCount(ctx, mint)
		if err != nil {
			log.Printf("[scan] holder count %s: %v", mint, err)
			observability.RecordAbsorbedFailure("holder-count")
		}
		accurateCount = count
	})
	run("lp-status", func(ctx context.Context) {
		status, err := a.burn.AnalyzeLPStatus(ctx, mint)
		if err != nil {
			log.Printf("[scan] lp status %s: %v", mint, err)
			observability.RecordAbsorbedFailure("lp-status")
			status = &domain.AggregateLPStatus{Mint: mint}
		}
		lpStatus = status
	})
	run("deployer", func(ctx context.Context) {
		deployer = a.deployerInfo(ctx, mint)
	})
	run("identity", func(ctx context.Context) {
		identity = a.tokenIdentity(ctx, mint)
	})
	wg.Wait()

	if accurateCount > 0 {
		holderStats.HolderCount = accurateCount
	}

	report := &domain.SecurityReport{
		Mint:        mint,
		Decimals:    state.Decimals,
		TotalSupply: state.UISupply(),
		RawSupply:   state.Supply,
		Holders:     *holderStats,
		LPStatus:    *lpStatus,
		Age:         age,
		Deployer:    deployer,
		AnalyzedAt:  a.now().Unix(),
	}
	if state.MintAuthority != nil {
		report.MintAuthority = *state.MintAuthority
	}
	if state.FreezeAuthority != nil {
		report.FreezeAuthority = *state.FreezeAuthority
	}

	a.applyIdentity(report, identity)
	a.applyMarket(ctx, report, poolPrice)

	if lpStatus.Burned() {
		if main := lpStatus.MainPool(); main != nil && main.LPMint != "" {
			detail, err := a.burn.LatestBurnTx(ctx, main.LPMint)
			if err != nil {
				log.Printf("[scan] burn tx detail %s: %v", main.LPMint, err)
				observability.RecordAbsorbedFailure("burn-tx")
			}
			report.LPBurnTx = detail
		}
	}

	result := risk.Score(risk.Input{
		MintAuthorityEnabled:   report.MintAuthorityEnabled(),
		FreezeAuthorityEnabled: report.FreezeAuthorityEnabled(),
		TopHolderPercent:       holderStats.TopHolderPercent,
		Top10Percent:           holderStats.Top10Percent,
		LPFound:                lpStatus.Found || poolPrice != nil,
		LPBurnPercent:          lpStatus.BurnPercent,
		LiquidityUSD:           report.LiquidityUSD,
		LiquidityWXNT:          report.LiquidityWXNT,
	})
	report.RiskScore = result.Score
	report.RiskLevel = result.Level
	report.Warnings = result.Warnings
	report.Positives = result.Positives

	a.recordScan(ctx, report)
	return report, nil
}

// applyIdentity sets the report's name and symbol from on-chain
// metadata, with the static token list filling any gaps.
func (a *Analyzer) applyIdentity(report *domain.SecurityReport, identity *domain.TokenIdentity) {
	if identity != nil {
		report.Name = identity.Name
		report.Symbol = identity.Symbol
	}
	if entry, ok := a.list[report.Mint]; ok {
		if report.Name == "" {
			report.Name = entry.Name
		}
		if report.Symbol == "" {
			report.Symbol = entry.Symbol
		}
	}
}

// applyMarket derives the USD-denominated figures. These depend on the
// pool price, so they run after the fan-out.
func (a *Analyzer) applyMarket(ctx context.Context, report *domain.SecurityReport, price *domain.PoolPrice) {
	if price != nil {
		report.PriceWXNT = price.PriceWXNT
		report.LiquidityWXNT = price.LiquidityWXNT
		report.TokenReserve = price.TokenReserve
		report.WXNTReserve = price.WXNTReserve
	}

	if report.PriceWXNT > 0 {
		if change, ok := a.market.PriceChange24h(ctx, report.Mint, report.PriceWXNT); ok {
			report.PriceChange24h = &change
		}
	}

	report.XNTUSDRate = a.market.XNTUSDPrice(ctx)

	volume, err := a.market.Volume24h(ctx, report.Mint)
	if err != nil {
		log.Printf("[scan] volume %s: %v", report.Mint, err)
		observability.RecordAbsorbedFailure("volume")
	}
	report.Volume24hWXNT = volume

	if report.XNTUSDRate > 0 {
		report.PriceUSD = report.PriceWXNT * report.XNTUSDRate
		report.LiquidityUSD = report.LiquidityWXNT * report.XNTUSDRate
		report.Volume24hUSD = volume * report.XNTUSDRate
	}
	if report.PriceUSD > 0 {
		report.MarketCapUSD = report.PriceUSD * report.TotalSupply
	}
}

// recordScan appends the run to scan history. History is optional and
// failures never affect the report.
func (a *Analyzer) recordScan(ctx context.Context, report *domain.SecurityReport) {
	if a.history == nil {
		return
	}
	rec := &domain.ScanRecord{
		Mint:             report.Mint,
		Symbol:           report.Symbol,
		RiskLevel:        report.RiskLevel,
		RiskScore:        report.RiskScore,
		PriceUSD:         report.PriceUSD,
		LiquidityUSD:     report.LiquidityUSD,
		LPBurnPercent:    report.LPStatus.BurnPercent,
		TopHolderPercent: report.Holders.TopHolderPercent,
		HolderCount:      report.Holders.HolderCount,
		ScannedAt:        report.AnalyzedAt,
	}
	if err := a.history.Insert(ctx, rec); err != nil {
		log.Printf("[scan] record history %s: %v", report.Mint, err)
		observability.RecordAbsorbedFailure("history")
	}
}
