// Package main provides a one-shot CLI scanner: analyze a single mint
// and print the security report as text or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"x1-token-scanner/internal/burn"
	"x1-token-scanner/internal/discovery"
	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/holders"
	"x1-token-scanner/internal/market"
	"x1-token-scanner/internal/risk"
	"x1-token-scanner/internal/scan"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage/memory"
)

func main() {
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("X1_RPC_ENDPOINT"), "X1 RPC HTTP endpoint")
	tokenListPath := flag.String("token-list", "", "Path to token list JSON for name/symbol gap-fill")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	timeout := flag.Duration("timeout", 2*time.Minute, "Analysis timeout")
	verbose := flag.Bool("verbose", false, "Verbose logging")

	flag.Parse()

	logger := log.New(os.Stderr, "[scan] ", log.LstdFlags)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <token_mint_address>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	mint := flag.Arg(0)

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	finder := discovery.NewFinder(discovery.FinderOptions{
		RPC:     rpc,
		Verbose: *verbose,
	})
	burnAnalyzer := burn.NewAnalyzer(burn.AnalyzerOptions{
		RPC:     rpc,
		Finder:  finder,
		Cache:   memory.NewLPStatusStore(),
		Facts:   memory.NewSupplyFactStore(),
		Verbose: *verbose,
	})

	var list scan.TokenList
	if *tokenListPath != "" {
		list = scan.LoadTokenList(*tokenListPath)
	}

	analyzer := scan.New(scan.Options{
		RPC:       rpc,
		Burn:      burnAnalyzer,
		Holders:   holders.NewAnalyzer(rpc),
		Market:    market.NewResolver(rpc),
		TokenList: list,
		Verbose:   *verbose,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger.Printf("Analyzing %s...", mint)
	report, err := analyzer.Analyze(ctx, mint)
	if err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Fatalf("Encode report: %v", err)
		}
		return
	}

	fmt.Print(renderReport(report))
}

// renderReport formats the report as a terminal-friendly audit card.
func renderReport(r *domain.SecurityReport) string {
	var b strings.Builder

	name := r.Name
	if name == "" {
		name = "Unknown"
	}
	symbol := r.Symbol
	if symbol == "" {
		symbol = "???"
	}

	fmt.Fprintf(&b, "%s ($%s)\n", name, symbol)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Mint: %s\n\n", r.Mint)

	b.WriteString("Metrics\n")
	fmt.Fprintf(&b, "  Price:     %s%s\n", priceString(r), priceChangeString(r))
	fmt.Fprintf(&b, "  MCap:      %s\n", usdOrNA(r.MarketCapUSD))
	fmt.Fprintf(&b, "  Liquidity: %s\n", usdOrNA(r.LiquidityUSD))
	fmt.Fprintf(&b, "  24h Vol:   %s\n", risk.FormatUSD(r.Volume24hUSD))
	fmt.Fprintf(&b, "  Supply:    %s\n", risk.FormatNumber(r.TotalSupply))
	fmt.Fprintf(&b, "  Age:       %s\n\n", r.Age)

	b.WriteString("Security\n")
	fmt.Fprintf(&b, "  Mint:      %s\n", authorityString(r.MintAuthorityEnabled()))
	fmt.Fprintf(&b, "  Freeze:    %s\n", authorityString(r.FreezeAuthorityEnabled()))
	fmt.Fprintf(&b, "  LP Safety: %.1f%%\n", r.LPStatus.BurnPercent)
	fmt.Fprintf(&b, "  Risk:      %d/100 %s\n\n", r.RiskScore, r.RiskLevel)

	fmt.Fprintf(&b, "Holders (%d)\n", r.Holders.HolderCount)
	fmt.Fprintf(&b, "  Top:    %.1f%%\n", r.Holders.TopHolderPercent)
	fmt.Fprintf(&b, "  Top 10: %.1f%%\n", r.Holders.Top10Percent)
	for i, h := range r.Holders.TopHolders {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "  %2d. %s  %.1f%%\n", h.Rank, truncate(h.Address), h.Percent)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Pools (%d found)\n", len(r.LPStatus.Pools))
	for _, p := range r.LPStatus.Pools {
		fmt.Fprintf(&b, "  %s/%s  burned %.1f%% (%s of %s LP)\n",
			symbol, p.PairLabel, p.BurnPercent,
			risk.FormatNumber(p.BurnedAmount), risk.FormatNumber(p.OriginalSupply))
	}
	if r.LPBurnTx != nil && r.LPBurnTx.Signature != "" {
		fmt.Fprintf(&b, "  Last burn tx: %s\n", truncate(r.LPBurnTx.Signature))
	}
	b.WriteString("\n")

	if r.Deployer != nil {
		b.WriteString("Deployer\n")
		fmt.Fprintf(&b, "  Address: %s\n", truncate(r.Deployer.Address))
		fmt.Fprintf(&b, "  Tokens created: %d\n", r.Deployer.TokensCreated)
		if r.Deployer.CreationDate != "" {
			fmt.Fprintf(&b, "  Created: %s\n", r.Deployer.CreationDate)
		}
		b.WriteString("\n")
	}

	if len(r.Positives) > 0 {
		b.WriteString("The Good:\n")
		for _, p := range r.Positives {
			fmt.Fprintf(&b, "  + %s\n", p)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("Concerns:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}

	fmt.Fprintf(&b, "\nVerdict: %s (%d/100)\n", r.RiskLevel, r.RiskScore)
	b.WriteString("Risk: 0-24 SAFE | 25-49 MEDIUM | 50-74 HIGH | 75+ CRITICAL\n")

	return b.String()
}

// priceString renders the token price, USD first, native second.
func priceString(r *domain.SecurityReport) string {
	switch {
	case r.PriceUSD >= 1:
		return fmt.Sprintf("$%.2f", r.PriceUSD)
	case r.PriceUSD >= 0.0001:
		return fmt.Sprintf("$%.6f", r.PriceUSD)
	case r.PriceUSD > 0:
		return fmt.Sprintf("$%.8f", r.PriceUSD)
	case r.PriceWXNT > 0:
		return fmt.Sprintf("%.8f XNT", r.PriceWXNT)
	default:
		return "N/A"
	}
}

func priceChangeString(r *domain.SecurityReport) string {
	if r.PriceChange24h == nil {
		return ""
	}
	return fmt.Sprintf(" (%+.1f%% 24h)", *r.PriceChange24h)
}

func usdOrNA(amount float64) string {
	if amount <= 0 {
		return "N/A"
	}
	return risk.FormatUSD(amount)
}

func authorityString(enabled bool) string {
	if enabled {
		return "ACTIVE"
	}
	return "REVOKED"
}

// truncate shortens an address or signature for display.
func truncate(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + ".." + s[len(s)-4:]
}
