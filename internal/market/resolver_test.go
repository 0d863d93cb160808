package market

import (
	"context"
	"testing"
	"time"

	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/solana/stub"
	"x1-token-scanner/internal/token"
)

func fptr(v float64) *float64 { return &v }
func i64ptr(v int64) *int64   { return &v }

func postBalance(index int, mint, owner string, ui float64) solana.TokenBalance {
	return solana.TokenBalance{
		AccountIndex:  index,
		Mint:          mint,
		Owner:         owner,
		UITokenAmount: solana.UITokenAmount{UIAmount: fptr(ui)},
	}
}

func poolTx(mint string, tokenReserve, wxntReserve float64) *solana.ParsedTransaction {
	return &solana.ParsedTransaction{
		Slot: 1,
		Meta: &solana.ParsedMeta{
			PostTokenBalances: []solana.TokenBalance{
				postBalance(1, mint, token.AMMAuthority, tokenReserve),
				postBalance(2, token.WXNTMint, token.AMMAuthority, wxntReserve),
			},
		},
	}
}

func TestPoolPrice(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Signatures["mint1"] = []solana.SignatureInfo{{Signature: "swap1"}}

	tx := poolTx("mint1", 1000, 50)
	// Noise: balances of other owners and a smaller routed WXNT pool.
	tx.Meta.PostTokenBalances = append(tx.Meta.PostTokenBalances,
		postBalance(3, token.WXNTMint, "somebody", 9999),
		postBalance(4, token.WXNTMint, token.AMMAuthority, 10),
	)
	rpc.Transactions["swap1"] = tx

	resolver := NewResolver(rpc)
	price, err := resolver.PoolPrice(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("PoolPrice: %v", err)
	}
	if price == nil {
		t.Fatal("expected a price")
	}

	if price.TokenReserve != 1000 || price.WXNTReserve != 50 {
		t.Errorf("reserves = %v/%v, want 1000/50", price.TokenReserve, price.WXNTReserve)
	}
	if price.PriceWXNT != 0.05 {
		t.Errorf("price = %v, want 0.05", price.PriceWXNT)
	}
	if price.LiquidityWXNT != 100 {
		t.Errorf("liquidity = %v, want 100", price.LiquidityWXNT)
	}
}

func TestPoolPrice_SkipsIncompleteTxs(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Signatures["mint1"] = []solana.SignatureInfo{
		{Signature: "partial"}, {Signature: "swap1"},
	}

	// Newest transaction only shows one side of the pool.
	rpc.Transactions["partial"] = &solana.ParsedTransaction{
		Slot: 2,
		Meta: &solana.ParsedMeta{
			PostTokenBalances: []solana.TokenBalance{
				postBalance(1, "mint1", token.AMMAuthority, 500),
			},
		},
	}
	rpc.Transactions["swap1"] = poolTx("mint1", 1000, 50)

	resolver := NewResolver(rpc)
	price, err := resolver.PoolPrice(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("PoolPrice: %v", err)
	}
	if price == nil || price.PriceWXNT != 0.05 {
		t.Fatalf("price = %+v, want 0.05 from older swap", price)
	}
}

func TestPoolPrice_NoPool(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Signatures["mint1"] = []solana.SignatureInfo{{Signature: "transfer1"}}
	rpc.Transactions["transfer1"] = &solana.ParsedTransaction{Slot: 1, Meta: &solana.ParsedMeta{}}

	resolver := NewResolver(rpc)
	price, err := resolver.PoolPrice(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("PoolPrice: %v", err)
	}
	if price != nil {
		t.Errorf("price = %+v, want nil", price)
	}
}

func TestPriceChange24h(t *testing.T) {
	rpc := stub.NewRPCClient()
	now := time.Unix(1_800_000_000, 0)
	target := now.Add(-24 * time.Hour).Unix()

	rpc.Signatures["mint1"] = []solana.SignatureInfo{
		{Signature: "recent", BlockTime: i64ptr(now.Unix() - 100)},
		{Signature: "old-swap", BlockTime: i64ptr(target + 1000)},
		{Signature: "ancient", BlockTime: i64ptr(target - 90000)},
	}
	// Price a day ago: 40/1000 = 0.04.
	rpc.Transactions["old-swap"] = poolTx("mint1", 1000, 40)

	resolver := NewResolver(rpc)
	resolver.now = func() time.Time { return now }

	change, ok := resolver.PriceChange24h(context.Background(), "mint1", 0.05)
	if !ok {
		t.Fatal("expected a price change")
	}
	want := (0.05 - 0.04) / 0.04 * 100
	if change != want {
		t.Errorf("change = %v, want %v", change, want)
	}
}

func TestPriceChange24h_RejectsOutliers(t *testing.T) {
	rpc := stub.NewRPCClient()
	now := time.Unix(1_800_000_000, 0)
	target := now.Add(-24 * time.Hour).Unix()

	rpc.Signatures["mint1"] = []solana.SignatureInfo{
		{Signature: "old-swap", BlockTime: i64ptr(target + 100)},
		{Signature: "ancient", BlockTime: i64ptr(target - 90000)},
	}
	// Pool creation artifact: price 1000x away from current.
	rpc.Transactions["old-swap"] = poolTx("mint1", 1, 50)

	resolver := NewResolver(rpc)
	resolver.now = func() time.Time { return now }

	if _, ok := resolver.PriceChange24h(context.Background(), "mint1", 0.05); ok {
		t.Error("expected outlier price to be rejected")
	}
}

func TestPriceChange24h_NoCurrentPrice(t *testing.T) {
	resolver := NewResolver(stub.NewRPCClient())
	if _, ok := resolver.PriceChange24h(context.Background(), "mint1", 0); ok {
		t.Error("expected no change without a current price")
	}
}

func TestVolume24h(t *testing.T) {
	rpc := stub.NewRPCClient()
	now := time.Unix(1_800_000_000, 0)
	cutoff := now.Add(-24 * time.Hour).Unix()

	rpc.Signatures["mint1"] = []solana.SignatureInfo{
		{Signature: "swap1", BlockTime: i64ptr(now.Unix() - 100)},
		{Signature: "swap2", BlockTime: i64ptr(now.Unix() - 200)},
		{Signature: "stale", BlockTime: i64ptr(cutoff - 100)},
	}

	swap := func(pre, post float64) *solana.ParsedTransaction {
		return &solana.ParsedTransaction{
			Slot: 1,
			Meta: &solana.ParsedMeta{
				PreTokenBalances: []solana.TokenBalance{
					postBalance(2, token.WXNTMint, token.AMMAuthority, pre),
				},
				PostTokenBalances: []solana.TokenBalance{
					postBalance(2, token.WXNTMint, token.AMMAuthority, post),
				},
			},
		}
	}
	rpc.Transactions["swap1"] = swap(100, 110) // buy: +10 WXNT
	rpc.Transactions["swap2"] = swap(110, 95)  // sell: -15 WXNT
	rpc.Transactions["stale"] = swap(0, 1000)  // outside the window

	resolver := NewResolver(rpc)
	resolver.now = func() time.Time { return now }

	volume, err := resolver.Volume24h(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("Volume24h: %v", err)
	}
	if volume != 25 {
		t.Errorf("volume = %v, want 25", volume)
	}
}

func TestXNTUSDPrice(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Signatures[token.USDCPoolMint] = []solana.SignatureInfo{{Signature: "usdc-swap"}}
	// 2 WXNT per USDC means 0.5 USD per XNT.
	rpc.Transactions["usdc-swap"] = poolTx(token.USDCPoolMint, 1000, 2000)

	resolver := NewResolver(rpc)
	if price := resolver.XNTUSDPrice(context.Background()); price != 0.5 {
		t.Errorf("xnt/usd = %v, want 0.5", price)
	}
}

func TestXNTUSDPrice_NoPool(t *testing.T) {
	resolver := NewResolver(stub.NewRPCClient())
	if price := resolver.XNTUSDPrice(context.Background()); price != 0 {
		t.Errorf("xnt/usd = %v, want 0", price)
	}
}
