package scan

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"x1-token-scanner/internal/burn"
	"x1-token-scanner/internal/discovery"
	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/holders"
	"x1-token-scanner/internal/market"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/solana/stub"
	"x1-token-scanner/internal/storage/memory"
	"x1-token-scanner/internal/token"
)

func testKey(fill byte) string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = fill
	}
	return base58.Encode(raw)
}

func fptr(v float64) *float64 { return &v }
func i64ptr(v int64) *int64   { return &v }

// mintAccount encodes an SPL mint account with the given authorities.
func mintAccount(supply uint64, decimals uint8, mintAuth, freezeAuth bool) []byte {
	data := make([]byte, 82)
	if mintAuth {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		for i := 4; i < 36; i++ {
			data[i] = 0xAA
		}
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	if freezeAuth {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		for i := 50; i < 82; i++ {
			data[i] = 0xBB
		}
	}
	return data
}

func newAnalyzer(rpc *stub.RPCClient, history *memory.ScanHistoryStore) *Analyzer {
	finder := discovery.NewFinder(discovery.FinderOptions{RPC: rpc})
	burnAnalyzer := burn.NewAnalyzer(burn.AnalyzerOptions{
		RPC:    rpc,
		Finder: finder,
		Cache:  memory.NewLPStatusStore(),
		Facts:  memory.NewSupplyFactStore(),
	})

	opts := Options{
		RPC:     rpc,
		Burn:    burnAnalyzer,
		Holders: holders.NewAnalyzer(rpc),
		Market:  market.NewResolver(rpc),
	}
	if history != nil {
		opts.History = history
	}
	return New(opts)
}

func TestAnalyze_InvalidAddress(t *testing.T) {
	analyzer := newAnalyzer(stub.NewRPCClient(), nil)

	_, err := analyzer.Analyze(context.Background(), "not-base58!!")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestAnalyze_NotAToken(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)
	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.SystemProgramID,
		Data:  base64.StdEncoding.EncodeToString(make([]byte, 100)),
	}

	analyzer := newAnalyzer(rpc, nil)
	_, err := analyzer.Analyze(context.Background(), mint)
	if !errors.Is(err, ErrNotAToken) {
		t.Errorf("err = %v, want ErrNotAToken", err)
	}
}

func TestAnalyze_MissingAccount(t *testing.T) {
	analyzer := newAnalyzer(stub.NewRPCClient(), nil)

	_, err := analyzer.Analyze(context.Background(), testKey(1))
	if !errors.Is(err, ErrNotAToken) {
		t.Errorf("err = %v, want ErrNotAToken", err)
	}
}

func TestAnalyze_UndecodableMint(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)
	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.TokenProgramID,
		Data:  base64.StdEncoding.EncodeToString(make([]byte, 40)),
	}

	analyzer := newAnalyzer(rpc, nil)
	_, err := analyzer.Analyze(context.Background(), mint)
	if !errors.Is(err, ErrTokenInfoUnavailable) {
		t.Errorf("err = %v, want ErrTokenInfoUnavailable", err)
	}
}

func TestAnalyze_FullReport(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)

	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.TokenProgramID,
		Data:  base64.StdEncoding.EncodeToString(mintAccount(2_000_000_000, 9, true, true)),
	}
	rpc.LargestAccounts[mint] = []solana.TokenAccountBalance{
		{Address: "whale", Amount: "1200000000", Decimals: 9, UIAmount: fptr(1.2)},
	}
	// Creation two days ago drives both age and deployer lookup.
	created := time.Now().Add(-48 * time.Hour).Unix()
	rpc.Signatures[mint] = []solana.SignatureInfo{
		{Signature: "create", BlockTime: i64ptr(created)},
	}
	rpc.Transactions["create"] = &solana.ParsedTransaction{
		Slot: 1,
		Message: &solana.ParsedMessage{
			AccountKeys: []solana.AccountKey{{Pubkey: "deployer-wallet", Signer: true}},
		},
	}

	history := memory.NewScanHistoryStore()
	analyzer := newAnalyzer(rpc, history)

	report, err := analyzer.Analyze(context.Background(), mint)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.TotalSupply != 2 {
		t.Errorf("total supply = %v, want 2", report.TotalSupply)
	}
	if !report.MintAuthorityEnabled() || !report.FreezeAuthorityEnabled() {
		t.Error("expected both authorities enabled")
	}
	if report.Holders.TopHolderPercent != 60 {
		t.Errorf("top holder = %v, want 60", report.Holders.TopHolderPercent)
	}
	if report.Age != "2d" {
		t.Errorf("age = %q, want 2d", report.Age)
	}
	if report.Deployer == nil || report.Deployer.Address != "deployer-wallet" {
		t.Errorf("deployer = %+v, want deployer-wallet", report.Deployer)
	}

	// Both authorities 25+25, top holder >50 +20, no LP +15 = 85.
	if report.RiskScore != 85 {
		t.Errorf("risk score = %d, want 85", report.RiskScore)
	}
	if report.RiskLevel != domain.RiskCritical {
		t.Errorf("risk level = %q, want %q", report.RiskLevel, domain.RiskCritical)
	}

	recs, err := history.GetByMint(context.Background(), mint, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("history records = %d, want 1", len(recs))
	}
	if recs[0].RiskScore != 85 || recs[0].RiskLevel != domain.RiskCritical {
		t.Errorf("recorded scan = %+v", recs[0])
	}
}

func TestAnalyze_CleanToken(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)

	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.TokenProgramID,
		Data:  base64.StdEncoding.EncodeToString(mintAccount(1_000_000_000, 9, false, false)),
	}
	rpc.LargestAccounts[mint] = []solana.TokenAccountBalance{
		{Address: "holder", Amount: "50000000", Decimals: 9, UIAmount: fptr(0.05)},
	}

	analyzer := newAnalyzer(rpc, nil)
	report, err := analyzer.Analyze(context.Background(), mint)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.MintAuthorityEnabled() || report.FreezeAuthorityEnabled() {
		t.Error("expected both authorities revoked")
	}
	// Only the no-LP penalty applies.
	if report.RiskScore != 15 {
		t.Errorf("risk score = %d, want 15", report.RiskScore)
	}
	if report.RiskLevel != domain.RiskSafe {
		t.Errorf("risk level = %q, want %q", report.RiskLevel, domain.RiskSafe)
	}
}

func TestAnalyze_TokenListOverride(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)
	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.TokenProgramID,
		Data:  base64.StdEncoding.EncodeToString(mintAccount(1_000_000_000, 9, false, false)),
	}

	finder := discovery.NewFinder(discovery.FinderOptions{RPC: rpc})
	analyzer := New(Options{
		RPC: rpc,
		Burn: burn.NewAnalyzer(burn.AnalyzerOptions{
			RPC:    rpc,
			Finder: finder,
			Cache:  memory.NewLPStatusStore(),
			Facts:  memory.NewSupplyFactStore(),
		}),
		Holders:   holders.NewAnalyzer(rpc),
		Market:    market.NewResolver(rpc),
		TokenList: TokenList{mint: {Name: "Listed Token", Symbol: "LST"}},
	})

	report, err := analyzer.Analyze(context.Background(), mint)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Name != "Listed Token" || report.Symbol != "LST" {
		t.Errorf("identity = %q/%q, want Listed Token/LST", report.Name, report.Symbol)
	}
}

func TestAnalyze_EmbeddedMetadata(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := testKey(1)
	rpc.Accounts[mint] = &solana.AccountInfo{
		Owner: token.Token2022ProgramID,
		Data:  base64.StdEncoding.EncodeToString(mintAccount(1_000_000_000, 9, false, false)),
	}
	rpc.ParsedAccounts[mint] = &solana.ParsedAccountInfo{
		Owner: token.Token2022ProgramID,
		Parsed: &solana.ParsedData{
			Program: "spl-token-2022",
			Type:    "mint",
			Info: []byte(`{
				"decimals": 9,
				"supply": "1000000000",
				"isInitialized": true,
				"extensions": [
					{"extension": "tokenMetadata",
					 "state": {"name": "Embedded", "symbol": "EMB", "uri": "https://x.test/m.json"}}
				]
			}`),
		},
	}

	analyzer := newAnalyzer(rpc, nil)
	report, err := analyzer.Analyze(context.Background(), mint)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Name != "Embedded" || report.Symbol != "EMB" {
		t.Errorf("identity = %q/%q, want Embedded/EMB", report.Name, report.Symbol)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Minute, "<1h"},
		{5 * time.Hour, "5h"},
		{3 * 24 * time.Hour, "3d"},
		{45 * 24 * time.Hour, "1mo"},
		{400 * 24 * time.Hour, "1y"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.age); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}
