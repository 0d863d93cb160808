package discovery

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/solana/stub"
	"x1-token-scanner/internal/token"
)

type fakeVerifier struct {
	mints map[string]bool
}

func (f *fakeVerifier) IsMint(_ context.Context, address string) (bool, error) {
	return f.mints[address], nil
}

// poolData builds a synthetic pool account with pubkeys planted at
// specific offsets.
func poolData(size int, keys map[int]string) []byte {
	data := make([]byte, size)
	for offset, key := range keys {
		raw, err := base58.Decode(key)
		if err != nil {
			panic(err)
		}
		copy(data[offset:], raw)
	}
	return data
}

// testKey returns a deterministic 32-byte base58 pubkey.
func testKey(fill byte) string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = fill
	}
	return base58.Encode(raw)
}

func TestFinder_FindPools(t *testing.T) {
	rpc := stub.NewRPCClient()
	targetMint := testKey(1)

	data := poolData(360, map[int]string{200: targetMint})
	rpc.ProgramAccounts[token.AMMProgramID] = []solana.ProgramAccount{
		{
			Pubkey:  "pool1",
			Account: solana.AccountInfo{Data: base64.StdEncoding.EncodeToString(data)},
		},
	}

	finder := NewFinder(FinderOptions{RPC: rpc})

	pools, err := finder.FindPools(context.Background(), targetMint)
	if err != nil {
		t.Fatalf("FindPools: %v", err)
	}

	// One query per offset, but the pool must appear once
	if len(pools) != 1 {
		t.Fatalf("expected 1 pool after dedupe, got %d", len(pools))
	}
	if pools[0].Address != "pool1" {
		t.Errorf("unexpected pool address: %s", pools[0].Address)
	}
	if rpc.CallCount("getProgramAccounts") != len(MintOffsets) {
		t.Errorf("expected %d offset queries, got %d", len(MintOffsets), rpc.CallCount("getProgramAccounts"))
	}
}

func TestFinder_FindPools_NoMatches(t *testing.T) {
	rpc := stub.NewRPCClient()
	finder := NewFinder(FinderOptions{RPC: rpc})

	pools, err := finder.FindPools(context.Background(), testKey(9))
	if err != nil {
		t.Fatalf("FindPools: %v", err)
	}
	if len(pools) != 0 {
		t.Errorf("expected no pools, got %d", len(pools))
	}
}

func TestFinder_ResolveLPMint(t *testing.T) {
	lpMint := testKey(7)
	decoy := testKey(3)

	// Decoy sits at the first offset but fails mint verification;
	// the real LP mint sits at the second
	data := poolData(360, map[int]string{136: decoy, 104: lpMint})

	finder := NewFinder(FinderOptions{
		RPC:      stub.NewRPCClient(),
		Verifier: &fakeVerifier{mints: map[string]bool{lpMint: true}},
	})

	got := finder.ResolveLPMint(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, nil)
	if got != lpMint {
		t.Errorf("expected %s, got %s", lpMint, got)
	}
}

func TestFinder_ResolveLPMint_SkipSet(t *testing.T) {
	target := testKey(1)
	lpMint := testKey(7)

	data := poolData(360, map[int]string{136: target, 104: lpMint})

	finder := NewFinder(FinderOptions{
		RPC:      stub.NewRPCClient(),
		Verifier: &fakeVerifier{mints: map[string]bool{target: true, lpMint: true}},
	})

	// The target mint verifies as a mint but must be skipped
	skip := map[string]bool{target: true}
	got := finder.ResolveLPMint(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, skip)
	if got != lpMint {
		t.Errorf("expected %s, got %s", lpMint, got)
	}
}

func TestFinder_ResolveLPMint_NoneFound(t *testing.T) {
	data := poolData(360, nil) // all zeros

	finder := NewFinder(FinderOptions{
		RPC:      stub.NewRPCClient(),
		Verifier: &fakeVerifier{},
	})

	got := finder.ResolveLPMint(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, nil)
	if got != "" {
		t.Errorf("expected empty LP mint, got %s", got)
	}
}

// metadataAccount builds a base64 Metaplex metadata account holding
// the given symbol, with borsh fixed-width string fields.
func metadataAccount(symbol string) solana.AccountInfo {
	data := make([]byte, 0, 311)
	data = append(data, 4) // MetadataV1 key
	data = append(data, make([]byte, 64)...)

	appendPadded := func(s string, width int) {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(width))
		data = append(data, lenBuf...)
		field := make([]byte, width)
		copy(field, s)
		data = append(data, field...)
	}
	appendPadded("Counter Token", 32)
	appendPadded(symbol, 10)
	appendPadded("", 200)

	return solana.AccountInfo{
		Owner: token.MetadataProgramID,
		Data:  base64.StdEncoding.EncodeToString(data),
	}
}

func TestFinder_PairLabel_KnownQuote(t *testing.T) {
	target := testKey(1)
	data := poolData(360, map[int]string{200: target, 232: token.WXNTMint})

	finder := NewFinder(FinderOptions{RPC: stub.NewRPCClient(), Verifier: &fakeVerifier{}})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != "WXNT" {
		t.Errorf("expected WXNT, got %s", label)
	}
}

func TestFinder_PairLabel_MetadataSymbol(t *testing.T) {
	target := testKey(1)
	counter := testKey(5)
	data := poolData(360, map[int]string{200: target, 232: counter})

	rpc := stub.NewRPCClient()
	meta := metadataAccount("CTR")
	rpc.Accounts[token.DeriveMetadataPDA(counter)] = &meta

	finder := NewFinder(FinderOptions{
		RPC:      rpc,
		Verifier: &fakeVerifier{mints: map[string]bool{counter: true}},
	})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != "CTR" {
		t.Errorf("expected metadata symbol CTR, got %s", label)
	}
}

func TestFinder_PairLabel_TruncatedWithoutMetadata(t *testing.T) {
	target := testKey(1)
	counter := testKey(5)
	data := poolData(360, map[int]string{200: target, 232: counter})

	finder := NewFinder(FinderOptions{
		RPC:      stub.NewRPCClient(),
		Verifier: &fakeVerifier{mints: map[string]bool{counter: true}},
	})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != token.TruncateAddress(counter) {
		t.Errorf("expected truncated address, got %s", label)
	}
}

func TestFinder_PairLabel_RejectsUnverifiedCandidate(t *testing.T) {
	target := testKey(1)
	vault := testKey(6) // plausible pubkey, but not a mint account

	data := poolData(360, map[int]string{200: target, 232: vault})

	finder := NewFinder(FinderOptions{RPC: stub.NewRPCClient(), Verifier: &fakeVerifier{}})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != "Unknown" {
		t.Errorf("expected Unknown for unverified candidate, got %s", label)
	}
}

func TestFinder_PairLabel_SkipsLPMint(t *testing.T) {
	target := testKey(1)
	lpMint := testKey(7)
	data := poolData(360, map[int]string{200: target, 232: lpMint})

	// The LP mint verifies as a mint, but it is the pool's own token
	finder := NewFinder(FinderOptions{
		RPC:      stub.NewRPCClient(),
		Verifier: &fakeVerifier{mints: map[string]bool{lpMint: true}},
	})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, lpMint)
	if label != "Unknown" {
		t.Errorf("expected Unknown when only the LP mint matches, got %s", label)
	}
}

func TestFinder_PairLabel_FallbackToTokenAccounts(t *testing.T) {
	target := testKey(1)
	counter := testKey(5)
	data := poolData(360, nil)

	rpc := stub.NewRPCClient()
	info, _ := json.Marshal(map[string]interface{}{
		"mint":        counter,
		"owner":       "pool1",
		"tokenAmount": map[string]interface{}{"amount": "100", "decimals": 9},
	})
	rpc.OwnerAccounts["pool1"] = []solana.KeyedParsedAccount{
		{
			Pubkey: "acct1",
			Account: solana.ParsedAccountInfo{
				Parsed: &solana.ParsedData{Program: "spl-token", Type: "account", Info: info},
			},
		},
	}

	finder := NewFinder(FinderOptions{RPC: rpc, Verifier: &fakeVerifier{}})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != token.TruncateAddress(counter) {
		t.Errorf("expected truncated counter mint, got %s", label)
	}
}

func TestFinder_PairLabel_Unknown(t *testing.T) {
	target := testKey(1)
	data := poolData(360, nil)

	finder := NewFinder(FinderOptions{RPC: stub.NewRPCClient(), Verifier: &fakeVerifier{}})

	label := finder.PairLabel(context.Background(), domain.PoolCandidate{Address: "pool1", Data: data}, target, "")
	if label != "Unknown" {
		t.Errorf("expected Unknown, got %s", label)
	}
}
