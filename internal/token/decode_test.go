package token

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

// buildMint assembles a raw SPL mint account for decoder tests.
func buildMint(mintAuthOpt uint32, mintAuth []byte, supply uint64, decimals, initialized byte, freezeOpt uint32, freezeAuth []byte) []byte {
	data := make([]byte, MintAccountSize)
	binary.LittleEndian.PutUint32(data[0:4], mintAuthOpt)
	copy(data[4:36], mintAuth)
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = initialized
	binary.LittleEndian.PutUint32(data[46:50], freezeOpt)
	copy(data[50:82], freezeAuth)
	return data
}

func TestDecodeMint(t *testing.T) {
	authority := make([]byte, 32)
	for i := range authority {
		authority[i] = byte(i + 1)
	}

	data := buildMint(1, authority, 1_000_000_000_000, 9, 1, 0, nil)

	state, err := DecodeMint(data)
	if err != nil {
		t.Fatalf("DecodeMint: %v", err)
	}

	if state.Supply != 1_000_000_000_000 {
		t.Errorf("expected supply 1000000000000, got %d", state.Supply)
	}
	if state.Decimals != 9 {
		t.Errorf("expected decimals 9, got %d", state.Decimals)
	}
	if !state.Initialized {
		t.Error("expected initialized")
	}
	if state.MintAuthority == nil {
		t.Fatal("expected mint authority")
	}
	if *state.MintAuthority != base58.Encode(authority) {
		t.Errorf("unexpected mint authority: %s", *state.MintAuthority)
	}
	if state.FreezeAuthority != nil {
		t.Errorf("expected no freeze authority, got %s", *state.FreezeAuthority)
	}
}

func TestDecodeMint_RevokedAuthorities(t *testing.T) {
	// Stale authority bytes with option flag 0 must be ignored
	garbage := make([]byte, 32)
	for i := range garbage {
		garbage[i] = 0xEE
	}

	data := buildMint(0, garbage, 500, 6, 1, 0, garbage)

	state, err := DecodeMint(data)
	if err != nil {
		t.Fatalf("DecodeMint: %v", err)
	}

	if state.MintAuthority != nil {
		t.Errorf("expected revoked mint authority, got %s", *state.MintAuthority)
	}
	if state.FreezeAuthority != nil {
		t.Errorf("expected revoked freeze authority, got %s", *state.FreezeAuthority)
	}
}

func TestDecodeMint_OptionFlagNotOne(t *testing.T) {
	// Option values other than 1 do not mean present
	data := buildMint(2, make([]byte, 32), 0, 0, 1, 7, make([]byte, 32))

	state, err := DecodeMint(data)
	if err != nil {
		t.Fatalf("DecodeMint: %v", err)
	}

	if state.MintAuthority != nil {
		t.Error("option flag 2 should not yield an authority")
	}
	if state.FreezeAuthority != nil {
		t.Error("option flag 7 should not yield an authority")
	}
}

func TestDecodeMint_TooShort(t *testing.T) {
	_, err := DecodeMint(make([]byte, 81))
	if !errors.Is(err, ErrMalformedAccount) {
		t.Errorf("expected ErrMalformedAccount, got %v", err)
	}

	_, err = DecodeMint(nil)
	if !errors.Is(err, ErrMalformedAccount) {
		t.Errorf("expected ErrMalformedAccount for nil, got %v", err)
	}
}

func TestDecodeTokenAccount(t *testing.T) {
	mintKey := make([]byte, 32)
	ownerKey := make([]byte, 32)
	mintKey[0] = 1
	ownerKey[0] = 2

	data := make([]byte, TokenAccountSize)
	copy(data[0:32], mintKey)
	copy(data[32:64], ownerKey)
	binary.LittleEndian.PutUint64(data[64:72], 42_000)

	mint, owner, amount, err := DecodeTokenAccount(data)
	if err != nil {
		t.Fatalf("DecodeTokenAccount: %v", err)
	}

	if mint != base58.Encode(mintKey) {
		t.Errorf("unexpected mint: %s", mint)
	}
	if owner != base58.Encode(ownerKey) {
		t.Errorf("unexpected owner: %s", owner)
	}
	if amount != 42_000 {
		t.Errorf("expected amount 42000, got %d", amount)
	}
}

func TestDecodeTokenAccount_TooShort(t *testing.T) {
	_, _, _, err := DecodeTokenAccount(make([]byte, 71))
	if !errors.Is(err, ErrMalformedAccount) {
		t.Errorf("expected ErrMalformedAccount, got %v", err)
	}
}

// buildMetadata assembles a Metaplex metadata account with padded
// borsh string fields, matching the on-chain fixed-width encoding.
func buildMetadata(key byte, name, symbol, uri string) []byte {
	data := make([]byte, 0, 300)
	data = append(data, key)
	data = append(data, make([]byte, 64)...) // update authority + mint

	appendPadded := func(s string, width int) {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(width))
		data = append(data, lenBuf...)
		field := make([]byte, width)
		copy(field, s)
		data = append(data, field...)
	}

	appendPadded(name, 32)
	appendPadded(symbol, 10)
	appendPadded(uri, 200)
	return data
}

func TestDecodeMetadata(t *testing.T) {
	data := buildMetadata(4, "My Token", "MTK", "https://example.com/meta.json")

	identity := DecodeMetadata(data)
	if identity == nil {
		t.Fatal("expected identity, got nil")
	}

	if identity.Name != "My Token" {
		t.Errorf("unexpected name: %q", identity.Name)
	}
	if identity.Symbol != "MTK" {
		t.Errorf("unexpected symbol: %q", identity.Symbol)
	}
	if identity.URI != "https://example.com/meta.json" {
		t.Errorf("unexpected uri: %q", identity.URI)
	}
}

func TestDecodeMetadata_WrongKey(t *testing.T) {
	data := buildMetadata(1, "My Token", "MTK", "")
	if identity := DecodeMetadata(data); identity != nil {
		t.Errorf("expected nil for non-MetadataV1 key, got %+v", identity)
	}
}

func TestDecodeMetadata_Empty(t *testing.T) {
	data := buildMetadata(4, "", "", "https://example.com")
	if identity := DecodeMetadata(data); identity != nil {
		t.Errorf("expected nil when name and symbol empty, got %+v", identity)
	}

	if identity := DecodeMetadata(make([]byte, 50)); identity != nil {
		t.Errorf("expected nil for short account, got %+v", identity)
	}
}

func TestDecodeMetadata_GarbageLength(t *testing.T) {
	// Length prefix far beyond the field cap must be clamped
	data := buildMetadata(4, "Tok", "T", "")
	binary.LittleEndian.PutUint32(data[65:69], 4_000_000_000)

	identity := DecodeMetadata(data)
	if identity == nil {
		t.Fatal("expected identity despite garbage length")
	}
	if identity.Name != "Tok" {
		t.Errorf("unexpected name: %q", identity.Name)
	}
}

func TestValidAddress(t *testing.T) {
	if !ValidAddress(TokenProgramID) {
		t.Error("token program ID should be valid")
	}
	if !ValidAddress(IncineratorAddress) {
		t.Error("incinerator address should be valid")
	}
	if ValidAddress("") {
		t.Error("empty string should be invalid")
	}
	if ValidAddress("notbase58!!!") {
		t.Error("non-base58 string should be invalid")
	}
	if ValidAddress("abc") {
		t.Error("short string should be invalid")
	}
}

func TestTruncateAddress(t *testing.T) {
	if got := TruncateAddress("So11111111111111111111111111111111111111112"); got != "So1111..." {
		t.Errorf("unexpected truncation: %s", got)
	}
	if got := TruncateAddress("abc"); got != "abc" {
		t.Errorf("short address should pass through, got %s", got)
	}
}

func TestDeriveMetadataPDA(t *testing.T) {
	pda := DeriveMetadataPDA(WXNTMint)
	if pda == "" {
		t.Fatal("expected PDA for valid mint")
	}
	if !ValidAddress(pda) {
		t.Errorf("derived PDA is not a valid address: %s", pda)
	}

	// Deterministic
	if again := DeriveMetadataPDA(WXNTMint); again != pda {
		t.Errorf("derivation not deterministic: %s vs %s", pda, again)
	}

	if pda := DeriveMetadataPDA("invalid"); pda != "" {
		t.Errorf("expected empty for invalid mint, got %s", pda)
	}
}
