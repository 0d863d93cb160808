package token

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"x1-token-scanner/internal/domain"
)

// ErrMalformedAccount is returned when account data is too short or
// structurally invalid for the expected layout.
var ErrMalformedAccount = errors.New("malformed account data")

// DecodeMint decodes a raw SPL mint account.
//
// Layout:
//
//	0:4    mint authority option (u32 LE, 1 = present)
//	4:36   mint authority
//	36:44  supply (u64 LE)
//	44     decimals
//	45     is_initialized
//	46:50  freeze authority option (u32 LE)
//	50:82  freeze authority
func DecodeMint(data []byte) (*domain.MintState, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("%w: mint account %d bytes", ErrMalformedAccount, len(data))
	}

	state := &domain.MintState{
		Supply:      binary.LittleEndian.Uint64(data[36:44]),
		Decimals:    data[44],
		Initialized: data[45] != 0,
	}

	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		auth := base58.Encode(data[4:36])
		state.MintAuthority = &auth
	}
	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		auth := base58.Encode(data[50:82])
		state.FreezeAuthority = &auth
	}

	return state, nil
}

// DecodeTokenAccount decodes the mint, owner and raw amount of an SPL
// token account. Only the leading fields are read; extensions past the
// base layout are ignored.
func DecodeTokenAccount(data []byte) (mint, owner string, amount uint64, err error) {
	if len(data) < 72 {
		return "", "", 0, fmt.Errorf("%w: token account %d bytes", ErrMalformedAccount, len(data))
	}
	mint = base58.Encode(data[0:32])
	owner = base58.Encode(data[32:64])
	amount = binary.LittleEndian.Uint64(data[64:72])
	return mint, owner, amount, nil
}

// Metaplex metadata string field caps.
const (
	metaNameCap   = 32
	metaSymbolCap = 10
	metaURICap    = 200
)

// DecodeMetadata decodes a Metaplex token metadata account into a
// token identity. Returns nil when the account holds neither a name
// nor a symbol. Length prefixes are clamped to the field caps since
// on-chain data occasionally carries garbage lengths.
func DecodeMetadata(data []byte) *domain.TokenIdentity {
	if len(data) < 70 {
		return nil
	}
	if data[0] != metadataV1Key {
		return nil
	}

	// key(1) + update authority(32) + mint(32)
	offset := 65

	name, offset := readMetaString(data, offset, metaNameCap)
	symbol, offset := readMetaString(data, offset, metaSymbolCap)
	uri, _ := readMetaString(data, offset, metaURICap)

	if name == "" && symbol == "" {
		return nil
	}

	return &domain.TokenIdentity{Name: name, Symbol: symbol, URI: uri}
}

// readMetaString reads a borsh string (u32 LE length prefix) with the
// length clamped to cap, returning the trimmed value and next offset.
func readMetaString(data []byte, offset, maxLen int) (string, int) {
	if offset+4 > len(data) {
		return "", len(data)
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	if length > maxLen {
		length = maxLen
	}
	if offset+length > len(data) {
		length = len(data) - offset
	}
	if length <= 0 {
		return "", offset
	}

	value := trimNulls(string(data[offset : offset+length]))
	return value, offset + length
}

func trimNulls(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == 0 || s[end-1] == ' ') {
		end--
	}
	start := 0
	for start < end && s[start] == 0 {
		start++
	}
	return s[start:end]
}
