package solana

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// Failed reports whether the transaction errored on-chain.
func (s *SignatureInfo) Failed() bool {
	return s.Err != nil
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// AccountInfo is raw account state with base64-encoded data.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
	RentEpoch  uint64
}

// DecodeData decodes the base64 account payload.
func (a *AccountInfo) DecodeData() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return raw, nil
}

// ParsedAccountInfo is account state with jsonParsed-encoded data.
// Parsed is nil when the endpoint could not interpret the account
// (the data falls back to base64 in that case).
type ParsedAccountInfo struct {
	Lamports uint64
	Owner    string
	Parsed   *ParsedData
}

// ParsedData is the jsonParsed account payload, flattened from the
// wire shape {"program": ..., "parsed": {"type": ..., "info": ...}}.
type ParsedData struct {
	Program string
	Type    string
	Info    json.RawMessage
}

func (d *ParsedData) UnmarshalJSON(data []byte) error {
	var wire struct {
		Program string `json:"program"`
		Parsed  struct {
			Type string          `json:"type"`
			Info json.RawMessage `json:"info"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.Program = wire.Program
	d.Type = wire.Parsed.Type
	d.Info = wire.Parsed.Info
	return nil
}

// IsMint reports whether the parsed account is a token mint.
func (p *ParsedAccountInfo) IsMint() bool {
	return p.Parsed != nil && p.Parsed.Type == "mint"
}

// MintInfo decodes the parsed payload as token mint state.
func (p *ParsedAccountInfo) MintInfo() (*ParsedMintInfo, error) {
	if p.Parsed == nil {
		return nil, fmt.Errorf("account data not parsed")
	}
	var info ParsedMintInfo
	if err := json.Unmarshal(p.Parsed.Info, &info); err != nil {
		return nil, fmt.Errorf("unmarshal mint info: %w", err)
	}
	return &info, nil
}

// TokenAccountInfo decodes the parsed payload as a token account.
func (p *ParsedAccountInfo) TokenAccountInfo() (*ParsedTokenAccountInfo, error) {
	if p.Parsed == nil {
		return nil, fmt.Errorf("account data not parsed")
	}
	var info ParsedTokenAccountInfo
	if err := json.Unmarshal(p.Parsed.Info, &info); err != nil {
		return nil, fmt.Errorf("unmarshal token account info: %w", err)
	}
	return &info, nil
}

// ParsedMintInfo is jsonParsed token mint state.
type ParsedMintInfo struct {
	Decimals        uint8           `json:"decimals"`
	Supply          string          `json:"supply"`
	MintAuthority   string          `json:"mintAuthority"`
	FreezeAuthority string          `json:"freezeAuthority"`
	IsInitialized   bool            `json:"isInitialized"`
	Extensions      []MintExtension `json:"extensions"`
}

// MintExtension is a token-2022 mint extension entry.
type MintExtension struct {
	Extension string          `json:"extension"`
	State     json.RawMessage `json:"state"`
}

// TokenMetadataExtension is the embedded token-2022 metadata state.
type TokenMetadataExtension struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// ParsedTokenAccountInfo is jsonParsed token account state.
type ParsedTokenAccountInfo struct {
	Mint        string        `json:"mint"`
	Owner       string        `json:"owner"`
	TokenAmount UITokenAmount `json:"tokenAmount"`
}

// UITokenAmount is the standard token amount triple.
type UITokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// Value returns the UI amount, zero when absent.
func (a *UITokenAmount) Value() float64 {
	if a.UIAmount == nil {
		return 0
	}
	return *a.UIAmount
}

// TokenAccountBalance is one entry from getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address        string   `json:"address"`
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// UIValue returns the UI amount, zero when absent.
func (b *TokenAccountBalance) UIValue() float64 {
	if b.UIAmount == nil {
		return 0
	}
	return *b.UIAmount
}

// KeyedParsedAccount pairs an account address with jsonParsed state.
type KeyedParsedAccount struct {
	Pubkey  string
	Account ParsedAccountInfo
}

// ProgramAccount pairs an account address with raw base64 state.
type ProgramAccount struct {
	Pubkey  string
	Account AccountInfo
}

// Memcmp is a byte-equality filter at a fixed offset.
// Bytes is base58-encoded.
type Memcmp struct {
	Offset int    `json:"offset"`
	Bytes  string `json:"bytes"`
}

// Filter is a getProgramAccounts account filter.
type Filter struct {
	Memcmp   *Memcmp `json:"memcmp,omitempty"`
	DataSize *int    `json:"dataSize,omitempty"`
}

// MemcmpFilter builds a byte-equality filter.
func MemcmpFilter(offset int, base58Bytes string) Filter {
	return Filter{Memcmp: &Memcmp{Offset: offset, Bytes: base58Bytes}}
}

// DataSizeFilter builds an account-size filter.
func DataSizeFilter(size int) Filter {
	return Filter{DataSize: &size}
}

// ParsedTransaction is a transaction fetched with jsonParsed encoding.
type ParsedTransaction struct {
	Slot      int64
	BlockTime *int64
	Meta      *ParsedMeta
	Message   *ParsedMessage
}

// ParsedMeta holds transaction metadata with token balance snapshots.
type ParsedMeta struct {
	Err               interface{}             `json:"err"`
	Fee               uint64                  `json:"fee"`
	PreTokenBalances  []TokenBalance          `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance          `json:"postTokenBalances"`
	InnerInstructions []InnerInstructionGroup `json:"innerInstructions"`
}

// TokenBalance is a pre/post token balance snapshot entry.
type TokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// InnerInstructionGroup groups inner instructions by outer index.
type InnerInstructionGroup struct {
	Index        int                 `json:"index"`
	Instructions []ParsedInstruction `json:"instructions"`
}

// ParsedMessage holds account keys and top-level instructions.
type ParsedMessage struct {
	AccountKeys  []AccountKey        `json:"accountKeys"`
	Instructions []ParsedInstruction `json:"instructions"`
}

// AccountKey is one message account entry (jsonParsed shape).
type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// ParsedInstruction is a single instruction; Parsed is nil when the
// endpoint could not interpret the program's instruction layout.
type ParsedInstruction struct {
	Program   string           `json:"program"`
	ProgramID string           `json:"programId"`
	Parsed    *InstructionData `json:"parsed"`
}

// InstructionData is the jsonParsed instruction payload.
type InstructionData struct {
	Type string          `json:"type"`
	Info InstructionInfo `json:"info"`
}

// InstructionInfo carries the union of fields the analyses inspect.
// Unused fields are simply absent for a given instruction type.
type InstructionInfo struct {
	Mint        string         `json:"mint"`
	Amount      string         `json:"amount"`
	TokenAmount *UITokenAmount `json:"tokenAmount"`
	Authority   string         `json:"authority"`
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Account     string         `json:"account"`
}

// UnmarshalJSON tolerates non-object parsed payloads (some programs emit
// plain strings there).
func (d *InstructionData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '{' {
		return nil
	}
	type alias InstructionData
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = InstructionData(a)
	return nil
}

// AllInstructions returns top-level instructions followed by every inner
// instruction, in order.
func (tx *ParsedTransaction) AllInstructions() []ParsedInstruction {
	var all []ParsedInstruction
	if tx.Message != nil {
		all = append(all, tx.Message.Instructions...)
	}
	if tx.Meta != nil {
		for _, group := range tx.Meta.InnerInstructions {
			all = append(all, group.Instructions...)
		}
	}
	return all
}

// FeePayer returns the first signer account key, or empty.
func (tx *ParsedTransaction) FeePayer() string {
	if tx.Message == nil {
		return ""
	}
	for _, key := range tx.Message.AccountKeys {
		if key.Signer {
			return key.Pubkey
		}
	}
	if len(tx.Message.AccountKeys) > 0 {
		return tx.Message.AccountKeys[0].Pubkey
	}
	return ""
}

// TokenSupply is the getTokenSupply result value.
type TokenSupply struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// Value returns the UI supply, zero when absent.
func (s *TokenSupply) Value() float64 {
	if s.UIAmount == nil {
		return 0
	}
	return *s.UIAmount
}
