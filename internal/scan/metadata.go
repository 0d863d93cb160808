package scan

import (
	"context"
	"encoding/json"

	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

// metadataMintOffset is where the mint pubkey sits in a metadata
// account (1-byte key + 32-byte update authority).
const metadataMintOffset = 33

// tokenIdentity resolves the mint's display name and symbol. Three
// sources are tried in order; the first that yields a name or symbol
// wins:
//
//  1. Token-2022 embedded metadata extension on the mint itself.
//  2. Metadata program accounts filtered by the mint field.
//  3. The derived metadata account address, fetched directly.
//
// Returns nil when no source applies; absence of metadata is common
// and not an error.
func (a *Analyzer) tokenIdentity(ctx context.Context, mint string) *domain.TokenIdentity {
	if id := a.embeddedIdentity(ctx, mint); id != nil {
		return id
	}

	accounts, err := a.rpc.GetProgramAccounts(ctx, token.MetadataProgramID, []solana.Filter{
		solana.MemcmpFilter(metadataMintOffset, mint),
	})
	if err == nil && len(accounts) > 0 {
		if data, err := accounts[0].Account.DecodeData(); err == nil {
			if id := token.DecodeMetadata(data); id != nil {
				return id
			}
		}
	}

	pda := token.DeriveMetadataPDA(mint)
	if pda == "" {
		return nil
	}
	account, err := a.rpc.GetAccountInfo(ctx, pda)
	if err != nil || account == nil {
		return nil
	}
	data, err := account.DecodeData()
	if err != nil {
		return nil
	}
	return token.DecodeMetadata(data)
}

// embeddedIdentity reads the token-2022 tokenMetadata extension off
// the mint's jsonParsed state.
func (a *Analyzer) embeddedIdentity(ctx context.Context, mint string) *domain.TokenIdentity {
	parsed, err := a.rpc.GetParsedAccountInfo(ctx, mint)
	if err != nil || parsed == nil || !parsed.IsMint() {
		return nil
	}
	info, err := parsed.MintInfo()
	if err != nil {
		return nil
	}

	for _, ext := range info.Extensions {
		if ext.Extension != "tokenMetadata" {
			continue
		}
		var state solana.TokenMetadataExtension
		if err := json.Unmarshal(ext.State, &state); err != nil {
			continue
		}
		if state.Name == "" && state.Symbol == "" {
			continue
		}
		return &domain.TokenIdentity{Name: state.Name, Symbol: state.Symbol, URI: state.URI}
	}
	return nil
}
