package discovery

import (
	"context"

	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/token"
)

// MintVerifier confirms that an address is a real token mint. Offset
// scanning produces false positives (any 32 bytes look like a pubkey),
// so every candidate is verified on-chain before use.
type MintVerifier interface {
	IsMint(ctx context.Context, address string) (bool, error)
}

// RPCMintVerifier verifies mints by fetching the account and checking
// its owner and size.
type RPCMintVerifier struct {
	rpc solana.RPCClient
}

// NewRPCMintVerifier creates a mint verifier backed by the chain RPC.
func NewRPCMintVerifier(rpc solana.RPCClient) *RPCMintVerifier {
	return &RPCMintVerifier{rpc: rpc}
}

// IsMint reports whether the address holds a token mint account.
func (v *RPCMintVerifier) IsMint(ctx context.Context, address string) (bool, error) {
	account, err := v.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	if account.Owner != token.TokenProgramID && account.Owner != token.Token2022ProgramID {
		return false, nil
	}

	data, err := account.DecodeData()
	if err != nil {
		return false, nil
	}
	return len(data) >= token.MintAccountSize, nil
}

var _ MintVerifier = (*RPCMintVerifier)(nil)
