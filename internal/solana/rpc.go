package solana

import "context"

// TokenAccountsQuery selects token accounts by mint or by owning program.
// Exactly one field should be set.
type TokenAccountsQuery struct {
	Mint      string
	ProgramID string
}

// RPCClient defines the chain RPC surface the analyses consume.
type RPCClient interface {
	// GetAccountInfo retrieves raw account state. Returns nil if the
	// account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetParsedAccountInfo retrieves jsonParsed account state. Returns
	// nil if the account does not exist.
	GetParsedAccountInfo(ctx context.Context, pubkey string) (*ParsedAccountInfo, error)

	// GetSignaturesForAddress retrieves signatures for an address,
	// newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetParsedTransaction retrieves a transaction with jsonParsed
	// instruction encoding. Returns nil if not found.
	GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error)

	// GetProgramAccounts retrieves accounts owned by a program,
	// base64-encoded, matching all filters.
	GetProgramAccounts(ctx context.Context, program string, filters []Filter) ([]ProgramAccount, error)

	// GetParsedProgramAccounts retrieves accounts owned by a program
	// with jsonParsed encoding, matching all filters.
	GetParsedProgramAccounts(ctx context.Context, program string, filters []Filter) ([]KeyedParsedAccount, error)

	// GetTokenLargestAccounts retrieves the 20 largest token accounts
	// for a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// GetTokenAccountsByOwner retrieves an owner's token accounts
	// matching the query, jsonParsed.
	GetTokenAccountsByOwner(ctx context.Context, owner string, query TokenAccountsQuery) ([]KeyedParsedAccount, error)

	// GetTokenSupply retrieves the current supply for a mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)
}
