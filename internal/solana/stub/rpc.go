package stub

import (
	"context"
	"sync"

	"x1-token-scanner/internal/solana"
)

// RPCClient implements solana.RPCClient for testing. All fixture maps
// are keyed by the address or signature the method is called with, and
// every call is counted so tests can assert cache behavior.
type RPCClient struct {
	mu sync.Mutex

	Accounts        map[string]*solana.AccountInfo
	ParsedAccounts  map[string]*solana.ParsedAccountInfo
	Signatures      map[string][]solana.SignatureInfo
	Transactions    map[string]*solana.ParsedTransaction
	ProgramAccounts map[string][]solana.ProgramAccount
	LargestAccounts map[string][]solana.TokenAccountBalance
	OwnerAccounts   map[string][]solana.KeyedParsedAccount
	Supplies        map[string]*solana.TokenSupply
	Slot            int64

	// Errs overrides any method call for the given key with an error.
	Errs map[string]error

	// Calls counts invocations per RPC method name.
	Calls map[string]int
}

// NewRPCClient creates an empty stub client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:        make(map[string]*solana.AccountInfo),
		ParsedAccounts:  make(map[string]*solana.ParsedAccountInfo),
		Signatures:      make(map[string][]solana.SignatureInfo),
		Transactions:    make(map[string]*solana.ParsedTransaction),
		ProgramAccounts: make(map[string][]solana.ProgramAccount),
		LargestAccounts: make(map[string][]solana.TokenAccountBalance),
		OwnerAccounts:   make(map[string][]solana.KeyedParsedAccount),
		Supplies:        make(map[string]*solana.TokenSupply),
		Errs:            make(map[string]error),
		Calls:           make(map[string]int),
	}
}

var _ solana.RPCClient = (*RPCClient)(nil)

func (c *RPCClient) record(method string) {
	c.mu.Lock()
	c.Calls[method]++
	c.mu.Unlock()
}

// CallCount returns how many times the named RPC method was invoked.
func (c *RPCClient) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls[method]
}

func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.record("getAccountInfo")
	if err := c.Errs[pubkey]; err != nil {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

func (c *RPCClient) GetParsedAccountInfo(_ context.Context, pubkey string) (*solana.ParsedAccountInfo, error) {
	c.record("getParsedAccountInfo")
	if err := c.Errs[pubkey]; err != nil {
		return nil, err
	}
	return c.ParsedAccounts[pubkey], nil
}

func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	c.record("getSignaturesForAddress")
	if err := c.Errs[address]; err != nil {
		return nil, err
	}
	sigs := c.Signatures[address]

	if opts != nil && opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		sigs = sigs[:opts.Limit]
	}
	return sigs, nil
}

func (c *RPCClient) GetParsedTransaction(_ context.Context, signature string) (*solana.ParsedTransaction, error) {
	c.record("getTransaction")
	if err := c.Errs[signature]; err != nil {
		return nil, err
	}
	return c.Transactions[signature], nil
}

func (c *RPCClient) GetProgramAccounts(_ context.Context, program string, _ []solana.Filter) ([]solana.ProgramAccount, error) {
	c.record("getProgramAccounts")
	if err := c.Errs[program]; err != nil {
		return nil, err
	}
	return c.ProgramAccounts[program], nil
}

func (c *RPCClient) GetParsedProgramAccounts(_ context.Context, program string, _ []solana.Filter) ([]solana.KeyedParsedAccount, error) {
	c.record("getParsedProgramAccounts")
	if err := c.Errs[program]; err != nil {
		return nil, err
	}
	return c.OwnerAccounts[program], nil
}

func (c *RPCClient) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	c.record("getTokenLargestAccounts")
	if err := c.Errs[mint]; err != nil {
		return nil, err
	}
	return c.LargestAccounts[mint], nil
}

func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, owner string, query solana.TokenAccountsQuery) ([]solana.KeyedParsedAccount, error) {
	c.record("getTokenAccountsByOwner")
	key := owner
	if query.Mint != "" {
		key = owner + "/" + query.Mint
	}
	if err := c.Errs[key]; err != nil {
		return nil, err
	}
	if accts, ok := c.OwnerAccounts[key]; ok {
		return accts, nil
	}
	return c.OwnerAccounts[owner], nil
}

func (c *RPCClient) GetTokenSupply(_ context.Context, mint string) (*solana.TokenSupply, error) {
	c.record("getTokenSupply")
	if err := c.Errs[mint]; err != nil {
		return nil, err
	}
	return c.Supplies[mint], nil
}

func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	c.record("getSlot")
	return c.Slot, nil
}
