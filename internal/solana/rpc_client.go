package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"x1-token-scanner/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0

	maxTransactionVersion = 0
)

// HTTPClient implements RPCClient using HTTP JSON-RPC 2.0.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new chain RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ RPCClient = (*HTTPClient)(nil)

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// call performs a JSON-RPC call with retries and exponential backoff.
// Network failures are retried and surface wrapped in ErrTransport;
// RPC error envelopes are returned as *RPCError without retrying.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	defer func() {
		observability.RecordRPCLatency(method, time.Since(start).Seconds())
	}()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			observability.DefaultMetrics.RPCRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		if rpcResp.Error != nil {
			// RPC errors are not retried
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("%w: max retries exceeded: %v", ErrTransport, lastErr)
}

// accountData is the polymorphic "data" field of account responses:
// either a [payload, encoding] string pair or a jsonParsed object.
type accountData struct {
	Base64 string
	Parsed *ParsedData
}

func (d *accountData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		var pair []string
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) >= 1 {
			d.Base64 = pair[0]
		}
		return nil
	}
	var parsed ParsedData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	d.Parsed = &parsed
	return nil
}

type accountValue struct {
	Lamports   uint64      `json:"lamports"`
	Owner      string      `json:"owner"`
	Data       accountData `json:"data"`
	Executable bool        `json:"executable"`
	RentEpoch  uint64      `json:"rentEpoch"`
}

type getAccountInfoResult struct {
	Value *accountValue `json:"value"`
}

// GetAccountInfo retrieves raw account state by public key.
// Returns nil if the account does not exist.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	params := []interface{}{
		pubkey,
		map[string]interface{}{"encoding": "base64"},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	return &AccountInfo{
		Lamports:   result.Value.Lamports,
		Owner:      result.Value.Owner,
		Data:       result.Value.Data.Base64,
		Executable: result.Value.Executable,
		RentEpoch:  result.Value.RentEpoch,
	}, nil
}

// GetParsedAccountInfo retrieves jsonParsed account state by public key.
// Returns nil if the account does not exist.
func (c *HTTPClient) GetParsedAccountInfo(ctx context.Context, pubkey string) (*ParsedAccountInfo, error) {
	params := []interface{}{
		pubkey,
		map[string]interface{}{"encoding": "jsonParsed"},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	return &ParsedAccountInfo{
		Lamports: result.Value.Lamports,
		Owner:    result.Value.Owner,
		Parsed:   result.Value.Data.Parsed,
	}, nil
}

// getSignaturesResult is the raw RPC response item for getSignaturesForAddress.
type getSignaturesResult struct {
	Signature string      `json:"signature"`
	Slot      int64       `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// GetSignaturesForAddress retrieves signatures for an address, newest first.
func (c *HTTPClient) GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	config := make(map[string]interface{})
	if opts != nil {
		if opts.Before != "" {
			config["before"] = opts.Before
		}
		if opts.Until != "" {
			config["until"] = opts.Until
		}
		if opts.Limit > 0 {
			config["limit"] = opts.Limit
		}
	}

	params := []interface{}{address}
	if len(config) > 0 {
		params = append(params, config)
	}

	var result []getSignaturesResult
	if err := c.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}

	sigs := make([]SignatureInfo, len(result))
	for i, r := range result {
		sigs[i] = SignatureInfo{
			Signature: r.Signature,
			Slot:      r.Slot,
			BlockTime: r.BlockTime,
			Err:       r.Err,
		}
	}

	return sigs, nil
}

// getParsedTransactionResult is the raw RPC response for getTransaction.
type getParsedTransactionResult struct {
	Slot        int64          `json:"slot"`
	BlockTime   *int64         `json:"blockTime"`
	Meta        *ParsedMeta    `json:"meta"`
	Transaction *parsedTxouter `json:"transaction"`
}

type parsedTxouter struct {
	Message *ParsedMessage `json:"message"`
}

// GetParsedTransaction retrieves a transaction with jsonParsed encoding.
// Returns nil if the transaction is not found.
func (c *HTTPClient) GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": maxTransactionVersion,
		},
	}

	var result getParsedTransactionResult
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}

	if result.Slot == 0 && result.BlockTime == nil {
		// Transaction not found
		return nil, nil
	}

	tx := &ParsedTransaction{
		Slot:      result.Slot,
		BlockTime: result.BlockTime,
		Meta:      result.Meta,
	}
	if result.Transaction != nil {
		tx.Message = result.Transaction.Message
	}
	return tx, nil
}

type programAccountEntry struct {
	Pubkey  string       `json:"pubkey"`
	Account accountValue `json:"account"`
}

// GetProgramAccounts retrieves base64-encoded accounts owned by a program.
func (c *HTTPClient) GetProgramAccounts(ctx context.Context, program string, filters []Filter) ([]ProgramAccount, error) {
	config := map[string]interface{}{"encoding": "base64"}
	if len(filters) > 0 {
		config["filters"] = filters
	}
	params := []interface{}{program, config}

	var result []programAccountEntry
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]ProgramAccount, len(result))
	for i, entry := range result {
		accounts[i] = ProgramAccount{
			Pubkey: entry.Pubkey,
			Account: AccountInfo{
				Lamports:   entry.Account.Lamports,
				Owner:      entry.Account.Owner,
				Data:       entry.Account.Data.Base64,
				Executable: entry.Account.Executable,
				RentEpoch:  entry.Account.RentEpoch,
			},
		}
	}
	return accounts, nil
}

// GetParsedProgramAccounts retrieves jsonParsed accounts owned by a program.
func (c *HTTPClient) GetParsedProgramAccounts(ctx context.Context, program string, filters []Filter) ([]KeyedParsedAccount, error) {
	config := map[string]interface{}{"encoding": "jsonParsed"}
	if len(filters) > 0 {
		config["filters"] = filters
	}
	params := []interface{}{program, config}

	var result []programAccountEntry
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}

	return keyedAccounts(result), nil
}

func keyedAccounts(entries []programAccountEntry) []KeyedParsedAccount {
	accounts := make([]KeyedParsedAccount, len(entries))
	for i, entry := range entries {
		accounts[i] = KeyedParsedAccount{
			Pubkey: entry.Pubkey,
			Account: ParsedAccountInfo{
				Lamports: entry.Account.Lamports,
				Owner:    entry.Account.Owner,
				Parsed:   entry.Account.Data.Parsed,
			},
		}
	}
	return accounts
}

type getTokenLargestAccountsResult struct {
	Value []TokenAccountBalance `json:"value"`
}

// GetTokenLargestAccounts retrieves the 20 largest token accounts for a mint.
func (c *HTTPClient) GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error) {
	params := []interface{}{mint}

	var result getTokenLargestAccountsResult
	if err := c.call(ctx, "getTokenLargestAccounts", params, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

type getTokenAccountsResult struct {
	Value []programAccountEntry `json:"value"`
}

// GetTokenAccountsByOwner retrieves an owner's token accounts, jsonParsed.
func (c *HTTPClient) GetTokenAccountsByOwner(ctx context.Context, owner string, query TokenAccountsQuery) ([]KeyedParsedAccount, error) {
	selector := make(map[string]interface{})
	if query.Mint != "" {
		selector["mint"] = query.Mint
	} else if query.ProgramID != "" {
		selector["programId"] = query.ProgramID
	}

	params := []interface{}{
		owner,
		selector,
		map[string]interface{}{"encoding": "jsonParsed"},
	}

	var result getTokenAccountsResult
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}
	return keyedAccounts(result.Value), nil
}

type getTokenSupplyResult struct {
	Value *TokenSupply `json:"value"`
}

// GetTokenSupply retrieves the current supply for a mint.
func (c *HTTPClient) GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error) {
	params := []interface{}{mint}

	var result getTokenSupplyResult
	if err := c.call(ctx, "getTokenSupply", params, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// GetSlot retrieves the current slot.
func (c *HTTPClient) GetSlot(ctx context.Context) (int64, error) {
	var result int64
	if err := c.call(ctx, "getSlot", nil, &result); err != nil {
		return 0, err
	}
	return result, nil
}
