package scan

import "errors"

var (
	// ErrInvalidAddress means the input does not decode as a 32-byte
	// base58 address.
	ErrInvalidAddress = errors.New("invalid mint address")

	// ErrNotAToken means the account exists but is not owned by a
	// recognized token program.
	ErrNotAToken = errors.New("address is not a token mint")

	// ErrTokenInfoUnavailable means the mint account could not be
	// fetched or decoded. Nothing can be analyzed without it.
	ErrTokenInfoUnavailable = errors.New("token information unavailable")
)
