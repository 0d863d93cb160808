// Package token holds chain constants and binary account decoders for
// SPL-compatible token programs on the X1 network.
package token

// Well-known program IDs.
const (
	TokenProgramID     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	ATAProgramID       = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetadataProgramID  = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	SystemProgramID    = "11111111111111111111111111111111"
)

// XDEX AMM addresses.
const (
	AMMProgramID = "sEsYH97wqmfnkzHedjNcw3zyJdPvUmsa9AixhS4b4fN"
	AMMAuthority = "9Dpjw2pB5kXJr6ZTHiqzEMfJPic3om9jgNacnwpLCoaU"
)

// IncineratorAddress is the conventional burn sink. Tokens held in its
// accounts are unrecoverable and count as burned.
const IncineratorAddress = "1nc1nerator11111111111111111111111111111111"

// Reference mints.
const (
	WXNTMint  = "So11111111111111111111111111111111111111112"
	USDCXMint = "CAJeVEoSm1QQZccnCqYu9cnNF7TTD2fcUA3E5HQoxRvR"

	// USDCPoolMint anchors XNT/USD rate discovery.
	USDCPoolMint     = "B69chRzqzDCmdB5WYB8NRu5Yv5ZA95ABiZcdzCgGm9Tq"
	USDCPoolDecimals = 6
)

// SPL account sizes.
const (
	MintAccountSize  = 82
	TokenAccountSize = 165
)

// metadataV1Key is the account discriminator for Metaplex MetadataV1.
const metadataV1Key = 4

// KnownTokens maps reference mints to display symbols for pair labels.
var KnownTokens = map[string]string{
	WXNTMint:  "WXNT",
	USDCXMint: "USDC.X",
}

// KnownSymbol returns the display symbol for a reference mint,
// or empty when the mint is not a known quote token.
func KnownSymbol(mint string) string {
	return KnownTokens[mint]
}
