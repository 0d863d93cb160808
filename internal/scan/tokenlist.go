package scan

import (
	"encoding/json"
	"os"
)

// TokenListEntry is a static identity override for one mint.
type TokenListEntry struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// TokenList maps mint addresses to curated identities, used to fill in
// or override absent on-chain metadata.
type TokenList map[string]TokenListEntry

// LoadTokenList reads a token list JSON file. A missing or unreadable
// file yields an empty list; the override source is optional.
func LoadTokenList(path string) TokenList {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TokenList{}
	}
	var list TokenList
	if err := json.Unmarshal(raw, &list); err != nil {
		return TokenList{}
	}
	return list
}
