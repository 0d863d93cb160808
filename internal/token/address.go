package token

import "github.com/mr-tron/base58"

// ValidAddress reports whether s is a base58-encoded 32-byte public key.
func ValidAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}

// TruncateAddress shortens an address for display: first 6 characters
// followed by an ellipsis marker.
func TruncateAddress(s string) string {
	if len(s) <= 6 {
		return s
	}
	return s[:6] + "..."
}
