package solana

import "context"

// AccountNotification is a state change event for a watched account.
type AccountNotification struct {
	Pubkey   string
	Slot     int64
	Lamports uint64
	Owner    string
}

// WSClient receives account change notifications over WebSocket.
type WSClient interface {
	// SubscribeAccount subscribes to state changes of a single account.
	// The returned channel is closed when the client shuts down.
	SubscribeAccount(ctx context.Context, pubkey string) (<-chan AccountNotification, error)

	// UnsubscribeAccount cancels the subscription whose channel is ch.
	// Unsubscribing an unknown channel is a no-op.
	UnsubscribeAccount(ch <-chan AccountNotification) error

	// Close terminates the connection and all subscriptions.
	Close() error
}
