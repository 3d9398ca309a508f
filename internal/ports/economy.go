package ports

import "context"

// WalletUpdate represents a single points change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort settles per-player points when a game completes.
type EconomyPort interface {
	// UpdateBalances applies multiple wallet changes atomically.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
