package nakama

import (
	"context"
	"fmt"

	"fish/internal/ports"
)

// walletAPI is the slice of runtime.NakamaModule the adapter needs.
type walletAPI interface {
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error)
}

// EconomyAdapter implements ports.EconomyPort using Nakama's wallet system,
// crediting end-of-game points.
type EconomyAdapter struct {
	nk walletAPI
}

// NewEconomyAdapter creates a new economy adapter.
func NewEconomyAdapter(nk walletAPI) *EconomyAdapter {
	return &EconomyAdapter{nk: nk}
}

// UpdateBalances applies multiple wallet changes.
func (a *EconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}

		changes := map[string]int64{"points": update.Amount}
		if _, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true); err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.EconomyPort = (*EconomyAdapter)(nil)
