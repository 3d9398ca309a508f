package nakama

import (
	"context"
	"errors"
	"testing"

	"fish/internal/ports"
)

type walletCall struct {
	userID    string
	changeset map[string]int64
}

// fakeWallet records wallet updates in order.
type fakeWallet struct {
	calls   []walletCall
	failing bool
}

func (f *fakeWallet) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	if f.failing {
		return nil, nil, errors.New("wallet down")
	}
	f.calls = append(f.calls, walletCall{userID: userID, changeset: changeset})
	return changeset, nil, nil
}

func TestUpdateBalancesCreditsPoints(t *testing.T) {
	wallet := &fakeWallet{}
	adapter := NewEconomyAdapter(wallet)

	err := adapter.UpdateBalances(context.Background(), []ports.WalletUpdate{
		{UserID: "user-1", Amount: 30},
		{UserID: "user-2", Amount: 0}, // nothing to credit
		{UserID: "user-3", Amount: 10},
	})
	if err != nil {
		t.Fatalf("UpdateBalances error: %v", err)
	}

	if len(wallet.calls) != 2 {
		t.Fatalf("wallet calls = %d, want 2 (zero amounts skipped)", len(wallet.calls))
	}
	if wallet.calls[0].userID != "user-1" || wallet.calls[0].changeset["points"] != 30 {
		t.Fatalf("first call = %+v, want user-1 +30 points", wallet.calls[0])
	}
	if wallet.calls[1].userID != "user-3" || wallet.calls[1].changeset["points"] != 10 {
		t.Fatalf("second call = %+v, want user-3 +10 points", wallet.calls[1])
	}
}

func TestUpdateBalancesPropagatesWalletError(t *testing.T) {
	adapter := NewEconomyAdapter(&fakeWallet{failing: true})

	err := adapter.UpdateBalances(context.Background(), []ports.WalletUpdate{
		{UserID: "user-1", Amount: 5},
	})
	if err == nil {
		t.Fatalf("UpdateBalances swallowed the wallet error")
	}
}
