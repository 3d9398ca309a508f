package nakama

import (
	"context"
	"database/sql"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the RPCs and the authoritative match handler into the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	start := time.Now()

	if err := initializer.RegisterRpc(RpcCreateGame, RpcCreateGameFn); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcJoinGame, RpcJoinGameFn); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcGetGameData, RpcGetGameDataFn); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameFish, NewMatch); err != nil {
		return err
	}

	logger.Info("Fish module loaded in %dms.", time.Since(start).Milliseconds())
	return nil
}
