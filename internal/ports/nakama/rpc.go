package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"fish/internal/app"
	"fish/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC-style codes used with runtime.NewError.
const (
	errCodeInvalidArgument = 3
	errCodeNotFound        = 5
	errCodeInternal        = 13
	errCodeUnauthenticated = 16
)

func callerID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("No User ID Found!", errCodeUnauthenticated)
	}
	return userID, nil
}

// RpcCreateGameFn creates a fresh authoritative match and returns its id and
// shareable join code. The match actor does the durable writes during init.
func RpcCreateGameFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := callerID(ctx); err != nil {
		return "", err
	}

	var req CreateGameRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Malformed Request!", errCodeInvalidArgument)
		}
	}

	joinCode := GenerateJoinCode()
	params := map[string]interface{}{"join_code": joinCode}
	if req.PlayerCount > 0 {
		params["player_count"] = req.PlayerCount
	}
	if req.TeamCount > 0 {
		params["team_count"] = req.TeamCount
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameFish, params)
	if err != nil {
		logger.Error("RpcCreateGame: Match create failed: %v", err)
		return "", runtime.NewError("Cannot Create Game!", errCodeInternal)
	}

	resp, err := json.Marshal(CreateGameResponse{GameID: matchID, JoinCode: joinCode})
	if err != nil {
		return "", runtime.NewError("Cannot Create Game!", errCodeInternal)
	}
	return string(resp), nil
}

// RpcJoinGameFn resolves a join code to the match id the client should join.
// Without a code it falls back to listing open matches by label.
func RpcJoinGameFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := callerID(ctx); err != nil {
		return "", err
	}

	var req JoinGameRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Malformed Request!", errCodeInvalidArgument)
		}
	}

	var gameID string
	if req.Code != "" {
		id, err := NewStorageAdapter(nk).ResolveJoinCode(ctx, req.Code)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return "", runtime.NewError("Game Not Found!", errCodeNotFound)
			}
			logger.Error("RpcJoinGame: Lookup failed: %v", err)
			return "", runtime.NewError("Cannot Join Game!", errCodeInternal)
		}
		gameID = id
	} else {
		minSize, maxSize := 1, app.MaxPlayers
		matches, err := nk.MatchList(ctx, 1, true, "", &minSize, &maxSize, "+label.open:true +label.game:fish")
		if err != nil {
			logger.Error("RpcJoinGame: Match list failed: %v", err)
			return "", runtime.NewError("Cannot Join Game!", errCodeInternal)
		}
		if len(matches) == 0 {
			return "", runtime.NewError("No Open Game Found!", errCodeNotFound)
		}
		gameID = matches[0].GetMatchId()
	}

	resp, err := json.Marshal(JoinGameResponse{GameID: gameID})
	if err != nil {
		return "", runtime.NewError("Cannot Join Game!", errCodeInternal)
	}
	return string(resp), nil
}

// RpcGetGameDataFn returns the caller's scoped view of a stored game. The
// authoritative owner map never leaves the server.
func RpcGetGameDataFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}

	var req GetGameDataRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("Malformed Request!", errCodeInvalidArgument)
	}

	game, err := NewStorageAdapter(nk).LoadGame(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", runtime.NewError("Game Not Found!", errCodeNotFound)
		}
		logger.Error("RpcGetGameData: Load failed: %v", err)
		return "", runtime.NewError("Cannot Load Game!", errCodeInternal)
	}

	resp, err := json.Marshal(game.ViewFor(userID))
	if err != nil {
		return "", runtime.NewError("Cannot Load Game!", errCodeInternal)
	}
	return string(resp), nil
}
