package nakama

// Client request payloads, all JSON.

type CreateTeamsRequest struct {
	Assignment map[string]string `json:"assignment"` // playerID -> teamID
}

type StartGameRequest struct {
	BookType string `json:"book_type"`
	DeckSize int    `json:"deck_size"`
}

type AskCardRequest struct {
	TargetID string `json:"target_id"`
	CardID   string `json:"card_id"`
}

type ClaimBookRequest struct {
	BookID string            `json:"book_id"`
	Owners map[string]string `json:"owners"` // cardID -> playerID
}

type TransferTurnRequest struct {
	TargetID string `json:"target_id"`
}

// Label is the advertised match label used by listing queries.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// ErrorPayload is sent privately on a rejected command.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPC payloads.

type CreateGameRequest struct {
	PlayerCount int `json:"player_count"`
	TeamCount   int `json:"team_count"`
}

type CreateGameResponse struct {
	GameID   string `json:"game_id"`
	JoinCode string `json:"join_code"`
}

type JoinGameRequest struct {
	Code string `json:"code"`
}

type JoinGameResponse struct {
	GameID string `json:"game_id"`
}

type GetGameDataRequest struct {
	GameID string `json:"game_id"`
}
