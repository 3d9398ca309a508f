package nakama

const (
	// RpcCreateGame creates a match and returns its id and join code.
	RpcCreateGame = "create_game"
	// RpcJoinGame resolves a join code to a game id.
	RpcJoinGame = "join_game"
	// RpcGetGameData returns the caller's scoped view of a game.
	RpcGetGameData = "get_game_data"

	// MatchNameFish is the authoritative match handler name registered with
	// Nakama.
	MatchNameFish = "fish_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpCreateTeams  int64 = 1
	OpStartGame    int64 = 2
	OpAskCard      int64 = 3
	OpClaimBook    int64 = 4
	OpTransferTurn int64 = 5
	OpGetState     int64 = 6

	// Server -> Client events
	OpPlayerJoined     int64 = 101
	OpAllPlayersJoined int64 = 102
	OpTeamsCreated     int64 = 103
	OpCardsDealt       int64 = 104 // sent privately
	OpCardAsked        int64 = 105
	OpBookClaimed      int64 = 106
	OpTurnTransferred  int64 = 107
	OpGameCompleted    int64 = 108
	OpStateSnapshot    int64 = 109 // sent privately
	OpGameError        int64 = 110 // sent privately
)
