package app

import "fish/internal/domain"

// EventKind identifies emitted game events for dispatch.
type EventKind string

const (
	EventPlayerJoined     EventKind = "player_joined"
	EventAllPlayersJoined EventKind = "all_players_joined"
	EventTeamsCreated     EventKind = "teams_created"
	EventCardsDealt       EventKind = "cards_dealt"
	EventCardAsked        EventKind = "card_asked"
	EventBookClaimed      EventKind = "book_claimed"
	EventTurnTransferred  EventKind = "turn_transferred"
	EventGameCompleted    EventKind = "game_completed"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player ids; empty means broadcast
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	IsBot    bool   `json:"is_bot"`
	Seat     int    `json:"seat"`
}

type AllPlayersJoinedPayload struct {
	PlayerOrder []string `json:"player_order"`
}

type TeamsCreatedPayload struct {
	Teams map[string]*domain.Team `json:"teams"`
	Auto  bool                    `json:"auto"`
}

// CardsDealtPayload is player-scoped: it carries only the recipient's hand.
type CardsDealtPayload struct {
	PlayerID  string         `json:"player_id"`
	Hand      []string       `json:"hand"`
	Counts    map[string]int `json:"counts"`
	FirstTurn string         `json:"first_turn"`
}

type CardAskedPayload struct {
	AskerID  string `json:"asker_id"`
	TargetID string `json:"target_id"`
	CardID   string `json:"card_id"`
	Success  bool   `json:"success"`
	NextTurn string `json:"next_turn"`
}

type BookClaimedPayload struct {
	ClaimerID     string            `json:"claimer_id"`
	BookID        string            `json:"book_id"`
	Success       bool              `json:"success"`
	Claimed       map[string]string `json:"claimed"`
	Actual        map[string]string `json:"actual"`
	AwardedTeamID string            `json:"awarded_team_id"`
	NextTurn      string            `json:"next_turn"`
}

type TurnTransferredPayload struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

type GameCompletedPayload struct {
	Teams   map[string]*domain.Team          `json:"teams"`
	Metrics map[string]*domain.PlayerMetrics `json:"metrics"`
	Winners []string                         `json:"winners"` // team ids with the top score
}
