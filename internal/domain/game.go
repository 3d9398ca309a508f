package domain

import (
	"fmt"
	"sort"
)

// Status is the lifecycle stage of a game. Transitions are strictly linear:
// CREATED -> PLAYERS_READY -> TEAMS_CREATED -> IN_PROGRESS -> COMPLETED.
type Status string

const (
	StatusCreated      Status = "CREATED"
	StatusPlayersReady Status = "PLAYERS_READY"
	StatusTeamsCreated Status = "TEAMS_CREATED"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusCompleted    Status = "COMPLETED"
)

// GameConfig fixes the rules of one game for its whole life.
type GameConfig struct {
	PlayerCount int      `json:"player_count"`
	TeamCount   int      `json:"team_count"`
	BookType    BookType `json:"book_type"`
	DeckSize    int      `json:"deck_size"`
}

// Player is a registered participant.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarIndex int    `json:"avatar_index"`
	IsBot       bool   `json:"is_bot"`
	TeamID      string `json:"team_id"`
}

// Team groups players and accumulates claimed books.
type Team struct {
	ID        string   `json:"id"`
	MemberIDs []string `json:"member_ids"`
	Score     int      `json:"score"`
	BooksWon  []string `json:"books_won"`
}

// AskEvent is an immutable history record of one ask move.
type AskEvent struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	AskerID     string `json:"asker_id"`
	TargetID    string `json:"target_id"`
	CardID      string `json:"card_id"`
}

// ClaimEvent records a whole-book claim, including both the declared and the
// actual distribution so observers can fold the reveal into their inference.
type ClaimEvent struct {
	Success       bool              `json:"success"`
	Description   string            `json:"description"`
	ClaimerID     string            `json:"claimer_id"`
	BookID        string            `json:"book_id"`
	Claimed       map[string]string `json:"claimed"`
	Actual        map[string]string `json:"actual"`
	AwardedTeamID string            `json:"awarded_team_id"`
}

// TransferEvent records a turn hand-off after a correct claim at zero cards.
type TransferEvent struct {
	Description string `json:"description"`
	FromID      string `json:"from_id"`
	ToID        string `json:"to_id"`
}

// PlayerMetrics are per-player counters derived incrementally from moves.
type PlayerMetrics struct {
	AsksMade        int `json:"asks_made"`
	CardsTaken      int `json:"cards_taken"`
	CardsGiven      int `json:"cards_given"`
	ClaimsMade      int `json:"claims_made"`
	ClaimsSucceeded int `json:"claims_succeeded"`
}

// GameData is the aggregate root for one game instance. It is owned
// exclusively by the game's match actor; everything that leaves the actor is
// a derived PlayerView. CardOwners is the authoritative card->owner map and
// is never serialized wholesale to clients.
type GameData struct {
	GameID   string     `json:"game_id"`
	JoinCode string     `json:"join_code"`
	Status   Status     `json:"status"`
	Config   GameConfig `json:"config"`

	CurrentTurn string   `json:"current_turn"`
	PlayerOrder []string `json:"player_order"`

	Players map[string]*Player `json:"players"`
	Teams   map[string]*Team   `json:"teams"`

	CardOwners map[string]string `json:"card_owners"`
	CardCounts map[string]int    `json:"card_counts"`

	Books map[string]*BookState `json:"books"`

	AskHistory      []AskEvent      `json:"ask_history"`
	ClaimHistory    []ClaimEvent    `json:"claim_history"`
	TransferHistory []TransferEvent `json:"transfer_history"`

	Metrics map[string]*PlayerMetrics `json:"metrics"`

	// PendingTransfer names the player entitled to a turn transfer after
	// their own correct claim at zero cards. Cleared by any other move.
	PendingTransfer string `json:"pending_transfer"`
}

// NewGameData creates an empty aggregate in CREATED status.
func NewGameData(gameID, joinCode string, cfg GameConfig) *GameData {
	return &GameData{
		GameID:     gameID,
		JoinCode:   joinCode,
		Status:     StatusCreated,
		Config:     cfg,
		Players:    make(map[string]*Player),
		Teams:      make(map[string]*Team),
		CardOwners: make(map[string]string),
		CardCounts: make(map[string]int),
		Books:      make(map[string]*BookState),
		Metrics:    make(map[string]*PlayerMetrics),
	}
}

// HandOf returns the sorted card ids currently held by a player.
func (g *GameData) HandOf(playerID string) []string {
	var hand []string
	for cardID, owner := range g.CardOwners {
		if owner == playerID {
			hand = append(hand, cardID)
		}
	}
	sort.Strings(hand)
	return hand
}

// TeamOf returns the team a player belongs to, or nil before teams exist.
func (g *GameData) TeamOf(playerID string) *Team {
	p, ok := g.Players[playerID]
	if !ok || p.TeamID == "" {
		return nil
	}
	return g.Teams[p.TeamID]
}

// TeamIDsSorted returns team ids in ascending order.
func (g *GameData) TeamIDsSorted() []string {
	ids := make([]string, 0, len(g.Teams))
	for id := range g.Teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OpposingTeamID returns the team a forfeited book is awarded to: the next
// team in ascending id order after the given one, wrapping around.
func (g *GameData) OpposingTeamID(teamID string) string {
	ids := g.TeamIDsSorted()
	for i, id := range ids {
		if id == teamID {
			return ids[(i+1)%len(ids)]
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// SameTeam reports whether two players are teammates.
func (g *GameData) SameTeam(a, b string) bool {
	ta, tb := g.TeamOf(a), g.TeamOf(b)
	return ta != nil && ta == tb
}

// UnresolvedBookIDs returns ids of books not yet claimed, in ascending order.
func (g *GameData) UnresolvedBookIDs() []string {
	var ids []string
	for id, b := range g.Books {
		if b.ResolvedBy == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// NextWithCards returns the next player after the given one in seat order
// still holding cards, or the given player if nobody else does.
func (g *GameData) NextWithCards(after string) string {
	start := 0
	for i, id := range g.PlayerOrder {
		if id == after {
			start = i
			break
		}
	}
	for off := 1; off <= len(g.PlayerOrder); off++ {
		id := g.PlayerOrder[(start+off)%len(g.PlayerOrder)]
		if g.CardCounts[id] > 0 {
			return id
		}
	}
	return after
}

// FirstWithCards returns the first of the given players, in seat order, that
// still holds cards; if none do, it falls back to any seat with cards.
func (g *GameData) FirstWithCards(ids []string) string {
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}
	for _, id := range g.PlayerOrder {
		if member[id] && g.CardCounts[id] > 0 {
			return id
		}
	}
	for _, id := range g.PlayerOrder {
		if g.CardCounts[id] > 0 {
			return id
		}
	}
	return g.CurrentTurn
}

// WinningTeams returns the team ids holding the top score, ascending.
func (g *GameData) WinningTeams() []string {
	best := -1
	for _, t := range g.Teams {
		if t.Score > best {
			best = t.Score
		}
	}
	var winners []string
	for _, id := range g.TeamIDsSorted() {
		if g.Teams[id].Score == best {
			winners = append(winners, id)
		}
	}
	return winners
}

// CheckConservation verifies the deck-partition invariant: every card of the
// configured deck is either held by exactly one player or part of a claimed
// book, with no duplicates.
func (g *GameData) CheckConservation() error {
	if g.Status != StatusInProgress && g.Status != StatusCompleted {
		return nil
	}

	claimed := make(map[string]bool)
	for _, b := range g.Books {
		if b.ResolvedBy == "" {
			continue
		}
		for _, cardID := range CardsOfBook(b.BookID, g.Config.BookType) {
			if claimed[cardID] {
				return fmt.Errorf("card %s claimed twice", cardID)
			}
			claimed[cardID] = true
		}
	}

	for _, c := range NewDeck(g.Config.BookType) {
		id := c.ID()
		owner, held := g.CardOwners[id]
		switch {
		case held && claimed[id]:
			return fmt.Errorf("card %s both held by %s and claimed", id, owner)
		case !held && !claimed[id]:
			return fmt.Errorf("card %s is neither held nor claimed", id)
		case held:
			if _, ok := g.Players[owner]; !ok {
				return fmt.Errorf("card %s owned by unknown player %s", id, owner)
			}
		}
	}

	counts := make(map[string]int)
	for _, owner := range g.CardOwners {
		counts[owner]++
	}
	for playerID := range g.Players {
		if counts[playerID] != g.CardCounts[playerID] {
			return fmt.Errorf("player %s count %d does not match %d held cards",
				playerID, g.CardCounts[playerID], counts[playerID])
		}
	}
	return nil
}

// Clone returns a deep copy. The match actor mutates a clone, persists it,
// and only then swaps it in, so a failed durable write never leaks state.
func (g *GameData) Clone() *GameData {
	out := *g

	out.PlayerOrder = append([]string(nil), g.PlayerOrder...)

	out.Players = make(map[string]*Player, len(g.Players))
	for id, p := range g.Players {
		cp := *p
		out.Players[id] = &cp
	}

	out.Teams = make(map[string]*Team, len(g.Teams))
	for id, t := range g.Teams {
		ct := *t
		ct.MemberIDs = append([]string(nil), t.MemberIDs...)
		ct.BooksWon = append([]string(nil), t.BooksWon...)
		out.Teams[id] = &ct
	}

	out.CardOwners = make(map[string]string, len(g.CardOwners))
	for k, v := range g.CardOwners {
		out.CardOwners[k] = v
	}
	out.CardCounts = make(map[string]int, len(g.CardCounts))
	for k, v := range g.CardCounts {
		out.CardCounts[k] = v
	}

	out.Books = make(map[string]*BookState, len(g.Books))
	for id, b := range g.Books {
		out.Books[id] = b.Clone()
	}

	out.AskHistory = append([]AskEvent(nil), g.AskHistory...)
	out.ClaimHistory = nil
	for _, ev := range g.ClaimHistory {
		out.ClaimHistory = append(out.ClaimHistory, ev.clone())
	}
	out.TransferHistory = append([]TransferEvent(nil), g.TransferHistory...)

	out.Metrics = make(map[string]*PlayerMetrics, len(g.Metrics))
	for id, m := range g.Metrics {
		cm := *m
		out.Metrics[id] = &cm
	}

	return &out
}

func (ev ClaimEvent) clone() ClaimEvent {
	out := ev
	out.Claimed = copyStringMap(ev.Claimed)
	out.Actual = copyStringMap(ev.Actual)
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
