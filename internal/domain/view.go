package domain

// PlayerView is the player-scoped projection of a game. It carries the
// viewer's own hand, public counts and the non-authoritative inference state,
// and never the card->owner map, enforcing information asymmetry by
// construction.
type PlayerView struct {
	GameID   string     `json:"game_id"`
	JoinCode string     `json:"join_code"`
	Status   Status     `json:"status"`
	Config   GameConfig `json:"config"`

	ViewerID    string   `json:"viewer_id"`
	CurrentTurn string   `json:"current_turn"`
	PlayerOrder []string `json:"player_order"`

	Players map[string]*Player `json:"players"`
	Teams   map[string]*Team   `json:"teams"`

	Hand       []string       `json:"hand"`
	CardCounts map[string]int `json:"card_counts"`

	Books map[string]*BookState `json:"books"`

	AskHistory      []AskEvent      `json:"ask_history"`
	ClaimHistory    []ClaimEvent    `json:"claim_history"`
	TransferHistory []TransferEvent `json:"transfer_history"`

	Metrics map[string]*PlayerMetrics `json:"metrics"`

	PendingTransfer string `json:"pending_transfer"`
}

// ViewFor builds the scoped view for one player. All containers are deep
// copies so the caller can never reach back into actor-owned state.
func (g *GameData) ViewFor(playerID string) *PlayerView {
	c := g.Clone()
	return &PlayerView{
		GameID:          c.GameID,
		JoinCode:        c.JoinCode,
		Status:          c.Status,
		Config:          c.Config,
		ViewerID:        playerID,
		CurrentTurn:     c.CurrentTurn,
		PlayerOrder:     c.PlayerOrder,
		Players:         c.Players,
		Teams:           c.Teams,
		Hand:            g.HandOf(playerID),
		CardCounts:      c.CardCounts,
		Books:           c.Books,
		AskHistory:      c.AskHistory,
		ClaimHistory:    c.ClaimHistory,
		TransferHistory: c.TransferHistory,
		Metrics:         c.Metrics,
		PendingTransfer: c.PendingTransfer,
	}
}

// HoldsCard reports whether the viewer holds the given card.
func (v *PlayerView) HoldsCard(cardID string) bool {
	for _, id := range v.Hand {
		if id == cardID {
			return true
		}
	}
	return false
}
