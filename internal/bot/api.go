package bot

// Suggestion is a tagged candidate move produced by the suggestion engine.
// The concrete variants are WeightedAsk, WeightedClaim and WeightedTransfer;
// the decision point handles them exhaustively.
type Suggestion interface {
	suggestion()
	Weight() float64
}

// WeightedAsk proposes asking one opponent for one card.
type WeightedAsk struct {
	TargetID string
	CardID   string
	W        float64
}

func (WeightedAsk) suggestion()       {}
func (s WeightedAsk) Weight() float64 { return s.W }

// WeightedClaim proposes declaring the full ownership of one book.
type WeightedClaim struct {
	BookID string
	Owners map[string]string // cardID -> playerID
	W      float64
}

func (WeightedClaim) suggestion()       {}
func (s WeightedClaim) Weight() float64 { return s.W }

// WeightedTransfer proposes handing the turn to a teammate after a correct
// claim at zero cards.
type WeightedTransfer struct {
	TargetID string
	W        float64
}

func (WeightedTransfer) suggestion()       {}
func (s WeightedTransfer) Weight() float64 { return s.W }
