package bot

// Tuning holds the heuristic weights of the suggestion engine. A correct
// claim is free while a wrong claim forfeits the whole book, so the claim
// floor sits just under the fully-confident weight.
type Tuning struct {
	// ClaimFloor is the minimum weight at which a claim is ever played.
	ClaimFloor float64
	// ClaimTeamWeight scores a fully attributed book held entirely by the
	// bot's own team.
	ClaimTeamWeight float64
	// ClaimRevealedWeight scores a fully attributed book with cards known to
	// sit with opponents; still correct on paper, but opponents can move
	// cards before the claim lands.
	ClaimRevealedWeight float64
	// ClaimPartialWeight scales with attribution coverage for books the
	// engine cannot fully place yet. Always below the floor.
	ClaimPartialWeight float64

	// AskKnownWeight scores an ask whose target is positively known or
	// inferred to hold the card.
	AskKnownWeight float64
	// AskBookHoldWeight rewards asking into books the bot partially holds.
	AskBookHoldWeight float64
	// AskScarcityWeight rewards cards with small candidate sets.
	AskScarcityWeight float64
	// AskLowCountWeight rewards opponents with few remaining cards.
	AskLowCountWeight float64

	// TransferCardWeight scales transfer weight by the teammate's hand size.
	TransferCardWeight float64
}

// DefaultTuning is the shipped weight set.
var DefaultTuning = Tuning{
	ClaimFloor:          0.95,
	ClaimTeamWeight:     1.0,
	ClaimRevealedWeight: 0.9,
	ClaimPartialWeight:  0.5,

	AskKnownWeight:    3.0,
	AskBookHoldWeight: 0.4,
	AskScarcityWeight: 1.0,
	AskLowCountWeight: 0.5,

	TransferCardWeight: 1.0,
}
