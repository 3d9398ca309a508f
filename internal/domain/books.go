package domain

import "sort"

// BookState is the incrementally maintained belief state about one book. It
// is the non-authoritative view that may leave the actor: it records only
// what every observer at the table could have derived from public moves.
//
// Invariant: a card id appears in exactly one of KnownOwners, InferredOwners
// or PossibleOwners, and candidate sets only ever shrink.
type BookState struct {
	BookID string `json:"book_id"`

	// KnownOwners holds positively observed ownership (a successful ask
	// reveals the card publicly moving to the asker).
	KnownOwners map[string]string `json:"known_owners"`

	// PossibleOwners maps each unobserved card to its candidate owner set.
	PossibleOwners map[string]map[string]bool `json:"possible_owners"`

	// KnownCounts tracks every player's publicly visible hand size.
	KnownCounts map[string]int `json:"known_counts"`

	// InferredOwners holds ownership derived by elimination: a candidate set
	// collapsing to one player, or a player's count reaching zero.
	InferredOwners map[string]string `json:"inferred_owners"`

	// ResolvedBy is the team id the book was awarded to, or "" while open.
	ResolvedBy string `json:"resolved_by"`
}

// NewBookState seeds the belief state at deal time. The deal is itself an
// observation: everyone sees the public hand sizes, and every card starts
// with the full player set as candidates.
func NewBookState(bookID string, cardIDs []string, playerIDs []string, counts map[string]int) *BookState {
	b := &BookState{
		BookID:         bookID,
		KnownOwners:    make(map[string]string),
		PossibleOwners: make(map[string]map[string]bool, len(cardIDs)),
		KnownCounts:    make(map[string]int, len(playerIDs)),
		InferredOwners: make(map[string]string),
	}
	for _, cardID := range cardIDs {
		set := make(map[string]bool, len(playerIDs))
		for _, pid := range playerIDs {
			set[pid] = true
		}
		b.PossibleOwners[cardID] = set
	}
	for _, pid := range playerIDs {
		b.KnownCounts[pid] = counts[pid]
	}
	return b
}

// Clone returns a deep copy of the book state.
func (b *BookState) Clone() *BookState {
	out := &BookState{
		BookID:         b.BookID,
		KnownOwners:    copyStringMap(b.KnownOwners),
		PossibleOwners: make(map[string]map[string]bool, len(b.PossibleOwners)),
		KnownCounts:    make(map[string]int, len(b.KnownCounts)),
		InferredOwners: copyStringMap(b.InferredOwners),
		ResolvedBy:     b.ResolvedBy,
	}
	for cardID, set := range b.PossibleOwners {
		cs := make(map[string]bool, len(set))
		for pid := range set {
			cs[pid] = true
		}
		out.PossibleOwners[cardID] = cs
	}
	for pid, n := range b.KnownCounts {
		out.KnownCounts[pid] = n
	}
	return out
}

// OwnerIfDerived returns the known or inferred owner of a card, if any.
func (b *BookState) OwnerIfDerived(cardID string) (string, bool) {
	if owner, ok := b.KnownOwners[cardID]; ok {
		return owner, true
	}
	if owner, ok := b.InferredOwners[cardID]; ok {
		return owner, true
	}
	return "", false
}

// Candidates returns the sorted candidate owners for an unobserved card.
func (b *BookState) Candidates(cardID string) []string {
	set, ok := b.PossibleOwners[cardID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for pid := range set {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out
}

// markKnown promotes a card to positively observed ownership.
func (b *BookState) markKnown(cardID, ownerID string) {
	delete(b.PossibleOwners, cardID)
	delete(b.InferredOwners, cardID)
	b.KnownOwners[cardID] = ownerID
}

// eliminate removes a player from one card's candidate set, promoting the
// card to InferredOwners if the set collapses to a single candidate.
func (b *BookState) eliminate(cardID, playerID string) {
	set, ok := b.PossibleOwners[cardID]
	if !ok {
		return
	}
	delete(set, playerID)
	if len(set) == 1 {
		for last := range set {
			b.InferredOwners[cardID] = last
		}
		delete(b.PossibleOwners, cardID)
	}
}

// eliminateEverywhere removes a player from all candidate sets in this book.
func (b *BookState) eliminateEverywhere(playerID string) {
	for cardID := range b.PossibleOwners {
		b.eliminate(cardID, playerID)
	}
}

// SeedBooks initializes the per-book inference state from the deal.
func (g *GameData) SeedBooks() {
	g.Books = make(map[string]*BookState)
	for _, bookID := range BookIDs(g.Config.BookType) {
		g.Books[bookID] = NewBookState(bookID,
			CardsOfBook(bookID, g.Config.BookType), g.PlayerOrder, g.CardCounts)
	}
}

// setKnownCount publishes a player's new hand size to every book and, on a
// count of zero, eliminates the player from every remaining candidate set in
// the same update.
func (g *GameData) setKnownCount(playerID string, count int) {
	for _, b := range g.Books {
		b.KnownCounts[playerID] = count
	}
	if count == 0 {
		for _, b := range g.Books {
			b.eliminateEverywhere(playerID)
		}
	}
}

// ObserveSuccessfulAsk folds a successful ask into the belief state: the
// card's owner is now definitively the asker, and both hand sizes changed
// publicly.
func (g *GameData) ObserveSuccessfulAsk(cardID, askerID, targetID string) {
	card, err := ParseCard(cardID)
	if err != nil {
		return
	}
	if b, ok := g.Books[BookIDOf(card, g.Config.BookType)]; ok {
		b.markKnown(cardID, askerID)
	}
	g.setKnownCount(askerID, g.CardCounts[askerID])
	g.setKnownCount(targetID, g.CardCounts[targetID])
}

// ObserveFailedAsk folds a failed ask into the belief state: the target is
// now known not to hold that single card.
func (g *GameData) ObserveFailedAsk(cardID, targetID string) {
	card, err := ParseCard(cardID)
	if err != nil {
		return
	}
	if b, ok := g.Books[BookIDOf(card, g.Config.BookType)]; ok {
		b.eliminate(cardID, targetID)
	}
}

// ObserveClaim marks a book resolved and publishes the hand sizes of every
// player whose cards left play with it.
func (g *GameData) ObserveClaim(bookID, awardedTeamID string, formerOwners map[string]string) {
	if b, ok := g.Books[bookID]; ok {
		b.ResolvedBy = awardedTeamID
		// The reveal settles the book's remaining cards.
		for cardID, owner := range formerOwners {
			if _, known := b.KnownOwners[cardID]; !known {
				b.markKnown(cardID, owner)
			}
		}
	}
	touched := make(map[string]bool)
	for _, owner := range formerOwners {
		touched[owner] = true
	}
	for playerID := range touched {
		g.setKnownCount(playerID, g.CardCounts[playerID])
	}
}
