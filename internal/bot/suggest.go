package bot

import (
	"sort"

	"fish/internal/domain"
)

// Engine ranks candidate moves from a player-scoped view. It sees exactly
// what a human in the same seat would: its own hand, public counts and the
// shared inference state, never the authoritative owner map.
type Engine struct {
	Tuning Tuning
}

// NewEngine returns an engine with the default tuning.
func NewEngine() *Engine {
	return &Engine{Tuning: DefaultTuning}
}

// Decide picks the move to play, or nil to pass. Order: the best claim above
// the confidence floor, else the best ask, else a legal transfer. With no ask
// and no transfer left the best remaining claim is played regardless of
// confidence, so an endgame with every opponent out of cards still resolves.
func (e *Engine) Decide(v *domain.PlayerView) Suggestion {
	claims := e.SuggestClaims(v)
	if len(claims) > 0 && claims[0].W >= e.Tuning.ClaimFloor {
		return claims[0]
	}
	if asks := e.SuggestAsks(v); len(asks) > 0 {
		return asks[0]
	}
	if transfers := e.SuggestTransfers(v); len(transfers) > 0 {
		return transfers[0]
	}
	if len(claims) > 0 {
		return claims[0]
	}
	return nil
}

// SuggestClaims ranks every unresolved book, highest weight first. Ties
// break on ascending book id so simultaneous full-confidence books resolve
// deterministically.
func (e *Engine) SuggestClaims(v *domain.PlayerView) []WeightedClaim {
	viewer := v.Players[v.ViewerID]
	if viewer == nil {
		return nil
	}

	var out []WeightedClaim
	for _, bookID := range unresolvedBookIDs(v) {
		book := v.Books[bookID]
		cardIDs := domain.CardsOfBook(bookID, v.Config.BookType)

		owners := make(map[string]string, len(cardIDs))
		derived := 0
		allOnTeam := true
		for _, cardID := range cardIDs {
			switch owner, ok := e.placeCard(v, book, cardID); {
			case ok:
				owners[cardID] = owner
				derived++
				if p := v.Players[owner]; p == nil || p.TeamID != viewer.TeamID {
					allOnTeam = false
				}
			default:
				// Best remaining guess keeps the claim map complete.
				owners[cardID] = firstCandidate(book, cardID, v.PlayerOrder)
				allOnTeam = false
			}
		}

		var w float64
		switch {
		case derived == len(cardIDs) && allOnTeam:
			w = e.Tuning.ClaimTeamWeight
		case derived == len(cardIDs):
			w = e.Tuning.ClaimRevealedWeight
		default:
			w = e.Tuning.ClaimPartialWeight * float64(derived) / float64(len(cardIDs))
		}
		out = append(out, WeightedClaim{BookID: bookID, Owners: owners, W: w})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].W != out[j].W {
			return out[i].W > out[j].W
		}
		return out[i].BookID < out[j].BookID
	})
	return out
}

// SuggestAsks ranks ask candidates per opponent and card. Empty when the
// viewer holds no cards: an empty hand cannot ask.
func (e *Engine) SuggestAsks(v *domain.PlayerView) []WeightedAsk {
	viewer := v.Players[v.ViewerID]
	if viewer == nil || len(v.Hand) == 0 {
		return nil
	}

	var out []WeightedAsk
	for _, bookID := range unresolvedBookIDs(v) {
		book := v.Books[bookID]
		cardIDs := domain.CardsOfBook(bookID, v.Config.BookType)

		held := 0
		for _, cardID := range cardIDs {
			if v.HoldsCard(cardID) {
				held++
			}
		}

		for _, cardID := range cardIDs {
			if v.HoldsCard(cardID) {
				continue
			}
			owner, known := book.OwnerIfDerived(cardID)
			candidates := book.Candidates(cardID)

			for _, targetID := range v.PlayerOrder {
				target := v.Players[targetID]
				if targetID == v.ViewerID || target.TeamID == viewer.TeamID {
					continue
				}
				if v.CardCounts[targetID] == 0 {
					continue
				}

				var w float64
				switch {
				case known && owner == targetID:
					w = e.Tuning.AskKnownWeight
				case known:
					continue // card positively elsewhere
				case containsString(candidates, targetID):
					w = e.Tuning.AskScarcityWeight / float64(len(candidates))
				default:
					continue // target eliminated for this card
				}
				w += e.Tuning.AskBookHoldWeight * float64(held)
				w += e.Tuning.AskLowCountWeight / float64(v.CardCounts[targetID])

				out = append(out, WeightedAsk{TargetID: targetID, CardID: cardID, W: w})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].W != out[j].W {
			return out[i].W > out[j].W
		}
		if out[i].CardID != out[j].CardID {
			return out[i].CardID < out[j].CardID
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out
}

// SuggestTransfers ranks turn hand-offs, favoring the teammate with the most
// remaining cards. Empty unless the viewer currently holds the transfer
// right at zero cards.
func (e *Engine) SuggestTransfers(v *domain.PlayerView) []WeightedTransfer {
	viewer := v.Players[v.ViewerID]
	if viewer == nil || v.PendingTransfer != v.ViewerID || len(v.Hand) > 0 {
		return nil
	}

	var out []WeightedTransfer
	for _, playerID := range v.PlayerOrder {
		p := v.Players[playerID]
		if playerID == v.ViewerID || p.TeamID != viewer.TeamID {
			continue
		}
		if v.CardCounts[playerID] == 0 {
			continue
		}
		out = append(out, WeightedTransfer{
			TargetID: playerID,
			W:        e.Tuning.TransferCardWeight * float64(v.CardCounts[playerID]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].W != out[j].W {
			return out[i].W > out[j].W
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out
}

// placeCard attributes a card from the viewer's perspective: own hand first,
// then the shared known/inferred owners.
func (e *Engine) placeCard(v *domain.PlayerView, book *domain.BookState, cardID string) (string, bool) {
	if v.HoldsCard(cardID) {
		return v.ViewerID, true
	}
	return book.OwnerIfDerived(cardID)
}

func unresolvedBookIDs(v *domain.PlayerView) []string {
	var ids []string
	for id, b := range v.Books {
		if b.ResolvedBy == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func firstCandidate(book *domain.BookState, cardID string, order []string) string {
	candidates := book.Candidates(cardID)
	if len(candidates) > 0 {
		return candidates[0]
	}
	if len(order) > 0 {
		return order[0]
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
