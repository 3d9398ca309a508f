package domain

import (
	"fmt"
	"strconv"
)

// Suits in canonical order.
var Suits = []string{"S", "H", "D", "C"}

// Card is a single playing card. Rank runs 2..14 where 11=J, 12=Q, 13=K, 14=A.
type Card struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// ID returns the wire identity of a card, e.g. "AS", "10H", "2C".
func (c Card) ID() string {
	return rankName(c.Rank) + c.Suit
}

func rankName(r int) string {
	switch r {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	default:
		return strconv.Itoa(r)
	}
}

// ParseCard converts a card id back into a Card.
func ParseCard(id string) (Card, error) {
	if len(id) < 2 {
		return Card{}, fmt.Errorf("invalid card id %q", id)
	}
	suit := id[len(id)-1:]
	switch suit {
	case "S", "H", "D", "C":
	default:
		return Card{}, fmt.Errorf("invalid card suit in %q", id)
	}

	var rank int
	switch name := id[:len(id)-1]; name {
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	case "A":
		rank = 14
	default:
		n, err := strconv.Atoi(name)
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("invalid card rank in %q", id)
		}
		rank = n
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// BookType selects how the deck is partitioned into claimable books.
type BookType string

const (
	// BookTypeRank groups all four suits of one rank: 52 cards, 13 books of 4.
	BookTypeRank BookType = "rank"
	// BookTypeHalfSuit groups the low (2-7) or high (9-A) half of one suit:
	// 48 cards with the 8s removed, 8 books of 6.
	BookTypeHalfSuit BookType = "halfsuit"
)

// DeckSizeFor returns the required deck size for a book type.
func DeckSizeFor(bt BookType) int {
	if bt == BookTypeHalfSuit {
		return 48
	}
	return 52
}

// NewDeck returns the ordered deck for the given book type.
func NewDeck(bt BookType) []Card {
	deck := make([]Card, 0, DeckSizeFor(bt))
	for _, s := range Suits {
		for r := 2; r <= 14; r++ {
			if bt == BookTypeHalfSuit && r == 8 {
				continue
			}
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// BookIDOf returns the id of the book containing the card under the grouping
// rule. Rank books are named by rank ("A", "10"); half-suit books by suit and
// half ("S-low", "H-high").
func BookIDOf(c Card, bt BookType) string {
	if bt == BookTypeHalfSuit {
		half := "low"
		if c.Rank >= 9 {
			half = "high"
		}
		return c.Suit + "-" + half
	}
	return rankName(c.Rank)
}

// BookIDs returns every book id for the grouping rule in canonical order.
func BookIDs(bt BookType) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range NewDeck(bt) {
		id := BookIDOf(c, bt)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// CardsOfBook returns the card ids belonging to a book in canonical order.
func CardsOfBook(bookID string, bt BookType) []string {
	var ids []string
	for _, c := range NewDeck(bt) {
		if BookIDOf(c, bt) == bookID {
			ids = append(ids, c.ID())
		}
	}
	return ids
}
