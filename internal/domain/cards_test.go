package domain

import "testing"

func TestDeckComposition(t *testing.T) {
	tests := []struct {
		name     string
		bookType BookType
		size     int
	}{
		{name: "RankDeck", bookType: BookTypeRank, size: 52},
		{name: "HalfSuitDeck", bookType: BookTypeHalfSuit, size: 48},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			deck := NewDeck(test.bookType)
			if len(deck) != test.size {
				t.Fatalf("deck size = %d, want %d", len(deck), test.size)
			}
			seen := make(map[string]bool)
			for _, c := range deck {
				id := c.ID()
				if seen[id] {
					t.Fatalf("duplicate card %s", id)
				}
				seen[id] = true
				if test.bookType == BookTypeHalfSuit && c.Rank == 8 {
					t.Fatalf("half-suit deck contains an 8: %s", id)
				}
			}
		})
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, bt := range []BookType{BookTypeRank, BookTypeHalfSuit} {
		for _, c := range NewDeck(bt) {
			parsed, err := ParseCard(c.ID())
			if err != nil {
				t.Fatalf("ParseCard(%s) error: %v", c.ID(), err)
			}
			if parsed != c {
				t.Fatalf("ParseCard(%s) = %+v, want %+v", c.ID(), parsed, c)
			}
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "S", "1S", "15H", "8X", "AX", "JOKER"} {
		if _, err := ParseCard(id); err == nil {
			t.Fatalf("ParseCard(%q) should fail", id)
		}
	}
}

func TestBooksPartitionDeck(t *testing.T) {
	tests := []struct {
		name     string
		bookType BookType
		books    int
		perBook  int
	}{
		{name: "RankBooks", bookType: BookTypeRank, books: 13, perBook: 4},
		{name: "HalfSuitBooks", bookType: BookTypeHalfSuit, books: 8, perBook: 6},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ids := BookIDs(test.bookType)
			if len(ids) != test.books {
				t.Fatalf("book count = %d, want %d", len(ids), test.books)
			}
			seen := make(map[string]string)
			for _, bookID := range ids {
				cards := CardsOfBook(bookID, test.bookType)
				if len(cards) != test.perBook {
					t.Fatalf("book %s has %d cards, want %d", bookID, len(cards), test.perBook)
				}
				for _, cardID := range cards {
					if prev, ok := seen[cardID]; ok {
						t.Fatalf("card %s in both %s and %s", cardID, prev, bookID)
					}
					seen[cardID] = bookID
				}
			}
			if len(seen) != DeckSizeFor(test.bookType) {
				t.Fatalf("books cover %d cards, want %d", len(seen), DeckSizeFor(test.bookType))
			}
		})
	}
}

func TestHalfSuitBookIDs(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{card: Card{Suit: "H", Rank: 2}, want: "H-low"},
		{card: Card{Suit: "H", Rank: 7}, want: "H-low"},
		{card: Card{Suit: "H", Rank: 9}, want: "H-high"},
		{card: Card{Suit: "S", Rank: 14}, want: "S-high"},
	}
	for _, test := range tests {
		if got := BookIDOf(test.card, BookTypeHalfSuit); got != test.want {
			t.Fatalf("BookIDOf(%s) = %s, want %s", test.card.ID(), got, test.want)
		}
	}
}
