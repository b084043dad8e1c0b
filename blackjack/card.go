package blackjack

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Hearts
	Diamonds
	Spades
)

var suitNames = [...]string{"clubs", "hearts", "diamonds", "spades"}

// String returns the lowercase suit name used in persisted views
func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "unknown"
}

// Symbol returns the unicode symbol for the suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank, Ace low.
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const rankCodes = "123456789TJQK"

// Code returns the single character identity code for the rank
func (r Rank) Code() byte {
	if r < Ace || r > King {
		return '?'
	}
	return rankCodes[r-1]
}

// String returns a display label (A, 2..10, J, Q, K)
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r > Ace && r < Ten {
			return string(r.Code())
		}
		return "?"
	}
}

// CardID identifies one of the 52 catalog cards, e.g. "1h" or "Ks".
type CardID string

// Card is an immutable catalog entry.
type Card struct {
	ID          CardID
	Rank        Rank
	Suit        Suit
	Value       int
	SecondValue int // 11 for aces, zero otherwise
}

// IsAce returns true if the card is an ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of a card (e.g., "A♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

func (c Card) valid() bool {
	if c.Rank < Ace || c.Rank > King || c.Suit > Spades {
		return false
	}
	return c.Value == pointValue(c.Rank)
}

// NewCard builds the catalog card for rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	c := Card{
		ID:    CardID([]byte{rank.Code(), suitNames[suit][0]}),
		Rank:  rank,
		Suit:  suit,
		Value: pointValue(rank),
	}
	if rank == Ace {
		c.SecondValue = 11
	}
	return c
}

func pointValue(r Rank) int {
	if r >= Ten {
		return 10
	}
	return int(r)
}

var (
	catalog = buildCatalog()
	byID    = indexCatalog(catalog)
)

func buildCatalog() [52]Card {
	var cards [52]Card
	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return cards
}

func indexCatalog(cards [52]Card) map[CardID]Card {
	idx := make(map[CardID]Card, len(cards))
	for _, c := range cards {
		idx[c.ID] = c
	}
	return idx
}

// Lookup resolves a card identity to its catalog record.
func Lookup(id CardID) (Card, error) {
	c, ok := byID[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, string(id))
	}
	return c, nil
}

// ParseCardID normalises and validates a textual card id ("ks" -> "Ks").
func ParseCardID(s string) (CardID, error) {
	if len(s) != 2 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	id := CardID(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if _, err := Lookup(id); err != nil {
		return "", err
	}
	return id, nil
}

// LookupAll resolves a sequence of identities in order.
func LookupAll(ids []CardID) ([]Card, error) {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		c, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// IDs returns the identities of cards in order.
func IDs(cards []Card) []CardID {
	ids := make([]CardID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
