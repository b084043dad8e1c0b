package blackjack

import (
	"fmt"
	rand "math/rand/v2"
)

// DefaultDeckCount is the house convention for a new shoe.
const DefaultDeckCount = 4

// Shoe is the ordered sequence of undealt card identities for a game.
type Shoe []CardID

// BuildShoe concatenates deckCount catalogs and shuffles them with Fisher-Yates.
func BuildShoe(rng *rand.Rand, deckCount int) (Shoe, error) {
	if deckCount <= 0 {
		return nil, fmt.Errorf("%w: deck count must be greater than 0, got %d", ErrInvalidArgument, deckCount)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: rng is required", ErrInvalidArgument)
	}

	shoe := make(Shoe, 0, deckCount*len(catalog))
	for range deckCount {
		for _, c := range catalog {
			shoe = append(shoe, c.ID)
		}
	}

	for i := len(shoe) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shoe[i], shoe[j] = shoe[j], shoe[i]
	}
	return shoe, nil
}

// Len returns the number of cards left in the shoe
func (s Shoe) Len() int {
	return len(s)
}

// Draw takes the first n cards. The receiver is left untouched; the
// remaining sequence is returned as rest.
func (s Shoe) Draw(n int) (cards []Card, rest Shoe, err error) {
	if n <= 0 {
		return nil, s, fmt.Errorf("%w: draw quantity must be greater than 0, got %d", ErrInvalidArgument, n)
	}
	if n > len(s) {
		return nil, s, fmt.Errorf("%w: need %d, have %d", ErrShoeExhausted, n, len(s))
	}

	cards, err = LookupAll(s[:n])
	if err != nil {
		return nil, s, err
	}
	rest = make(Shoe, len(s)-n)
	copy(rest, s[n:])
	return cards, rest, nil
}

// Strings returns the identities as plain strings for persistence.
func (s Shoe) Strings() []string {
	out := make([]string, len(s))
	for i, id := range s {
		out[i] = string(id)
	}
	return out
}

// ShoeFromStrings rebuilds a persisted shoe, validating every identity.
func ShoeFromStrings(ids []string) (Shoe, error) {
	shoe := make(Shoe, len(ids))
	for i, raw := range ids {
		id := CardID(raw)
		if _, err := Lookup(id); err != nil {
			return nil, fmt.Errorf("shoe position %d: %w", i, err)
		}
		shoe[i] = id
	}
	return shoe, nil
}
