package blackjack

import "fmt"

// BustLimit is the highest total that is not a bust.
const BustLimit = 21

// Score is the blackjack total for a set of cards.
type Score struct {
	Points int
	Busted bool
	Soft   bool // an ace is currently counted as 11
}

// Compute totals cards with soft-ace resolution. Every ace counts as 1 and
// at most one is promoted to 11 while that keeps the total within 21.
// [A,10,A] is 12 here; scoring each ace as 11 whenever it fits when drawn gives 22.
func Compute(cards []Card) (Score, error) {
	sum := 0
	aces := 0
	for i, c := range cards {
		if !c.valid() {
			return Score{}, fmt.Errorf("%w: malformed card at position %d", ErrInvalidArgument, i)
		}
		if c.IsAce() {
			aces++
		}
		sum += c.Value
	}

	soft := false
	if aces > 0 && sum+10 <= BustLimit {
		sum += 10
		soft = true
	}

	return Score{
		Points: sum,
		Busted: sum > BustLimit,
		Soft:   soft,
	}, nil
}
