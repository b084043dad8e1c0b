package game

import (
	"github.com/lox/blackjack/blackjack"
)

// StackedShoe builds a shoe that deals ids in order, followed by a filler of
// low cards so dealer playouts never run dry. Intended for deterministic tests.
func StackedShoe(ids ...string) blackjack.Shoe {
	shoe := make(blackjack.Shoe, 0, len(ids)+8)
	for _, id := range ids {
		shoe = append(shoe, blackjack.CardID(id))
	}
	for range 8 {
		shoe = append(shoe, "2c")
	}
	return shoe
}
