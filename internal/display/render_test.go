package display

import (
	"testing"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsContainSymbols(t *testing.T) {
	out := Cards([]game.CardView{{ID: "1s"}, {ID: "Kh"}, {ID: "Td"}})
	assert.Contains(t, out, "A♠")
	assert.Contains(t, out, "K♥")
	assert.Contains(t, out, "10♦")
	assert.Contains(t, out, "[")
	assert.Contains(t, out, "]")
}

func TestCardUnknownFallsBackToID(t *testing.T) {
	assert.Contains(t, Card(game.CardView{ID: "zz"}), "zz")
}

func TestHand(t *testing.T) {
	h, err := game.Deal(game.StackedShoe("6h", "1s", "Jd", "Tc", "2d"), decimal.NewFromInt(30))
	require.NoError(t, err)

	out := Hand(h.View("hand_test"))
	assert.Contains(t, out, "hand_test")
	assert.Contains(t, out, "Dealer")
	assert.Contains(t, out, "21")
	assert.Contains(t, out, "Player wins")
	assert.Contains(t, out, "Bet 30")
}

func TestHandAwaitingAction(t *testing.T) {
	h, err := game.Deal(game.StackedShoe("9c", "Th", "6d", "Kc"), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Contains(t, Hand(h.View("hand_open")), "hit or stand")

	h, err = h.Hit()
	require.NoError(t, err)
	assert.Contains(t, Hand(h.View("hand_open")), "bust")
}

func TestStats(t *testing.T) {
	s := &statistics.Statistics{}
	s.Add(statistics.HandResult{Net: 1})
	s.Add(statistics.HandResult{Net: -1, PlayerBusted: true})

	out := Stats(s)
	assert.Contains(t, out, "Simulation")
	assert.Contains(t, out, "1 / 1 / 0")
}
