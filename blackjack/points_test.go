package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(t *testing.T, ids ...CardID) []Card {
	t.Helper()
	cs, err := LookupAll(ids)
	require.NoError(t, err)
	return cs
}

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ids    []CardID
		points int
		busted bool
		soft   bool
	}{
		{"empty", nil, 0, false, false},
		{"ace nine is soft 20", []CardID{"1h", "9c"}, 20, false, true},
		{"ace jack is 21", []CardID{"1s", "Jd"}, 21, false, true},
		{"ace ten five demotes ace", []CardID{"1h", "Tc", "5d"}, 16, false, false},
		{"king jack ace hard 21", []CardID{"Kh", "Jc", "1d"}, 21, false, false},
		{"king jack ace king busts", []CardID{"Kh", "Jc", "1d", "Ks"}, 31, true, false},
		{"two aces nine", []CardID{"1h", "1c", "9d"}, 21, false, true},
		{"two aces ten", []CardID{"1h", "1c", "Td"}, 12, false, false},
		{"ace ten ace", []CardID{"1h", "Td", "1c"}, 12, false, false},
		{"four aces", []CardID{"1h", "1c", "1d", "1s"}, 14, false, true},
		{"twenty two busts", []CardID{"Th", "5c", "7d"}, 22, true, false},
		{"six alone", []CardID{"6h"}, 6, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Compute(cards(t, tt.ids...))
			require.NoError(t, err)
			assert.Equal(t, tt.points, score.Points)
			assert.Equal(t, tt.busted, score.Busted)
			assert.Equal(t, tt.soft, score.Soft)
		})
	}
}

func TestComputeBustedMatchesPoints(t *testing.T) {
	t.Parallel()

	shoe, err := BuildShoe(testRNG(7), 1)
	require.NoError(t, err)

	// Walk every prefix of a shuffled deck
	for n := 1; n <= 12; n++ {
		drawn, _, err := shoe.Draw(n)
		require.NoError(t, err)
		score, err := Compute(drawn)
		require.NoError(t, err)
		assert.Equal(t, score.Points > BustLimit, score.Busted, "prefix %d", n)
	}
}

func TestComputeRejectsMalformedCards(t *testing.T) {
	t.Parallel()

	_, err := Compute([]Card{{}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	bad := NewCard(King, Clubs)
	bad.Value = 13
	_, err = Compute([]Card{bad})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
