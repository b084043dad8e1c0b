package blackjack

import (
	"errors"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestBuildShoe(t *testing.T) {
	t.Parallel()

	shoe, err := BuildShoe(testRNG(1), DefaultDeckCount)
	require.NoError(t, err)
	require.Equal(t, 208, shoe.Len())

	counts := make(map[CardID]int)
	for _, id := range shoe {
		counts[id]++
	}
	assert.Len(t, counts, 52)
	for id, n := range counts {
		assert.Equalf(t, DefaultDeckCount, n, "card %s", id)
	}
}

func TestBuildShoeDeterministic(t *testing.T) {
	t.Parallel()

	a, err := BuildShoe(testRNG(42), 2)
	require.NoError(t, err)
	b, err := BuildShoe(testRNG(42), 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := BuildShoe(testRNG(43), 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should shuffle differently")
}

func TestBuildShoeInvalidDeckCount(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		_, err := BuildShoe(testRNG(1), n)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestShoeDraw(t *testing.T) {
	t.Parallel()

	shoe := Shoe{"1h", "Kd", "5c", "9s"}
	cards, rest, err := shoe.Draw(3)
	require.NoError(t, err)

	assert.Equal(t, []CardID{"1h", "Kd", "5c"}, IDs(cards))
	assert.Equal(t, Shoe{"9s"}, rest)
	assert.Equal(t, shoe.Len()-3, rest.Len())

	// Receiver is untouched
	assert.Equal(t, Shoe{"1h", "Kd", "5c", "9s"}, shoe)
}

func TestShoeDrawErrors(t *testing.T) {
	t.Parallel()

	shoe := Shoe{"1h", "Kd"}

	_, rest, err := shoe.Draw(0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	assert.Equal(t, shoe, rest)

	_, _, err = shoe.Draw(3)
	if !errors.Is(err, ErrShoeExhausted) {
		t.Errorf("Expected ErrShoeExhausted, got %v", err)
	}

	_, _, err = Shoe{"??"}.Draw(1)
	if !errors.Is(err, ErrUnknownCard) {
		t.Errorf("Expected ErrUnknownCard, got %v", err)
	}
}

func TestShoeFromStrings(t *testing.T) {
	t.Parallel()

	shoe, err := ShoeFromStrings([]string{"2c", "Qh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2c", "Qh"}, shoe.Strings())

	_, err = ShoeFromStrings([]string{"2c", "bogus"})
	assert.ErrorIs(t, err, ErrUnknownCard)
}
