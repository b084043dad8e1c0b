package simulator

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/service"
	"github.com/lox/blackjack/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, seed int64) *service.Service {
	t.Helper()
	clock := quartz.NewMock(t)
	st := store.NewTestStore(t, clock)
	rng := randutil.NewLocked(randutil.New(seed))
	return service.New(st, zerolog.Nop(),
		service.WithClock(clock),
		service.WithShoeBuilder(service.RandomShoes(rng)),
		service.WithDeckCount(1),
	)
}

func TestRunKeepsLedgerBalanced(t *testing.T) {
	sim := New(newService(t, 7), Config{
		Players:         4,
		HandsPerPlayer:  15,
		Bet:             decimal.NewFromInt(10),
		StartingBalance: decimal.NewFromInt(1000),
		HitBelow:        15,
		Concurrency:     2,
		RunID:           "test",
		Logger:          zerolog.Nop(),
	})

	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60, res.Stats.Hands)
	assert.Len(t, res.GameIDs, 4)
	assert.Zero(t, res.BrokePlayer)
	require.NoError(t, res.Stats.Validate())

	// House net in bets mirrors the player's summed results
	perBet := res.HouseNet.Div(decimal.NewFromInt(10)).Neg()
	assert.InDelta(t, res.Stats.SumNet, perBet.InexactFloat64(), 1e-9)
}

func TestRunStopsWhenPlayerIsBroke(t *testing.T) {
	sim := New(newService(t, 11), Config{
		Players:         1,
		HandsPerPlayer:  50,
		Bet:             decimal.NewFromInt(10),
		StartingBalance: decimal.NewFromInt(10),
		RunID:           "broke",
		Logger:          zerolog.Nop(),
	})

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	// A player starting with one bet either goes broke or survives all hands
	if res.BrokePlayer == 1 {
		assert.Less(t, res.Stats.Hands, 50)
	} else {
		assert.Equal(t, 50, res.Stats.Hands)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(newService(t, 3), Config{Players: 2, HandsPerPlayer: 5, RunID: "cancel", Logger: zerolog.Nop()})
	_, err := sim.Run(ctx)
	assert.Error(t, err)
}
