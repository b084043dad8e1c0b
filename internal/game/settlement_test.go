package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSettle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		winner Winner
		house  string
		user   string
		credit string
	}{
		{WinnerDealer, "30", "-30", "0"},
		{WinnerPlayer, "-30", "30", "60"},
		{WinnerDraw, "0", "0", "30"},
	}

	for _, tt := range tests {
		t.Run(string(tt.winner), func(t *testing.T) {
			s, err := Settle(dec("30"), tt.winner)
			require.NoError(t, err)

			assert.True(t, s.HouseDelta.Equal(dec(tt.house)), "house delta %s", s.HouseDelta)
			assert.True(t, s.UserDelta.Equal(dec(tt.user)), "user delta %s", s.UserDelta)
			assert.True(t, s.BalanceCredit.Equal(dec(tt.credit)), "credit %s", s.BalanceCredit)
			assert.True(t, s.UserDelta.Equal(s.HouseDelta.Neg()), "fluctuations must be inverses")
		})
	}
}

func TestSettleUnresolved(t *testing.T) {
	t.Parallel()

	_, err := Settle(dec("10"), WinnerNone)
	assert.ErrorIs(t, err, ErrHandInProgress)

	_, err = Settle(dec("10"), Winner("house"))
	assert.Error(t, err)
}

func TestPlayerWinNetsBet(t *testing.T) {
	t.Parallel()

	balance := dec("100")
	after, err := PlaceBet(balance, dec("30"))
	require.NoError(t, err)
	assert.True(t, after.Equal(dec("70")))

	s, err := Settle(dec("30"), WinnerPlayer)
	require.NoError(t, err)
	final := after.Add(s.BalanceCredit)
	assert.True(t, final.Sub(balance).Equal(dec("30")), "net change should be +30, got %s", final.Sub(balance))
}

func TestPlaceBet(t *testing.T) {
	t.Parallel()

	_, err := PlaceBet(dec("20"), dec("20.01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	after, err := PlaceBet(dec("20"), dec("20"))
	require.NoError(t, err)
	assert.True(t, after.IsZero())

	_, err = PlaceBet(dec("20"), dec("0"))
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestBetLimits(t *testing.T) {
	t.Parallel()

	limits := BetLimits{Min: dec("1"), Max: dec("500")}
	assert.NoError(t, limits.Check(dec("1")))
	assert.NoError(t, limits.Check(dec("500")))
	assert.ErrorIs(t, limits.Check(dec("0.5")), ErrInvalidBet)
	assert.ErrorIs(t, limits.Check(dec("500.01")), ErrInvalidBet)
	assert.ErrorIs(t, limits.Check(dec("-1")), ErrInvalidBet)

	unbounded := BetLimits{}
	assert.NoError(t, unbounded.Check(dec("1000000")))
}

func TestBetLimitsRejectsSubCentBets(t *testing.T) {
	t.Parallel()

	limits := BetLimits{Min: dec("1")}
	assert.NoError(t, limits.Check(dec("10.05")))
	assert.NoError(t, limits.Check(dec("10.500")), "trailing zeros fit in two places")
	assert.ErrorIs(t, limits.Check(dec("10.005")), ErrInvalidBet)
	assert.ErrorIs(t, BetLimits{}.Check(dec("0.001")), ErrInvalidBet)
}

func TestWhole(t *testing.T) {
	t.Parallel()

	assert.True(t, Whole(dec("100")))
	assert.True(t, Whole(dec("-3.10")))
	assert.False(t, Whole(dec("89.995")))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.NoError(t, StatusInProgress.CheckActive())
	assert.ErrorIs(t, StatusCompleted.CheckActive(), ErrGameCompleted)
	assert.Equal(t, StatusCompleted, StatusInProgress.Finish())
	assert.Equal(t, StatusCompleted, StatusCompleted.Finish())

	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("paused")
	assert.Error(t, err)
}
