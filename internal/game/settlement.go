package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settlement is the balance effect of a resolved hand. The bet has already
// been debited from the user when the hand was dealt.
type Settlement struct {
	Winner        Winner
	HouseDelta    decimal.Decimal
	UserDelta     decimal.Decimal
	BalanceCredit decimal.Decimal
}

// Settle computes the fluctuation deltas and the amount returned to the user.
// HouseDelta and UserDelta are always additive inverses.
func Settle(bet decimal.Decimal, winner Winner) (Settlement, error) {
	s := Settlement{
		Winner:        winner,
		HouseDelta:    decimal.Zero,
		UserDelta:     decimal.Zero,
		BalanceCredit: decimal.Zero,
	}

	switch winner {
	case WinnerDealer:
		s.HouseDelta = bet
		s.UserDelta = bet.Neg()
	case WinnerPlayer:
		s.HouseDelta = bet.Neg()
		s.UserDelta = bet
		s.BalanceCredit = bet.Mul(decimal.NewFromInt(2))
	case WinnerDraw:
		s.BalanceCredit = bet
	case WinnerNone:
		return Settlement{}, ErrHandInProgress
	default:
		return Settlement{}, fmt.Errorf("game: cannot settle winner %q", winner)
	}
	return s, nil
}

// MoneyPlaces is the number of decimal places persisted for money.
const MoneyPlaces = 2

// Whole reports whether amount fits in MoneyPlaces without rounding.
func Whole(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyPlaces))
}

// BetLimits bounds the accepted bet. A zero Max means no upper bound.
type BetLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Check validates bet against the limits
func (l BetLimits) Check(bet decimal.Decimal) error {
	if !bet.IsPositive() {
		return fmt.Errorf("%w: bet must be positive, got %s", ErrInvalidBet, bet)
	}
	if !Whole(bet) {
		return fmt.Errorf("%w: bet %s has more than %d decimal places", ErrInvalidBet, bet, MoneyPlaces)
	}
	if l.Min.IsPositive() && bet.LessThan(l.Min) {
		return fmt.Errorf("%w: bet %s below minimum %s", ErrInvalidBet, bet, l.Min)
	}
	if l.Max.IsPositive() && bet.GreaterThan(l.Max) {
		return fmt.Errorf("%w: bet %s above maximum %s", ErrInvalidBet, bet, l.Max)
	}
	return nil
}

// PlaceBet returns the balance after debiting bet.
func PlaceBet(balance, bet decimal.Decimal) (decimal.Decimal, error) {
	if !bet.IsPositive() {
		return balance, fmt.Errorf("%w: bet must be positive, got %s", ErrInvalidBet, bet)
	}
	if balance.LessThan(bet) {
		return balance, fmt.Errorf("%w: balance %s, bet %s", ErrInsufficientBalance, balance, bet)
	}
	return balance.Sub(bet), nil
}
