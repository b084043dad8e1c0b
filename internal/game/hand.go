package game

import (
	"fmt"

	"github.com/lox/blackjack/blackjack"
	"github.com/shopspring/decimal"
)

// DealerStandsOn is the total at which the dealer stops drawing, soft or hard.
const DealerStandsOn = 17

// Participant identifies a side of the table
type Participant uint8

const (
	Dealer Participant = iota
	Player
)

// String returns the string representation of the participant
func (p Participant) String() string {
	switch p {
	case Dealer:
		return "dealer"
	case Player:
		return "player"
	default:
		return "unknown"
	}
}

// Winner is the outcome of a hand. The zero value means unresolved.
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerDealer Winner = "dealer"
	WinnerPlayer Winner = "player"
	WinnerDraw   Winner = "draw"
)

// ParseWinner converts a persisted winner string
func ParseWinner(s string) (Winner, error) {
	switch w := Winner(s); w {
	case WinnerNone, WinnerDealer, WinnerPlayer, WinnerDraw:
		return w, nil
	default:
		return WinnerNone, fmt.Errorf("game: unknown winner %q", s)
	}
}

// State is the position of a hand in its lifecycle
type State uint8

const (
	AwaitingAction State = iota
	Resolved
)

func (s State) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "awaiting_action"
}

// Side holds one participant's cards and the score recomputed from them.
type Side struct {
	Cards []blackjack.Card
	Score blackjack.Score
}

// Hand is a single round of play from deal to resolution.
type Hand struct {
	Dealer Side
	Player Side
	Shoe   blackjack.Shoe
	Bet    decimal.Decimal
	Winner Winner
}

// Deal starts a hand from a fresh shoe: one card to the dealer, then two to
// the player. A player total of 21 resolves the hand immediately.
func Deal(shoe blackjack.Shoe, bet decimal.Decimal) (Hand, error) {
	if !bet.IsPositive() {
		return Hand{}, fmt.Errorf("%w: bet must be positive, got %s", ErrInvalidBet, bet)
	}

	h := Hand{Shoe: shoe, Bet: bet}
	h, err := h.deal(Dealer, 1)
	if err != nil {
		return Hand{}, err
	}
	h, err = h.deal(Player, 2)
	if err != nil {
		return Hand{}, err
	}
	return h.afterPlayerCard()
}

// Resume rebuilds a persisted hand. Scores are always recomputed from the
// cards rather than trusted from storage.
func Resume(dealer, player []blackjack.Card, shoe blackjack.Shoe, bet decimal.Decimal, winner Winner) (Hand, error) {
	h := Hand{
		Dealer: Side{Cards: dealer},
		Player: Side{Cards: player},
		Shoe:   shoe,
		Bet:    bet,
		Winner: winner,
	}
	for _, p := range []Participant{Dealer, Player} {
		side := h.side(p)
		score, err := blackjack.Compute(side.Cards)
		if err != nil {
			return Hand{}, fmt.Errorf("%s cards: %w", p, err)
		}
		side.Score = score
	}
	return h, nil
}

// State reports whether the hand still accepts actions
func (h Hand) State() State {
	if h.Winner != WinnerNone {
		return Resolved
	}
	return AwaitingAction
}

// Resolved returns true once a winner has been decided
func (h Hand) Resolved() bool {
	return h.State() == Resolved
}

// Side returns a participant's cards and score
func (h Hand) Side(p Participant) Side {
	return *h.side(p)
}

// Hit deals one card to the player. A bust hands the win to the dealer and
// a total of 21 plays the dealer out.
func (h Hand) Hit() (Hand, error) {
	if h.Resolved() {
		return h, ErrHandResolved
	}
	next, err := h.deal(Player, 1)
	if err != nil {
		return h, err
	}
	return next.afterPlayerCard()
}

// Stand ends the player's turn, plays the dealer out and decides the winner.
func (h Hand) Stand() (Hand, error) {
	if h.Resolved() {
		return h, ErrHandResolved
	}
	return h.finish()
}

func (h Hand) afterPlayerCard() (Hand, error) {
	switch {
	case h.Player.Score.Busted:
		// No playout once the player is busted
		h.Winner = WinnerDealer
		return h, nil
	case h.Player.Score.Points == blackjack.BustLimit:
		return h.finish()
	default:
		return h, nil
	}
}

func (h Hand) finish() (Hand, error) {
	next, err := h.dealerPlay()
	if err != nil {
		return h, err
	}
	next.Winner = DecideWinner(next.Dealer.Score, next.Player.Score)
	return next, nil
}

// dealerPlay draws one card at a time until the dealer reaches DealerStandsOn.
func (h Hand) dealerPlay() (Hand, error) {
	var err error
	for h.Dealer.Score.Points < DealerStandsOn {
		h, err = h.deal(Dealer, 1)
		if err != nil {
			return h, err
		}
	}
	return h, nil
}

// deal moves n cards from the shoe to a participant. The returned hand owns
// fresh card slices so the receiver is never aliased.
func (h Hand) deal(p Participant, n int) (Hand, error) {
	drawn, rest, err := h.Shoe.Draw(n)
	if err != nil {
		return h, fmt.Errorf("deal to %s: %w", p, err)
	}

	side := h.side(p)
	cards := make([]blackjack.Card, 0, len(side.Cards)+len(drawn))
	cards = append(cards, side.Cards...)
	cards = append(cards, drawn...)

	score, err := blackjack.Compute(cards)
	if err != nil {
		return h, err
	}

	side.Cards = cards
	side.Score = score
	h.Shoe = rest
	return h, nil
}

func (h *Hand) side(p Participant) *Side {
	if p == Dealer {
		return &h.Dealer
	}
	return &h.Player
}

// DecideWinner compares final scores. A busted player loses before the
// dealer's total is considered.
func DecideWinner(dealer, player blackjack.Score) Winner {
	switch {
	case player.Busted:
		return WinnerDealer
	case dealer.Busted:
		return WinnerPlayer
	case player.Points > dealer.Points:
		return WinnerPlayer
	case dealer.Points > player.Points:
		return WinnerDealer
	default:
		return WinnerDraw
	}
}
