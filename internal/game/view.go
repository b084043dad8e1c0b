package game

import (
	"github.com/lox/blackjack/blackjack"
	"github.com/shopspring/decimal"
)

// CardView is the external representation of a dealt card.
type CardView struct {
	ID          string `json:"id"`
	Rank        int    `json:"rank"`
	Suit        string `json:"suit"`
	Value       int    `json:"value"`
	SecondValue *int   `json:"second_value"`
}

// SideView is one participant's cards and totals.
type SideView struct {
	Cards    []CardView `json:"cards"`
	Points   int        `json:"points"`
	IsBusted bool       `json:"is_busted"`
}

// HandView is returned by every hand action. Winner is omitted until the
// hand is resolved.
type HandView struct {
	Dealer      SideView        `json:"dealer"`
	Player      SideView        `json:"player"`
	TableHandID string          `json:"table_hand_id"`
	Bet         decimal.Decimal `json:"bet_value"`
	Winner      Winner          `json:"winner,omitempty"`
}

// View renders the hand for callers outside the engine.
func (h Hand) View(tableHandID string) HandView {
	return HandView{
		Dealer:      sideView(h.Dealer),
		Player:      sideView(h.Player),
		TableHandID: tableHandID,
		Bet:         h.Bet,
		Winner:      h.Winner,
	}
}

// NewCardView converts a catalog card
func NewCardView(c blackjack.Card) CardView {
	v := CardView{
		ID:    string(c.ID),
		Rank:  int(c.Rank),
		Suit:  c.Suit.String(),
		Value: c.Value,
	}
	if c.SecondValue != 0 {
		second := c.SecondValue
		v.SecondValue = &second
	}
	return v
}

func sideView(s Side) SideView {
	cards := make([]CardView, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = NewCardView(c)
	}
	return SideView{
		Cards:    cards,
		Points:   s.Score.Points,
		IsBusted: s.Score.Busted,
	}
}
