// Package display renders hand views for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// Card renders a single card, red suits in red.
func Card(c game.CardView) string {
	card, err := blackjack.Lookup(blackjack.CardID(c.ID))
	if err != nil {
		return InfoStyle.Render(c.ID)
	}
	if card.Suit.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// Cards renders a bracketed card list
func Cards(cards []game.CardView) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = Card(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Side renders one participant's row
func Side(label string, s game.SideView) string {
	points := fmt.Sprintf("%d", s.Points)
	if s.IsBusted {
		points = LoseStyle.Render(points + " bust")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		LabelStyle.Render(label),
		Cards(s.Cards),
		"  ",
		points,
	)
}

// Outcome renders the winner line, or the actions still available.
func Outcome(w game.Winner) string {
	switch w {
	case game.WinnerPlayer:
		return WinStyle.Render("Player wins")
	case game.WinnerDealer:
		return LoseStyle.Render("Dealer wins")
	case game.WinnerDraw:
		return DrawStyle.Render("Push")
	default:
		return InfoStyle.Render("hit or stand")
	}
}

// Hand renders a full hand view in a box
func Hand(v game.HandView) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Hand "+v.TableHandID),
		Side("Dealer", v.Dealer),
		Side("Player", v.Player),
		InfoStyle.Render("Bet "+v.Bet.String()),
		Outcome(v.Winner),
	)
	return BoxStyle.Render(body)
}

// Stats renders a simulation summary
func Stats(s *statistics.Statistics) string {
	low, high := s.ConfidenceInterval95()
	lines := []string{
		HeaderStyle.Render("Simulation"),
		fmt.Sprintf("%s %d", LabelStyle.Render("Hands"), s.Hands),
		fmt.Sprintf("%s %d / %d / %d", LabelStyle.Render("W/L/D"), s.Wins, s.Losses, s.Draws),
		fmt.Sprintf("%s %.2f%%", LabelStyle.Render("Win"), s.WinRate()*100),
		fmt.Sprintf("%s %+.4f bets/hand [%+.4f, %+.4f]", LabelStyle.Render("Mean"), s.Mean(), low, high),
		fmt.Sprintf("%s player %d, dealer %d", LabelStyle.Render("Busts"), s.PlayerBusts, s.DealerBusts),
		fmt.Sprintf("%s %d", LabelStyle.Render("21s"), s.Naturals),
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
