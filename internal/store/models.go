package store

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User holds a player's balance.
type User struct {
	ID        string          `gorm:"primaryKey;type:varchar(40)"`
	Email     string          `gorm:"uniqueIndex;not null;type:varchar(100)"`
	Name      string          `gorm:"type:varchar(50)"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Game is a session of hands for one user. The two fluctuation columns are
// kept as additive inverses by BeforeSave.
type Game struct {
	ID                      string          `gorm:"primaryKey;type:varchar(40)"`
	UserID                  string          `gorm:"index;not null;type:varchar(40)"`
	Status                  game.Status     `gorm:"type:varchar(16);not null;default:in_progress"`
	HouseBalanceFluctuation decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UserBalanceFluctuation  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CompletedAt             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// BeforeSave derives the user fluctuation from the house fluctuation.
func (g *Game) BeforeSave(tx *gorm.DB) error {
	g.UserBalanceFluctuation = g.HouseBalanceFluctuation.Neg()
	return nil
}

// AfterFind rejects rows whose status column is not a known status.
func (g *Game) AfterFind(tx *gorm.DB) error {
	st, err := game.ParseStatus(string(g.Status))
	if err != nil {
		return fmt.Errorf("store: game %s: %w", g.ID, err)
	}
	g.Status = st
	return nil
}

// Shoe is the remaining card sequence for a game. There is at most one per game.
type Shoe struct {
	ID        uint                        `gorm:"primaryKey"`
	GameID    string                      `gorm:"uniqueIndex;not null;type:varchar(40)"`
	Cards     datatypes.JSONSlice[string] `gorm:"not null"`
	UpdatedAt time.Time
}

// TableHand is one dealt hand. Points are stored for reporting only; the
// engine recomputes them from the cards.
type TableHand struct {
	ID           string                      `gorm:"primaryKey;type:varchar(40)"`
	GameID       string                      `gorm:"index;not null;type:varchar(40)"`
	UserID       string                      `gorm:"index;not null;type:varchar(40)"`
	BetValue     decimal.Decimal             `gorm:"type:decimal(10,2);not null"`
	DealerCards  datatypes.JSONSlice[string] `gorm:"not null"`
	PlayerCards  datatypes.JSONSlice[string] `gorm:"not null"`
	DealerPoints int                         `gorm:"not null;default:0"`
	PlayerPoints int                         `gorm:"not null;default:0"`
	Winner       game.Winner                 `gorm:"type:varchar(8);not null;default:''"`
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeSave rejects non-positive bets.
func (h *TableHand) BeforeSave(tx *gorm.DB) error {
	if !h.BetValue.IsPositive() {
		return fmt.Errorf("%w: bet_value must be greater than 0", game.ErrInvalidBet)
	}
	return nil
}

// AfterFind rejects rows whose winner column is not a known outcome, so a
// corrupt value never reads as resolved.
func (h *TableHand) AfterFind(tx *gorm.DB) error {
	w, err := game.ParseWinner(string(h.Winner))
	if err != nil {
		return fmt.Errorf("store: hand %s: %w", h.ID, err)
	}
	h.Winner = w
	return nil
}

// Resolved returns true once the winner column is set
func (h *TableHand) Resolved() bool {
	return h.Winner != game.WinnerNone
}
