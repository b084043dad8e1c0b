package store

import (
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx is the write surface available inside Store.Transaction. Lock* methods
// take row locks on dialects that support them.
type Tx struct {
	db    *gorm.DB
	clock quartz.Clock
}

func (tx *Tx) locked() *gorm.DB {
	return tx.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateUser inserts a new user
func (tx *Tx) CreateUser(u *User) error {
	var count int64
	if err := tx.db.Model(&User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("store: check email: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, u.Email)
	}

	if err := tx.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, u.Email)
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// LockUser loads a user for update
func (tx *Tx) LockUser(id string) (*User, error) {
	var u User
	if err := tx.locked().First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

// SaveUser writes the balance back
func (tx *Tx) SaveUser(u *User) error {
	err := tx.db.Model(u).UpdateColumns(map[string]any{
		"balance":    u.Balance,
		"updated_at": tx.clock.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("store: save user: %w", err)
	}
	return nil
}

// CreateGame inserts a new game
func (tx *Tx) CreateGame(g *Game) error {
	if err := tx.db.Create(g).Error; err != nil {
		return fmt.Errorf("store: create game: %w", err)
	}
	return nil
}

// LockGame loads a game for update. Every hand action locks its game first,
// which serializes actions within one game.
func (tx *Tx) LockGame(id string) (*Game, error) {
	var g Game
	if err := tx.locked().First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrGameNotFound)
	}
	return &g, nil
}

// SaveGame persists status and fluctuations
func (tx *Tx) SaveGame(g *Game) error {
	if err := tx.db.Save(g).Error; err != nil {
		return fmt.Errorf("store: save game: %w", err)
	}
	return nil
}

// LockShoe loads the remaining cards of a game for update
func (tx *Tx) LockShoe(gameID string) (*Shoe, error) {
	var s Shoe
	if err := tx.locked().First(&s, "game_id = ?", gameID).Error; err != nil {
		return nil, notFound(err, ErrShoeNotFound)
	}
	return &s, nil
}

// PutShoe replaces the game's shoe, creating it when absent
func (tx *Tx) PutShoe(gameID string, cards []string) error {
	s := Shoe{
		GameID:    gameID,
		Cards:     datatypes.JSONSlice[string](cards),
		UpdatedAt: tx.clock.Now().UTC(),
	}
	err := tx.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cards", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("store: put shoe: %w", err)
	}
	return nil
}

// CreateHand inserts a newly dealt hand
func (tx *Tx) CreateHand(h *TableHand) error {
	if err := tx.db.Create(h).Error; err != nil {
		return fmt.Errorf("store: create hand: %w", err)
	}
	return nil
}

// LockHand loads a hand of the given game for update
func (tx *Tx) LockHand(gameID, handID string) (*TableHand, error) {
	var h TableHand
	err := tx.locked().First(&h, "id = ? AND game_id = ?", handID, gameID).Error
	if err != nil {
		return nil, notFound(err, ErrHandNotFound)
	}
	return &h, nil
}

// SaveHand writes cards, points and winner. Only unresolved rows are
// updated; a hand already resolved yields game.ErrHandResolved.
func (tx *Tx) SaveHand(h *TableHand) error {
	if !h.BetValue.IsPositive() {
		return fmt.Errorf("%w: bet_value must be greater than 0", game.ErrInvalidBet)
	}

	updates := map[string]any{
		"dealer_cards":  h.DealerCards,
		"player_cards":  h.PlayerCards,
		"dealer_points": h.DealerPoints,
		"player_points": h.PlayerPoints,
		"winner":        h.Winner,
		"resolved_at":   h.ResolvedAt,
		"updated_at":    tx.clock.Now().UTC(),
	}
	res := tx.db.Model(&TableHand{}).
		Where("id = ? AND winner = ?", h.ID, game.WinnerNone).
		UpdateColumns(updates)
	if res.Error != nil {
		return fmt.Errorf("store: save hand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", game.ErrHandResolved, h.ID)
	}
	return nil
}

// CountUnresolvedHands counts hands of a game still awaiting action
func (tx *Tx) CountUnresolvedHands(gameID string) (int64, error) {
	var n int64
	err := tx.db.Model(&TableHand{}).
		Where("game_id = ? AND winner = ?", gameID, game.WinnerNone).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("store: count hands: %w", err)
	}
	return n, nil
}
