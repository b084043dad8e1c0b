// Package service resolves users, games, shoes and hands from the store and
// drives the hand engine. Each action runs in a single store transaction, so
// a failure anywhere leaves balances, fluctuations and hands untouched.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/typeid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrInvalidUser indicates missing or malformed user fields.
var ErrInvalidUser = errors.New("service: invalid user")

// Recorder receives settled hands after their transaction commits.
type Recorder interface {
	HandResolved(rec history.Record)
	GameFinished(gameID string)
}

// ShoeBuilder produces a freshly shuffled shoe for each deal.
type ShoeBuilder func(deckCount int) (blackjack.Shoe, error)

// Service is the entry point for every game action.
type Service struct {
	store     *store.Store
	logger    zerolog.Logger
	clock     quartz.Clock
	shoes     ShoeBuilder
	deckCount int
	limits    game.BetLimits
	recorder  Recorder
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used for resolution timestamps
func WithClock(clock quartz.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithShoeBuilder replaces the shuffler
func WithShoeBuilder(b ShoeBuilder) Option {
	return func(s *Service) { s.shoes = b }
}

// WithDeckCount sets how many decks go into each shoe
func WithDeckCount(n int) Option {
	return func(s *Service) { s.deckCount = n }
}

// WithBetLimits bounds accepted bets
func WithBetLimits(limits game.BetLimits) Option {
	return func(s *Service) { s.limits = limits }
}

// WithRecorder sends settled hands to r
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// New creates a Service. Without WithShoeBuilder shoes are shuffled by an
// unseeded generator.
func New(st *store.Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     st,
		logger:    logger.With().Str("component", "service").Logger(),
		clock:     quartz.NewReal(),
		deckCount: blackjack.DefaultDeckCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shoes == nil {
		s.shoes = RandomShoes(nil)
	}
	return s
}

// CreateUser registers a user with an opening balance.
func (s *Service) CreateUser(ctx context.Context, email, name string, balance decimal.Decimal) (*store.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email %q", ErrInvalidUser, email)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", ErrInvalidUser)
	}
	if !game.Whole(balance) {
		return nil, fmt.Errorf("%w: balance %s has more than %d decimal places", ErrInvalidUser, balance, game.MoneyPlaces)
	}

	u := &store.User{
		ID:      typeid.New(typeid.User),
		Email:   email,
		Name:    strings.TrimSpace(name),
		Balance: balance,
	}
	if err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		return tx.CreateUser(u)
	}); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID).Str("email", u.Email).Str("balance", balance.String()).Msg("User created")
	return u, nil
}

// User loads a user
func (s *Service) User(ctx context.Context, userID string) (*store.User, error) {
	if err := typeid.Validate(userID, typeid.User); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
	}
	return s.store.User(ctx, userID)
}

// Games lists the user's games, newest first
func (s *Service) Games(ctx context.Context, userID string) ([]store.Game, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Games(ctx, userID)
}

// StartGame opens a new in-progress game with zero fluctuations.
func (s *Service) StartGame(ctx context.Context, userID string) (*store.Game, error) {
	g := &store.Game{
		ID:                      typeid.New(typeid.Game),
		UserID:                  userID,
		Status:                  game.StatusInProgress,
		HouseBalanceFluctuation: decimal.Zero,
		UserBalanceFluctuation:  decimal.Zero,
	}

	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		if _, err := tx.LockUser(userID); err != nil {
			return err
		}
		return tx.CreateGame(g)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("game_id", g.ID).Msg("Game started")
	return g, nil
}

// FinishGame marks the game completed. Unresolved hands do not block
// completion; they stay unsettled and are logged.
func (s *Service) FinishGame(ctx context.Context, userID, gameID string) (*store.Game, error) {
	var (
		g          *store.Game
		unresolved int64
	)
	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		var err error
		g, err = s.activeGame(tx, userID, gameID)
		if err != nil {
			return err
		}
		if unresolved, err = tx.CountUnresolvedHands(gameID); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		g.Status = g.Status.Finish()
		g.CompletedAt = &now
		return tx.SaveGame(g)
	})
	if err != nil {
		return nil, err
	}

	if unresolved > 0 {
		s.logger.Warn().Str("game_id", gameID).Int64("unresolved_hands", unresolved).
			Msg("Game finished with unresolved hands")
	}
	s.logger.Info().Str("game_id", gameID).
		Str("house_balance_fluctuation", g.HouseBalanceFluctuation.String()).
		Msg("Game finished")

	if s.recorder != nil {
		s.recorder.GameFinished(gameID)
	}
	return g, nil
}

// Hands returns every hand of a game in deal order.
func (s *Service) Hands(ctx context.Context, userID, gameID string) ([]game.HandView, error) {
	if _, err := s.ownedGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	rows, err := s.store.Hands(ctx, gameID)
	if err != nil {
		return nil, err
	}

	views := make([]game.HandView, 0, len(rows))
	for i := range rows {
		h, err := resume(&rows[i], nil)
		if err != nil {
			return nil, fmt.Errorf("hand %s: %w", rows[i].ID, err)
		}
		views = append(views, h.View(rows[i].ID))
	}
	return views, nil
}

// HistoryRecords loads the settled hands of a game as history records.
func (s *Service) HistoryRecords(ctx context.Context, userID, gameID string) ([]history.Record, error) {
	if _, err := s.ownedGame(ctx, userID, gameID); err != nil {
		return nil, err
	}

	rows, err := s.store.Hands(ctx, gameID)
	if err != nil {
		return nil, err
	}

	records := make([]history.Record, 0, len(rows))
	for i := range rows {
		if !rows[i].Resolved() {
			continue
		}
		settlement, err := game.Settle(rows[i].BetValue, rows[i].Winner)
		if err != nil {
			return nil, err
		}
		records = append(records, newRecord(&rows[i], settlement))
	}
	return records, nil
}

// Game loads one of the user's games
func (s *Service) Game(ctx context.Context, userID, gameID string) (*store.Game, error) {
	return s.ownedGame(ctx, userID, gameID)
}

func (s *Service) ownedGame(ctx context.Context, userID, gameID string) (*store.Game, error) {
	g, err := s.store.Game(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, fmt.Errorf("%w: %s", store.ErrGameNotFound, gameID)
	}
	return g, nil
}

// activeGame locks the game, checks ownership and rejects completed games.
// A game owned by someone else is reported as not found.
func (s *Service) activeGame(tx *store.Tx, userID, gameID string) (*store.Game, error) {
	g, err := tx.LockGame(gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, fmt.Errorf("%w: %s", store.ErrGameNotFound, gameID)
	}
	if err := g.Status.CheckActive(); err != nil {
		return nil, err
	}
	return g, nil
}
