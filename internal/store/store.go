// Package store persists users, games, shoes and hands with gorm. All
// mutations of one hand action run inside a single Transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/glebarez/sqlite"
	"github.com/lox/blackjack/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("store: user was not found")
	ErrGameNotFound = errors.New("store: game was not found")
	ErrHandNotFound = errors.New("store: table hand was not found")
	ErrShoeNotFound = errors.New("store: shoe was not found")

	// ErrDuplicateUser indicates the email is already registered.
	ErrDuplicateUser = errors.New("store: user already exists")
)

// Store wraps the gorm handle
type Store struct {
	db     *gorm.DB
	clock  quartz.Clock
	logger zerolog.Logger
}

// Open connects using the configured dialect
func Open(cfg *config.DatabaseConfig, clock quartz.Clock, logger zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case config.DialectSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DialectMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("store: unsupported dialect %q", cfg.Dialect)
	}

	if clock == nil {
		clock = quartz.NewReal()
	}
	logger = logger.With().Str("component", "store").Logger()

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logger, cfg.LogQueries),
		NowFunc:        func() time.Time { return clock.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Store{db: db, clock: clock, logger: logger}, nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&User{}, &Game{}, &Shoe{}, &TableHand{}); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	s.logger.Debug().Msg("Schema migrated")
	return nil
}

// Transaction runs fn atomically. Returning an error from fn rolls back
// every write it made.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Tx{db: db, clock: s.clock})
	})
}

// User loads a user without locking
func (s *Store) User(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

// Game loads a game without locking
func (s *Store) Game(ctx context.Context, id string) (*Game, error) {
	var g Game
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrGameNotFound)
	}
	return &g, nil
}

// Hands lists a game's hands in deal order
func (s *Store) Hands(ctx context.Context, gameID string) ([]TableHand, error) {
	var hands []TableHand
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at, id").
		Find(&hands).Error
	if err != nil {
		return nil, fmt.Errorf("store: list hands: %w", err)
	}
	return hands, nil
}

// Games lists a user's games, newest first
func (s *Store) Games(ctx context.Context, userID string) ([]Game, error) {
	var games []Game
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("store: list games: %w", err)
	}
	return games, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
