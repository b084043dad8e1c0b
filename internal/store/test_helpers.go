package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/config"
	"github.com/rs/zerolog"
)

// NewTestStore opens a migrated SQLite store in a temp dir
func NewTestStore(t testing.TB, clock quartz.Clock) *Store {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Dialect:      config.DialectSQLite,
		DSN:          filepath.Join(t.TempDir(), "blackjack.db"),
		MaxOpenConns: 1,
	}
	s, err := Open(cfg, clock, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

// FailGameUpdates installs a trigger that aborts every later update of a
// game row, so settlement fails after the hand has been written.
func FailGameUpdates(t testing.TB, s *Store) {
	t.Helper()
	err := s.db.Exec(`CREATE TRIGGER fail_game_update BEFORE UPDATE ON games
BEGIN
	SELECT RAISE(ABORT, 'game update refused');
END`).Error
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}
