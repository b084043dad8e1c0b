package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)

	assert.Equal(t, DialectSQLite, cfg.Database.Dialect)
	assert.Equal(t, "blackjack.db", cfg.Database.DSN)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 4, cfg.Table.DeckCount)
	assert.True(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

database {
  dialect        = "mysql"
  dsn            = "blackjack:secret@tcp(localhost:3306)/blackjack?parseTime=true"
  max_open_conns = 20
}

table {
  deck_count = 6
  min_bet    = "5"
  max_bet    = "500"
}

history {
  enabled        = true
  dir            = "/var/lib/blackjack/hands"
  flush_interval = "30s"
  flush_hands    = 10
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DialectMySQL, cfg.Database.Dialect)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6, cfg.Table.DeckCount)

	minBet, maxBet, err := cfg.Table.Limits()
	require.NoError(t, err)
	assert.Equal(t, "5", minBet.String())
	assert.Equal(t, "500", maxBet.String())

	interval, err := cfg.History.Interval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, interval)
	assert.Equal(t, 10, cfg.History.FlushHands)
}

func TestLoadPartialFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  deck_count = 2
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Table.DeckCount)
	assert.Equal(t, "1", cfg.Table.MinBet)
	assert.Equal(t, DialectSQLite, cfg.Database.Dialect)
	assert.Equal(t, "10s", cfg.History.FlushInterval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad dialect":    `database { dialect = "postgres" }`,
		"mysql no dsn":   `database { dialect = "mysql" }`,
		"deck count":     `table { deck_count = 12 }`,
		"min above max":  "table {\n  min_bet = \"10\"\n  max_bet = \"5\"\n}",
		"bad bet":        `table { min_bet = "ten" }`,
		"bad interval":   `history { flush_interval = "soon" }`,
		"bad log level":  `log_level = "verbose"`,
		"not hcl at all": `table {`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
