// Package config loads the HCL configuration shared by the blackjack binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
)

// Config represents the complete configuration file
type Config struct {
	LogLevel string          `hcl:"log_level,optional"`
	Database *DatabaseConfig `hcl:"database,block"`
	Table    *TableConfig    `hcl:"table,block"`
	History  *HistoryConfig  `hcl:"history,block"`
}

// DatabaseConfig selects the store backend
type DatabaseConfig struct {
	Dialect      string `hcl:"dialect,optional"`
	DSN          string `hcl:"dsn,optional"`
	MaxOpenConns int    `hcl:"max_open_conns,optional"`
	LogQueries   bool   `hcl:"log_queries,optional"`
}

// TableConfig holds the house rules that are configurable
type TableConfig struct {
	DeckCount int    `hcl:"deck_count,optional"`
	MinBet    string `hcl:"min_bet,optional"`
	MaxBet    string `hcl:"max_bet,optional"`
}

// HistoryConfig controls hand-history files
type HistoryConfig struct {
	Enabled       bool   `hcl:"enabled,optional"`
	Dir           string `hcl:"dir,optional"`
	FlushInterval string `hcl:"flush_interval,optional"`
	FlushHands    int    `hcl:"flush_hands,optional"`
}

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		Database: &DatabaseConfig{Dialect: DialectSQLite},
		History:  &HistoryConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	// Blocks are optional in the file
	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database.Dialect == "" {
		c.Database.Dialect = DialectSQLite
	}
	if c.Database.DSN == "" && c.Database.Dialect == DialectSQLite {
		c.Database.DSN = "blackjack.db"
	}
	if c.Database.MaxOpenConns == 0 {
		if c.Database.Dialect == DialectSQLite {
			// SQLite allows a single writer
			c.Database.MaxOpenConns = 1
		} else {
			c.Database.MaxOpenConns = 10
		}
	}
	if c.Table.DeckCount == 0 {
		c.Table.DeckCount = 4
	}
	if c.Table.MinBet == "" {
		c.Table.MinBet = "1"
	}
	if c.History.Dir == "" {
		c.History.Dir = "hands"
	}
	if c.History.FlushInterval == "" {
		c.History.FlushInterval = "10s"
	}
	if c.History.FlushHands == 0 {
		c.History.FlushHands = 50
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case DialectSQLite, DialectMySQL:
	default:
		return fmt.Errorf("database: unsupported dialect %q", c.Database.Dialect)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database: dsn is required for %s", c.Database.Dialect)
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database: max_open_conns must not be negative")
	}

	if c.Table.DeckCount < 1 || c.Table.DeckCount > 8 {
		return fmt.Errorf("table: deck_count must be between 1 and 8, got %d", c.Table.DeckCount)
	}
	minBet, maxBet, err := c.Table.Limits()
	if err != nil {
		return err
	}
	if !minBet.IsPositive() {
		return fmt.Errorf("table: min_bet must be positive")
	}
	if maxBet.IsPositive() && maxBet.LessThan(minBet) {
		return fmt.Errorf("table: max_bet %s is below min_bet %s", maxBet, minBet)
	}

	if _, err := c.History.Interval(); err != nil {
		return err
	}
	if c.History.FlushHands < 0 {
		return fmt.Errorf("history: flush_hands must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Limits parses the bet bounds. A missing max_bet yields zero (unbounded).
func (t TableConfig) Limits() (minBet, maxBet decimal.Decimal, err error) {
	minBet, err = decimal.NewFromString(t.MinBet)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("table: invalid min_bet %q: %w", t.MinBet, err)
	}
	if t.MaxBet == "" {
		return minBet, decimal.Zero, nil
	}
	maxBet, err = decimal.NewFromString(t.MaxBet)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("table: invalid max_bet %q: %w", t.MaxBet, err)
	}
	return minBet, maxBet, nil
}

// Interval parses flush_interval
func (h HistoryConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(h.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("history: invalid flush_interval %q: %w", h.FlushInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("history: flush_interval must be positive")
	}
	return d, nil
}
