package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/service"
	"github.com/lox/blackjack/internal/store"
	"github.com/rs/zerolog"
)

// app holds everything a command needs
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   *store.Store
	history *history.Manager
	svc     *service.Service
	out     io.Writer
}

func (g *Globals) logger(level string) zerolog.Logger {
	lvl := shared.Level(level, g.Debug)
	if g.JSONLogs {
		return shared.SetupStructuredLogger(lvl)
	}
	return shared.SetupLogger(lvl)
}

// open loads config, connects the store and wires the service. The schema
// is migrated on every start.
func (g *Globals) open(ctx context.Context) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	logger := g.logger(cfg.LogLevel)
	clock := quartz.NewReal()

	st, err := store.Open(cfg.Database, clock, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	minBet, maxBet, err := cfg.Table.Limits()
	if err != nil {
		st.Close()
		return nil, err
	}

	seed := randutil.Seed(g.Seed)
	if g.Seed != nil {
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	}
	rng := randutil.NewLocked(randutil.New(seed))

	opts := []service.Option{
		service.WithClock(clock),
		service.WithDeckCount(cfg.Table.DeckCount),
		service.WithBetLimits(game.BetLimits{Min: minBet, Max: maxBet}),
		service.WithShoeBuilder(service.RandomShoes(rng)),
	}

	a := &app{cfg: cfg, logger: logger, store: st, out: os.Stdout}
	if cfg.History.Enabled {
		interval, err := cfg.History.Interval()
		if err != nil {
			st.Close()
			return nil, err
		}
		a.history = history.NewManager(logger, history.ManagerConfig{
			BaseDir:       cfg.History.Dir,
			FlushInterval: interval,
			FlushHands:    cfg.History.FlushHands,
			Clock:         clock,
		})
		opts = append(opts, service.WithRecorder(a.history))
	}

	a.svc = service.New(st, logger, opts...)
	return a, nil
}

// Close flushes history and releases the database
func (a *app) Close() {
	if a.history != nil {
		a.history.Shutdown()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store")
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

// withApp runs fn with a wired app and a signal-aware context.
func (g *Globals) withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := g.open(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := shared.SetupSignalHandler(a.logger)
	defer stop()
	return fn(ctx, a)
}
