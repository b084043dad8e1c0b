// Package simulator plays many hands through the service concurrently and
// checks that balances and game fluctuations stay consistent.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/service"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrLedgerMismatch indicates a player's balance change disagrees with the
// game's user fluctuation.
var ErrLedgerMismatch = errors.New("simulator: ledger mismatch")

// Config holds configuration for running simulations
type Config struct {
	Players         int
	HandsPerPlayer  int
	Bet             decimal.Decimal
	StartingBalance decimal.Decimal
	// HitBelow is the player total under which the policy keeps hitting
	HitBelow int
	// Concurrency caps simultaneous players, 0 means all at once
	Concurrency int
	// RunID keeps user emails unique across runs against one database
	RunID  string
	Logger zerolog.Logger
}

// Result summarises a run
type Result struct {
	Stats       *statistics.Statistics
	HouseNet    decimal.Decimal
	GameIDs     []string
	BrokePlayer int
}

// Simulator runs simulated players against a service
type Simulator struct {
	config Config
	svc    *service.Service
}

// New creates a new simulator with the given configuration
func New(svc *service.Service, config Config) *Simulator {
	if config.Players <= 0 {
		config.Players = 1
	}
	if config.HitBelow <= 0 {
		config.HitBelow = game.DealerStandsOn
	}
	if !config.Bet.IsPositive() {
		config.Bet = decimal.NewFromInt(10)
	}
	if !config.StartingBalance.IsPositive() {
		config.StartingBalance = config.Bet.Mul(decimal.NewFromInt(int64(max(config.HandsPerPlayer, 1))))
	}
	return &Simulator{config: config, svc: svc}
}

// Run plays every player to completion. The first failing player cancels
// the rest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if s.config.Concurrency > 0 {
		g.SetLimit(s.config.Concurrency)
	}

	var (
		mu     sync.Mutex
		result = &Result{Stats: &statistics.Statistics{}, HouseNet: decimal.Zero}
	)
	for i := range s.config.Players {
		g.Go(func() error {
			p, err := s.playPlayer(ctx, i)
			if err != nil {
				return fmt.Errorf("player %d: %w", i, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Stats.Merge(p.stats)
			result.HouseNet = result.HouseNet.Add(p.houseNet)
			result.GameIDs = append(result.GameIDs, p.gameID)
			if p.broke {
				result.BrokePlayer++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Stats.Hands > 0 {
		if err := result.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}
	return result, nil
}

type playerResult struct {
	stats    *statistics.Statistics
	houseNet decimal.Decimal
	gameID   string
	broke    bool
}

func (s *Simulator) playPlayer(ctx context.Context, idx int) (*playerResult, error) {
	email := fmt.Sprintf("sim-%s-%d@blackjack.local", s.config.RunID, idx)
	user, err := s.svc.CreateUser(ctx, email, fmt.Sprintf("sim-%d", idx), s.config.StartingBalance)
	if err != nil {
		return nil, err
	}
	g, err := s.svc.StartGame(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := &playerResult{stats: &statistics.Statistics{}, gameID: g.ID}
	for range s.config.HandsPerPlayer {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.playHand(ctx, user.ID, g.ID)
		if errors.Is(err, game.ErrInsufficientBalance) {
			out.broke = true
			break
		}
		if err != nil {
			return nil, err
		}
		out.stats.Add(res)
	}

	finished, err := s.svc.FinishGame(ctx, user.ID, g.ID)
	if err != nil {
		return nil, err
	}
	final, err := s.svc.User(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	change := final.Balance.Sub(s.config.StartingBalance)
	if !change.Equal(finished.UserBalanceFluctuation) {
		return nil, fmt.Errorf("%w: balance change %s, user fluctuation %s",
			ErrLedgerMismatch, change, finished.UserBalanceFluctuation)
	}
	out.houseNet = finished.HouseBalanceFluctuation

	s.config.Logger.Debug().
		Str("game_id", g.ID).
		Int("hands", out.stats.Hands).
		Str("balance", final.Balance.String()).
		Msg("Simulated player finished")
	return out, nil
}

func (s *Simulator) playHand(ctx context.Context, userID, gameID string) (statistics.HandResult, error) {
	view, err := s.svc.Deal(ctx, userID, gameID, s.config.Bet)
	if err != nil {
		return statistics.HandResult{}, err
	}
	natural := view.Winner != game.WinnerNone

	hits := 0
	for view.Winner == game.WinnerNone {
		if view.Player.Points < s.config.HitBelow {
			view, err = s.svc.Hit(ctx, userID, gameID, view.TableHandID)
			hits++
		} else {
			view, err = s.svc.Stand(ctx, userID, gameID, view.TableHandID)
		}
		if err != nil {
			return statistics.HandResult{}, err
		}
	}

	return statistics.HandResult{
		Net:          net(view.Winner),
		Winner:       string(view.Winner),
		PlayerPoints: view.Player.Points,
		DealerPoints: view.Dealer.Points,
		PlayerBusted: view.Player.IsBusted,
		DealerBusted: view.Dealer.IsBusted,
		Natural:      natural,
		Hits:         hits,
	}, nil
}

func net(w game.Winner) float64 {
	switch w {
	case game.WinnerPlayer:
		return 1
	case game.WinnerDealer:
		return -1
	default:
		return 0
	}
}
