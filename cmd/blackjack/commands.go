package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/shopspring/decimal"
)

// MigrateCmd creates the schema. Every command migrates on start, so this
// only exists for explicit provisioning.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		a.logger.Info().Str("dialect", a.cfg.Database.Dialect).Msg("Schema up to date")
		return nil
	})
}

type UserCmd struct {
	Create UserCreateCmd `cmd:"" help:"Register a user with an opening balance"`
	Show   UserShowCmd   `cmd:"" help:"Show a user's balance"`
}

type UserCreateCmd struct {
	Email   string `arg:"" help:"Unique email address"`
	Name    string `help:"Display name"`
	Balance string `default:"1000" help:"Opening balance"`
	JSON    bool   `help:"Print JSON"`
}

func (c *UserCreateCmd) Run(g *Globals) error {
	balance, err := decimal.NewFromString(c.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", c.Balance, err)
	}
	return g.withApp(func(ctx context.Context, a *app) error {
		u, err := a.svc.CreateUser(ctx, c.Email, c.Name, balance)
		if err != nil {
			return err
		}
		if c.JSON {
			return a.printJSON(u)
		}
		a.println(u.ID)
		return nil
	})
}

type UserShowCmd struct {
	User string `arg:"" help:"User ID"`
	JSON bool   `help:"Print JSON"`
}

func (c *UserShowCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		u, err := a.svc.User(ctx, c.User)
		if err != nil {
			return err
		}
		if c.JSON {
			return a.printJSON(u)
		}
		a.println(fmt.Sprintf("%s  %s  balance %s", u.ID, u.Email, u.Balance))
		return nil
	})
}

type GameCmd struct {
	Start  GameStartCmd  `cmd:"" help:"Start a new game"`
	Finish GameFinishCmd `cmd:"" help:"Mark a game completed"`
	List   GameListCmd   `cmd:"" help:"List a user's games"`
}

type GameStartCmd struct {
	User string `required:"" help:"User ID"`
}

func (c *GameStartCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		started, err := a.svc.StartGame(ctx, c.User)
		if err != nil {
			return err
		}
		return a.printJSON(map[string]string{"game_id": started.ID})
	})
}

type GameFinishCmd struct {
	User string `required:"" help:"User ID"`
	Game string `arg:"" help:"Game ID"`
}

func (c *GameFinishCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		_, err := a.svc.FinishGame(ctx, c.User, c.Game)
		return err
	})
}

type GameListCmd struct {
	User string `required:"" help:"User ID"`
}

func (c *GameListCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		games, err := a.svc.Games(ctx, c.User)
		if err != nil {
			return err
		}
		for _, gm := range games {
			a.println(fmt.Sprintf("%s  %-11s  house %s  user %s",
				gm.ID, gm.Status, gm.HouseBalanceFluctuation, gm.UserBalanceFluctuation))
		}
		return nil
	})
}

// HandFlags are shared by the hand actions
type HandFlags struct {
	User string `required:"" help:"User ID"`
	Game string `required:"" help:"Game ID"`
	JSON bool   `help:"Print the hand view as JSON"`
}

func (f HandFlags) print(a *app, v game.HandView) error {
	if f.JSON {
		return a.printJSON(v)
	}
	a.println(display.Hand(v))
	return nil
}

type DealCmd struct {
	HandFlags `embed:""`
	Bet string `arg:"" help:"Bet value"`
}

func (c *DealCmd) Run(g *Globals) error {
	bet, err := decimal.NewFromString(c.Bet)
	if err != nil {
		return fmt.Errorf("%w: %q", game.ErrInvalidBet, c.Bet)
	}
	return g.withApp(func(ctx context.Context, a *app) error {
		v, err := a.svc.Deal(ctx, c.User, c.Game, bet)
		if err != nil {
			return err
		}
		return c.print(a, v)
	})
}

type HitCmd struct {
	HandFlags `embed:""`
	Hand string `arg:"" help:"Table hand ID"`
}

func (c *HitCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		v, err := a.svc.Hit(ctx, c.User, c.Game, c.Hand)
		if err != nil {
			return err
		}
		return c.print(a, v)
	})
}

type StandCmd struct {
	HandFlags `embed:""`
	Hand string `arg:"" help:"Table hand ID"`
}

func (c *StandCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		v, err := a.svc.Stand(ctx, c.User, c.Game, c.Hand)
		if err != nil {
			return err
		}
		return c.print(a, v)
	})
}

type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" help:"Show every hand of a game"`
	Export HistoryExportCmd `cmd:"" help:"Write settled hands of a game as TOML"`
	Show   HistoryShowCmd   `cmd:"" help:"Print a hands.toml file"`
}

type HistoryListCmd struct {
	HandFlags `embed:""`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		views, err := a.svc.Hands(ctx, c.User, c.Game)
		if err != nil {
			return err
		}
		if c.JSON {
			return a.printJSON(views)
		}
		for _, v := range views {
			a.println(display.Hand(v))
		}
		return nil
	})
}

type HistoryExportCmd struct {
	User string `required:"" help:"User ID"`
	Game string `required:"" help:"Game ID"`
	Out  string `short:"o" type:"path" help:"Output file (default <history dir>/game-<id>/export.toml)"`
}

func (c *HistoryExportCmd) Run(g *Globals) error {
	return g.withApp(func(ctx context.Context, a *app) error {
		records, err := a.svc.HistoryRecords(ctx, c.User, c.Game)
		if err != nil {
			return err
		}
		out := c.Out
		if out == "" {
			out = filepath.Join(a.cfg.History.Dir, "game-"+c.Game, "export.toml")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := history.ExportFile(out, records); err != nil {
			return err
		}
		a.logger.Info().Str("path", out).Int("hands", len(records)).Msg("History exported")
		return nil
	})
}

type HistoryShowCmd struct {
	File string `arg:"" type:"existingfile" help:"Path to a hands.toml file"`
}

func (c *HistoryShowCmd) Run(g *Globals) error {
	records, err := history.ReadFile(c.File)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %s  bet %s  dealer %v=%d  player %v=%d  %s\n",
			r.ResolvedAt.Format(time.RFC3339), r.HandID, r.Bet,
			r.DealerCards, r.DealerPoints, r.PlayerCards, r.PlayerPoints, r.Winner)
	}
	return nil
}

type SimulateCmd struct {
	Players     int    `default:"4" help:"Concurrent simulated players"`
	Hands       int    `default:"100" help:"Hands per player"`
	Bet         string `default:"10" help:"Bet per hand"`
	Balance     string `default:"10000" help:"Starting balance per player"`
	HitBelow    int    `default:"17" help:"Hit while the player total is below this"`
	Concurrency int    `default:"0" help:"Maximum players at once (0 = all)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	bet, err := decimal.NewFromString(c.Bet)
	if err != nil {
		return fmt.Errorf("invalid bet %q: %w", c.Bet, err)
	}
	balance, err := decimal.NewFromString(c.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", c.Balance, err)
	}

	return g.withApp(func(ctx context.Context, a *app) error {
		start := time.Now()
		sim := simulator.New(a.svc, simulator.Config{
			Players:         c.Players,
			HandsPerPlayer:  c.Hands,
			Bet:             bet,
			StartingBalance: balance,
			HitBelow:        c.HitBelow,
			Concurrency:     c.Concurrency,
			RunID:           fmt.Sprintf("%d", start.UnixNano()),
			Logger:          a.logger,
		})
		res, err := sim.Run(ctx)
		if err != nil {
			return err
		}

		a.println(display.Stats(res.Stats))
		a.logger.Info().
			Int("games", len(res.GameIDs)).
			Int("broke", res.BrokePlayer).
			Str("house_net", res.HouseNet.String()).
			Dur("elapsed", time.Since(start)).
			Msg("Simulation complete")
		return nil
	})
}
