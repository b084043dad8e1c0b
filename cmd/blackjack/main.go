package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" type:"path" help:"HCL config file (missing file uses defaults)"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Log as JSON instead of console output"`
	Seed     *int64 `help:"Deterministic shuffle seed (optional)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Migrate  MigrateCmd       `cmd:"" help:"Create or update the database schema"`
	User     UserCmd          `cmd:"" help:"Manage users"`
	Game     GameCmd          `cmd:"" help:"Start, finish and list games"`
	Deal     DealCmd          `cmd:"" help:"Place a bet and deal a new hand"`
	Hit      HitCmd           `cmd:"" help:"Draw a card for the player"`
	Stand    StandCmd         `cmd:"" help:"Stand and let the dealer play out"`
	History  HistoryCmd       `cmd:"" help:"Inspect and export hand history"`
	Simulate SimulateCmd      `cmd:"" help:"Play simulated players concurrently"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack hand engine with persistent balances"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
