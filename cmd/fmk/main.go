package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fmkparty/fmk/internal/config"
	"github.com/fmkparty/fmk/internal/storage"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `help:"Path to HCL config file" type:"path" default:"~/.config/fmk/fmk.hcl"`
	Debug   bool             `help:"Enable debug logging"`

	Play       PlayCmd       `cmd:"" help:"Play a game"`
	Categories CategoriesCmd `cmd:"" help:"List available categories"`
	History    HistoryCmd    `cmd:"" help:"Show past games"`
	Players    PlayersCmd    `cmd:"" help:"Manage saved players"`
	Generate   GenerateCmd   `cmd:"" help:"Generate a custom category with AI"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fmk"),
		kong.Description("Fuck, Marry, Kill: the party game, in your terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// setup loads the config and builds the logger every command shares.
func setup(cli *CLI) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})
	return cfg, logger, nil
}

// openStore creates the data dir if needed and opens the database.
func openStore(cfg *config.Config) (*storage.Store, error) {
	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return storage.Open(cfg.DatabasePath())
}
