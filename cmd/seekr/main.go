package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bitglade/seekr/internal/config"
	"github.com/bitglade/seekr/internal/debug"
	"github.com/bitglade/seekr/internal/index"
	"github.com/bitglade/seekr/internal/search"
	"github.com/bitglade/seekr/internal/version"
	"github.com/bitglade/seekr/internal/walk"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}

	app := &cli.App{
		Name:                   "seekr",
		Usage:                  "Regex and fuzzy code search with a persisted line index",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".seekr.kdl",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a timestamped log file",
			},
		},
		Before: func(c *cli.Context) error {
			switch {
			case c.Bool("debug-log"):
				debug.EnableDebug = "true"
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "seekr: debug log: %s\n", path)
				debug.Printf("seekr %s starting\n", version.Info())
			case c.Bool("debug"):
				debug.EnableDebug = "true"
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			searchCmd(),
			indexCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "seekr: %v\n", err)
		os.Exit(1)
	}
}

// newEngine wires the engine from configuration. Collaborators (AI,
// spelling, LSP) are attached by the surrounding toolkit, not the CLI.
func newEngine(c *cli.Context) (*search.Engine, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	walker := walk.NewWalker(walk.OptionsFromConfig(cfg))
	manager := index.NewManager(cfg.Index.Dir, cfg.Workers(), walker)
	return search.NewEngine(cfg, manager), cfg, nil
}
