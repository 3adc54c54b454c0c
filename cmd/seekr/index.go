package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/bitglade/seekr/internal/config"
	seekrerrors "github.com/bitglade/seekr/internal/errors"
	"github.com/bitglade/seekr/internal/index"
	"github.com/bitglade/seekr/internal/walk"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Manage persisted search indexes",
		Subcommands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Build (or rebuild) the index for one or more roots",
				ArgsUsage: "[path...]",
				Action:    runIndexBuild,
			},
			{
				Name:      "status",
				Usage:     "Show index metadata and staleness for a root",
				ArgsUsage: "[path]",
				Action:    runIndexStatus,
			},
		},
	}
}

func runIndexBuild(c *cli.Context) error {
	engine, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{cfg.Project.Root}
	}

	if err := engine.BuildIndex(c.Context, paths); err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Printf("indexed %s\n", p)
	}
	return nil
}

func runIndexStatus(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	root := cfg.Project.Root
	if c.NArg() > 0 {
		root = c.Args().First()
	}

	walker := walk.NewWalker(walk.OptionsFromConfig(cfg))
	manager := index.NewManager(cfg.Index.Dir, cfg.Workers(), walker)

	idx, err := manager.Load(root)
	if seekrerrors.IsNotFound(err) {
		fmt.Printf("no index for %s (run \"seekr index build\")\n", root)
		return nil
	}
	if err != nil {
		return err
	}

	fresh := "fresh"
	if manager.NeedsRebuild(root) {
		fresh = "stale"
	}

	fmt.Printf("index file:  %s\n", manager.IndexPath(root))
	fmt.Printf("created:     %s\n", idx.Metadata.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("format:      v%s\n", idx.Metadata.Version)
	fmt.Printf("files:       %d\n", idx.Metadata.FileCount)
	fmt.Printf("lines:       %d\n", idx.Metadata.LineCount)
	fmt.Printf("state:       %s\n", fresh)
	return nil
}
