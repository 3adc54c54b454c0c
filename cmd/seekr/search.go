package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bitglade/seekr/internal/types"
)

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for a pattern under one or more paths",
		ArgsUsage: "<pattern> [path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "case-insensitive", Aliases: []string{"i"}, Usage: "Case insensitive matching"},
			&cli.BoolFlag{Name: "case-sensitive", Aliases: []string{"s"}, Usage: "Force case sensitive matching (wins over -i)"},
			&cli.BoolFlag{Name: "word-regexp", Aliases: []string{"w"}, Usage: "Match whole words only"},
			&cli.BoolFlag{Name: "fixed-strings", Aliases: []string{"F"}, Usage: "Treat the pattern as a literal string"},
			&cli.BoolFlag{Name: "invert-match", Aliases: []string{"v"}, Usage: "Select non-matching lines"},
			&cli.BoolFlag{Name: "hidden", Usage: "Search hidden files and directories"},
			&cli.BoolFlag{Name: "no-ignore", Usage: "Do not respect .gitignore files"},
			&cli.BoolFlag{Name: "follow", Aliases: []string{"L"}, Usage: "Follow symbolic links"},
			&cli.BoolFlag{Name: "ai", Usage: "Mark the query as AI-enhanced"},
			&cli.IntFlag{Name: "fuzzy", Usage: "Fuzzy matching with the given edit distance", Value: -1},
			&cli.IntFlag{Name: "max-count", Aliases: []string{"m"}, Usage: "Stop after this many matches", Value: -1},
			&cli.BoolFlag{Name: "json", Usage: "Emit results as JSON"},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: seekr search <pattern> [path...]")
	}

	engine, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()[1:]
	if len(paths) == 0 {
		paths = []string{cfg.Project.Root}
	}

	query := &types.SearchQuery{
		Pattern:         c.Args().First(),
		Paths:           paths,
		CaseInsensitive: c.Bool("case-insensitive"),
		CaseSensitive:   c.Bool("case-sensitive"),
		WordRegexp:      c.Bool("word-regexp"),
		FixedStrings:    c.Bool("fixed-strings"),
		InvertMatch:     c.Bool("invert-match"),
		Hidden:          c.Bool("hidden"),
		NoIgnore:        c.Bool("no-ignore"),
		Follow:          c.Bool("follow"),
		AIEnhanced:      c.Bool("ai"),
	}
	if d := c.Int("fuzzy"); d >= 0 {
		query.Fuzzy = &d
	}
	if n := c.Int("max-count"); n >= 0 {
		query.MaxCount = &n
	}

	results, err := engine.Search(c.Context, query)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, m := range results.Matches {
		fmt.Printf("%s:%d:%s\n", m.Path, m.LineNumber, m.Line)
	}
	if results.Spelling != nil && results.Spelling.Applied {
		fmt.Fprintf(os.Stderr, "note: pattern corrected to %q\n", results.Spelling.Corrected)
	}
	fmt.Fprintf(os.Stderr, "%d matches in %d files (%v)\n",
		results.TotalMatches, len(results.FileCounts), results.SearchTime)
	return nil
}
