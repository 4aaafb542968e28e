// Command wikidex builds (or loads) a full-text index over a corpus of
// <doc> abstracts and searches it for one or more terms. Argument parsing,
// interactive prompting, and result formatting are deliberately minimal:
// the CLI is a thin, non-goal front end over the wikidex package.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/wikidex"
	"github.com/standardbeagle/wikidex/internal/config"
)

func main() {
	app := &cli.App{
		Name:      "wikidex",
		Usage:     "full-text index over a corpus of <doc> abstracts",
		ArgsUsage: "TERM...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "index",
				Usage:    "corpus file path; also the base path for .dcm/.idx caches",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional TOML file of build tunables (flags still win over it)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "mapreduce, pipeline_partitioned, or pipeline_shared",
			},
			&cli.IntFlag{
				Name:  "parse-threads",
				Usage: "number of parser goroutines / chunks",
			},
			&cli.IntFlag{
				Name:  "index-threads",
				Usage: "number of indexer goroutines",
			},
			&cli.BoolFlag{
				Name:  "no-cache-read",
				Usage: "ignore any on-disk index artifacts, always rebuild",
			},
			&cli.BoolFlag{
				Name:  "no-cache-write",
				Usage: "do not persist the built index",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	terms := c.Args().Slice()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("wikidex: %v", err), 1)
	}

	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("parse-threads") {
		cfg.ParseThreads = c.Int("parse-threads")
	}
	if c.IsSet("index-threads") {
		cfg.IndexThreads = c.Int("index-threads")
	}
	if c.IsSet("no-cache-read") {
		cfg.NoCacheRead = c.Bool("no-cache-read")
	}
	if c.IsSet("no-cache-write") {
		cfg.NoCacheWrite = c.Bool("no-cache-write")
	}

	opts := wikidex.Options{
		Backend:      wikidex.Backend(cfg.Backend),
		ParseThreads: cfg.ParseThreads,
		IndexThreads: cfg.IndexThreads,
		NoCacheRead:  cfg.NoCacheRead,
		NoCacheWrite: cfg.NoCacheWrite,
	}

	idx, err := wikidex.Build(c.String("index"), opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("wikidex: %v", err), 1)
	}
	defer idx.Close()

	if perr := idx.ParseErrors(); perr != nil {
		log.Printf("wikidex: %v", perr)
	}

	fmt.Printf("indexed %d documents, %d distinct terms\n", idx.NumDocuments(), idx.NumTokens())

	for _, result := range idx.Search(terms) {
		fmt.Printf("%s: %d matches\n", result.Term, len(result.Matches))
		for _, doc := range result.Matches {
			fmt.Printf("  [%d] %s (%s)\n", doc.ID, doc.Title, doc.URL)
		}
	}

	return nil
}
