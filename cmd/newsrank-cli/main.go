// Command newsrank-cli runs searches, probes the document store and loads fixture documents
// against the configured newsrank stack.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gauravkeywords/gameloft/internal/version"
)

func main() {
	if err := newApp(os.Stdout, connectStack).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer, connect connectFunc) *cli.App {
	r := &runner{out: out, connect: connect}

	return &cli.App{
		Name:    "newsrank-cli",
		Usage:   "Time-decayed semantic search over news content",
		Version: version.String(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (default: config/<env>.yaml)",
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name used to locate the config file",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one semantic search and print the ranked results as JSON",
				ArgsUsage: "[query]",
				Action:    r.search,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Query text (or pass it as the first argument)",
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "First day of the window (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "end",
						Usage:    "Last day of the window (YYYY-MM-DD)",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum cosine similarity, exclusive (default from config)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (default from config)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Probe the document store and the vector search path",
				Action: r.status,
			},
			{
				Name:      "load",
				Usage:     "Insert documents from a JSONL file ({content, metadata, embedding} per line)",
				ArgsUsage: "<file|->",
				Action:    r.load,
			},
		},
	}
}
