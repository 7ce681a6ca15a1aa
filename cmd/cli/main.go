package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chandas",
		Usage: "harvest Sankara verse texts and classify their meters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "YAML config file (optional)"},
			&cli.StringFlag{Name: "root", Usage: "corpus directory"},
			&cli.IntFlag{Name: "workers", Usage: "documents processed concurrently"},
			&cli.StringFlag{Name: "classifier", Usage: "meter classifier: syllabic or remote"},
			&cli.StringFlag{Name: "endpoint", Usage: "remote classifier URL"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "report", Usage: "append the run report to this NDJSON file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "scrape",
				Usage: "fetch every text of the configured listing pages into the corpus",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sources", Usage: "CSV or NDJSON list of listing pages, replaces the configured ones"},
					&cli.BoolFlag{Name: "strict", Usage: "exit non-zero when any page failed"},
				},
				Action: ScrapeAction,
			},
			{
				Name:  "annotate",
				Usage: "resolve the meter of every verse and write chandasList back",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "folder", Usage: "only annotate these folders"},
					&cli.BoolFlag{Name: "strict", Usage: "exit non-zero when any document failed"},
				},
				Action: AnnotateAction,
			},
			{
				Name:  "stats",
				Usage: "print meter and letter statistics of the corpus",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top", Value: 15, Usage: "rows per table"},
					&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
				},
				Action: StatsAction,
			},
			{
				Name:      "resolve",
				Usage:     "resolve the meter of one verse (one argument per line, or stdin)",
				ArgsUsage: "[line...]",
				Action:    ResolveAction,
			},
		},
	}
}
