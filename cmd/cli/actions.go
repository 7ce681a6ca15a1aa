package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"sankara-chandas/internal/app"
	"sankara-chandas/internal/config"
	"sankara-chandas/internal/ioformats"
	"sankara-chandas/internal/models"
	"sankara-chandas/internal/stats"
)

// environment loads the config file and applies the global flags on top.
func environment(c *cli.Context) (*app.Env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("classifier") {
		cfg.Classifier = c.String("classifier")
	}
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("report") {
		cfg.Report = c.String("report")
	}
	return app.New(cfg, c.App.ErrWriter)
}

// finish prints failures, appends the report if configured, and turns
// failures into an exit error in strict mode.
func finish(c *cli.Context, env *app.Env, rep models.Report) error {
	if env.Config.Report != "" {
		if err := ioformats.AppendNDJSON(env.Config.Report, rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	fmt.Fprintf(c.App.Writer, "%s %s: %d documents, %d verses", rep.Kind, rep.RunID, rep.Documents, rep.Verses)
	if rep.Kind == "annotate" {
		fmt.Fprintf(c.App.Writer, ", %d resolved", rep.Resolved)
	}
	fmt.Fprintf(c.App.Writer, ", %d failed\n", len(rep.Failures))
	for _, f := range rep.Failures {
		fmt.Fprintf(c.App.Writer, "  failed %s: %s\n", f.Location, f.Error)
	}
	if c.Bool("strict") && len(rep.Failures) > 0 {
		return cli.Exit(fmt.Sprintf("%d failures", len(rep.Failures)), 3)
	}
	return nil
}

func ScrapeAction(c *cli.Context) error {
	env, err := environment(c)
	if err != nil {
		return err
	}
	sources := env.Config.Sources
	if p := c.String("sources"); p != "" {
		if sources, err = ioformats.ReadSources(p); err != nil {
			return fmt.Errorf("read sources: %w", err)
		}
	}
	rep := env.Scraper().ScrapeAll(c.Context, sources)
	return finish(c, env, rep)
}

func AnnotateAction(c *cli.Context) error {
	env, err := environment(c)
	if err != nil {
		return err
	}
	unlock, err := env.Store.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	var locs []models.Location
	if folders := c.StringSlice("folder"); len(folders) > 0 {
		for _, f := range folders {
			l, err := env.Store.List(f)
			if err != nil {
				return err
			}
			locs = append(locs, l...)
		}
	} else if locs, err = env.Store.ListAll(); err != nil {
		return err
	}

	rep := env.Annotator().AnnotateAll(c.Context, locs)
	return finish(c, env, rep)
}

func StatsAction(c *cli.Context) error {
	env, err := environment(c)
	if err != nil {
		return err
	}
	locs, err := env.Store.ListAll()
	if err != nil {
		return err
	}
	entries, failures := stats.Collect(env.Store, locs)
	for _, f := range failures {
		env.Log.Errorf("skip %s: %s", f.Location, f.Error)
	}
	st := stats.Compute(entries)

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	top := c.Int("top")
	fmt.Fprintln(c.App.Writer, stats.Summary(st))
	fmt.Fprintln(c.App.Writer, stats.Table("meter", st.Meters, top))
	fmt.Fprintln(c.App.Writer, stats.Table("swara", st.Swaras, top))
	fmt.Fprintln(c.App.Writer, stats.Table("vyanjana", st.Vyanjanas, top))
	for _, r := range st.NeedReview {
		fmt.Fprintf(c.App.Writer, "review %s: %s %s\n", r.Location, r.Reason, strings.Join(r.Outliers, ", "))
	}
	return nil
}

func ResolveAction(c *cli.Context) error {
	env, err := environment(c)
	if err != nil {
		return err
	}
	// each argument is one line of the verse
	verse := strings.Join(c.Args().Slice(), "\n")
	if verse == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		verse = string(data)
	}
	res := env.Resolver.ResolveDetailed(c.Context, verse)
	label := res.Label
	if label == "" {
		label = "(unresolved)"
	}
	fmt.Fprintf(c.App.Writer, "%s\t%d attempts, %d lines dropped\n", label, res.Attempts, res.Dropped)
	return nil
}
