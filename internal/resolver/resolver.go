
// Package resolver finds the meter of a raw verse by asking a classifier
// repeatedly, dropping leading lines until something matches.
package resolver

import (
	"context"
	"regexp"
	"strings"

	"sankara-chandas/internal/classifier"
	"sankara-chandas/pkg/logger"
)

const (
	// MinLines is the smallest block a meter is identified from.
	MinLines = 2
	// LongVerseLines is the line count above which a verse is flagged for review.
	LongVerseLines = 8
)

var (
	trailerRe = regexp.MustCompile(`\n{3,}`)
	newlineRe = regexp.MustCompile(`\n+`)
)

// Result is the outcome of one resolution.
type Result struct {
	Label    string `json:"label"`
	Attempts int    `json:"attempts"`
	Dropped  int    `json:"dropped"` // leading lines removed before the last attempt
	Lines    int    `json:"lines"`
}

type Resolver struct {
	meter classifier.Meter
	log   *logger.Logger
}

func New(meter classifier.Meter, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{meter: meter, log: log}
}

// Resolve returns the meter label of verse, or "" when no trimmed form of it
// matched.
func (r *Resolver) Resolve(ctx context.Context, verse string) string {
	return r.ResolveDetailed(ctx, verse).Label
}

func (r *Resolver) ResolveDetailed(ctx context.Context, verse string) Result {
	lines := Lines(verse)
	res := Result{Lines: len(lines)}
	if len(lines) > LongVerseLines {
		r.log.Warnf("verse spans %d lines, review manually: %q", len(lines), firstLine(lines))
	}

	for len(lines) >= MinLines {
		res.Attempts++
		out, err := r.meter.Identify(ctx, strings.Join(lines, "\n"))
		if err != nil {
			r.log.Debugf("classifier failed on %d lines: %v", len(lines), err)
		} else if label, ok := classifier.Primary(out); ok {
			res.Label = label
			break
		}
		lines = lines[1:]
	}
	if res.Attempts > 0 {
		res.Dropped = res.Attempts - 1
	}
	return res
}

// Lines cuts verse at its first run of three or more newlines and splits the
// rest into non-empty lines.
func Lines(verse string) []string {
	verse = strings.ReplaceAll(verse, "\r\n", "\n")
	if loc := trailerRe.FindStringIndex(verse); loc != nil {
		verse = verse[:loc[0]]
	}
	var out []string
	for _, l := range newlineRe.Split(verse, -1) {
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
