
package classifier

import (
	"context"
	"errors"

	"sankara-chandas/internal/models"
)

// ErrMalformed is returned for input a classifier cannot scan at all.
var ErrMalformed = errors.New("malformed verse input")

// Meter identifies the meter of a text block made of one or more
// newline-joined lines.
type Meter interface {
	Identify(ctx context.Context, text string) (models.MeterResult, error)
}

// Func adapts a plain function to Meter.
type Func func(ctx context.Context, text string) (models.MeterResult, error)

func (f Func) Identify(ctx context.Context, text string) (models.MeterResult, error) {
	return f(ctx, text)
}

// Primary returns the first candidate of a positive result. A positive
// result without candidates counts as no match.
func Primary(r models.MeterResult) (string, bool) {
	if !r.Matched || len(r.Candidates) == 0 {
		return "", false
	}
	return r.Candidates[0], true
}
