
// Package annotator fills in the meter list of every document in the corpus.
package annotator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sankara-chandas/internal/models"
	"sankara-chandas/pkg/logger"
)

// DocumentStore is the subset of the corpus store the annotator needs.
type DocumentStore interface {
	Load(loc models.Location) (*models.VerseGroupDocument, error)
	Save(loc models.Location, doc *models.VerseGroupDocument) error
}

// VerseResolver maps one raw verse to a meter label, "" when unresolved.
type VerseResolver interface {
	Resolve(ctx context.Context, verse string) string
}

type Annotator struct {
	store    DocumentStore
	resolver VerseResolver
	log      *logger.Logger
	workers  int
}

// New builds an annotator. workers <= 1 processes documents one at a time.
func New(store DocumentStore, resolver VerseResolver, log *logger.Logger, workers int) *Annotator {
	if log == nil {
		log = logger.Discard()
	}
	if workers < 1 {
		workers = 1
	}
	return &Annotator{store: store, resolver: resolver, log: log, workers: workers}
}

// AnnotateAll resolves every verse of every document and writes the
// documents back. A document that fails to load or save is recorded in the
// report and the run moves on.
func (a *Annotator) AnnotateAll(ctx context.Context, locs []models.Location) models.Report {
	rep := models.Report{RunID: uuid.NewString(), Kind: "annotate", Started: time.Now()}
	var mu sync.Mutex

	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup
	for _, loc := range locs {
		if ctx.Err() != nil {
			mu.Lock()
			rep.Failures = append(rep.Failures, models.Failure{Location: loc.String(), Error: ctx.Err().Error()})
			mu.Unlock()
			continue
		}
		loc := loc
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()
			verses, resolved, err := a.AnnotateOne(ctx, loc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failures = append(rep.Failures, models.Failure{Location: loc.String(), Error: err.Error()})
				return
			}
			rep.Documents++
			rep.Verses += verses
			rep.Resolved += resolved
		}()
	}
	wg.Wait()
	sort.Slice(rep.Failures, func(i, j int) bool { return rep.Failures[i].Location < rep.Failures[j].Location })

	rep.Finished = time.Now()
	a.log.Infof("annotated %d documents (%d/%d verses resolved), %d failed", rep.Documents, rep.Resolved, rep.Verses, len(rep.Failures))
	for _, f := range rep.Failures {
		a.log.Errorf("failed: %s: %s", f.Location, f.Error)
	}
	return rep
}

// AnnotateOne annotates a single document in place and saves it. Nothing is
// written when ctx ends before every verse is resolved.
func (a *Annotator) AnnotateOne(ctx context.Context, loc models.Location) (verses, resolved int, err error) {
	doc, err := a.store.Load(loc)
	if err != nil {
		return 0, 0, err
	}
	list := Annotate(ctx, a.resolver, doc.Body)
	// a cancelled run leaves the stored list as it was
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	doc.ChandasList = list
	if err := a.store.Save(loc, doc); err != nil {
		return 0, 0, err
	}
	for _, l := range doc.ChandasList {
		if l != "" {
			resolved++
		}
	}
	a.log.Debugf("%s: %d/%d verses resolved", loc, resolved, len(doc.Body))
	return len(doc.Body), resolved, nil
}

// Annotate returns a meter list index-aligned with body.
func Annotate(ctx context.Context, r VerseResolver, body []string) []string {
	out := make([]string, 0, len(body))
	for _, verse := range body {
		out = append(out, r.Resolve(ctx, verse))
	}
	return out
}
