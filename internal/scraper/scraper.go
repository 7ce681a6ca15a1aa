
// Package scraper harvests verse groups from the text listing pages into the
// corpus store.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"sankara-chandas/internal/crawler"
	"sankara-chandas/internal/models"
	"sankara-chandas/internal/parser"
	"sankara-chandas/internal/translit"
	"sankara-chandas/pkg/logger"
)

// Language is the script the site is asked to render texts in.
const Language = "dv"

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*crawler.Page, error)
}

type DocumentSaver interface {
	Save(loc models.Location, doc *models.VerseGroupDocument) error
}

type Scraper struct {
	fetch   Fetcher
	parse   *parser.Parser
	store   DocumentSaver
	log     *logger.Logger
	workers int

	mu    sync.Mutex
	taken map[string]map[string]struct{} // folder -> filenames used this run
}

func New(fetch Fetcher, store DocumentSaver, log *logger.Logger, workers int) *Scraper {
	if log == nil {
		log = logger.Discard()
	}
	if workers < 1 {
		workers = 1
	}
	return &Scraper{
		fetch:   fetch,
		parse:   parser.New(),
		store:   store,
		log:     log,
		workers: workers,
		taken:   map[string]map[string]struct{}{},
	}
}

// SubLink is the page of one text behind a listing's selector.
func SubLink(base, param, value string) string {
	return base + "?" + "language=" + Language + "&" + url.QueryEscape(param) + "=" + url.QueryEscape(value)
}

// ScrapeAll scrapes every source in order. Failures of single pages are
// recorded in the report and never stop the run.
func (s *Scraper) ScrapeAll(ctx context.Context, sources []models.Source) models.Report {
	rep := models.Report{RunID: uuid.NewString(), Kind: "scrape", Started: time.Now()}
	s.mu.Lock()
	s.taken = map[string]map[string]struct{}{}
	s.mu.Unlock()
	for _, src := range sources {
		docs, verses, failures := s.Scrape(ctx, src)
		rep.Documents += docs
		rep.Verses += verses
		rep.Failures = append(rep.Failures, failures...)
	}
	rep.Finished = time.Now()
	s.log.Infof("scraped %d documents (%d verses), %d failed", rep.Documents, rep.Verses, len(rep.Failures))
	for _, f := range rep.Failures {
		s.log.Errorf("failed: %s: %s", f.Location, f.Error)
	}
	return rep
}

// Scrape fetches one listing page, then every text its selector offers.
func (s *Scraper) Scrape(ctx context.Context, src models.Source) (docs, verses int, failures []models.Failure) {
	page, err := s.fetch.Fetch(ctx, src.URL)
	if err != nil {
		return 0, 0, []models.Failure{{Location: src.URL, Error: err.Error()}}
	}
	menu, err := s.parse.Menu(page.Body, page.ContentType, src.SelectID)
	if err != nil {
		return 0, 0, []models.Failure{{Location: src.URL, Error: err.Error()}}
	}
	param := menu.Name
	if param == "" {
		return 0, 0, []models.Failure{{Location: src.URL, Error: fmt.Sprintf("selector #%s has no name", src.SelectID)}}
	}
	s.log.Infof("%s: %d texts", src.URL, len(menu.Options))

	type result struct {
		doc *models.VerseGroupDocument
		err error
	}
	results := make([]result, len(menu.Options))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, opt := range menu.Options {
		if opt.Value == "" {
			continue
		}
		i, link := i, SubLink(src.URL, param, opt.Value)
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()
			doc, err := s.text(ctx, link, src.SelectID)
			results[i] = result{doc: doc, err: err}
		}()
	}
	wg.Wait()

	// filenames are assigned in selector order so reruns are stable
	for i, r := range results {
		link := SubLink(src.URL, param, menu.Options[i].Value)
		if r.err != nil {
			failures = append(failures, models.Failure{Location: link, Error: r.err.Error()})
			continue
		}
		if r.doc == nil {
			continue
		}
		r.doc.Filename = s.filename(src.Folder, r.doc.Name)
		loc := models.Location{Folder: src.Folder, Filename: r.doc.Filename}
		if err := s.store.Save(loc, r.doc); err != nil {
			failures = append(failures, models.Failure{Location: loc.String(), Error: err.Error()})
			continue
		}
		s.log.Debugf("saved %s (%d verses)", loc, len(r.doc.Body))
		docs++
		verses += len(r.doc.Body)
	}
	return docs, verses, failures
}

func (s *Scraper) text(ctx context.Context, link, selectID string) (*models.VerseGroupDocument, error) {
	page, err := s.fetch.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	p, err := s.parse.Verses(page.Body, page.ContentType, selectID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", link, err)
	}
	body := p.Body
	if body == nil {
		body = []string{}
	}
	return &models.VerseGroupDocument{Name: p.Name, URL: link, Body: body}, nil
}

func (s *Scraper) filename(folder, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken, ok := s.taken[folder]
	if !ok {
		taken = map[string]struct{}{}
		s.taken[folder] = taken
	}
	return translit.Unique(name, taken)
}
