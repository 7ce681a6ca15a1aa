
// Package app wires the collaborators both binaries share.
package app

import (
	"fmt"
	"io"

	"sankara-chandas/internal/annotator"
	"sankara-chandas/internal/classifier"
	"sankara-chandas/internal/config"
	"sankara-chandas/internal/crawler"
	"sankara-chandas/internal/resolver"
	"sankara-chandas/internal/scraper"
	"sankara-chandas/internal/store"
	"sankara-chandas/pkg/logger"
)

type Env struct {
	Config   *config.Config
	Log      *logger.Logger
	Store    *store.Store
	Client   *crawler.HTTPClient
	Meter    classifier.Meter
	Resolver *resolver.Resolver
}

// New builds the environment for cfg, logging to w.
func New(cfg *config.Config, w io.Writer) (*Env, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := logger.NewWithWriter(w, logger.ParseLevel(cfg.LogLevel))
	client := crawler.NewHTTPClient(cfg.Timeout, cfg.DialTimeout, cfg.SizeCap)

	var meter classifier.Meter
	switch cfg.Classifier {
	case config.ClassifierRemote:
		meter = classifier.NewRemote(client.HTTP(), cfg.Endpoint)
	default:
		meter = classifier.NewSyllabic()
	}

	return &Env{
		Config:   cfg,
		Log:      log,
		Store:    store.New(cfg.Root),
		Client:   client,
		Meter:    meter,
		Resolver: resolver.New(meter, log),
	}, nil
}

func (e *Env) Annotator() *annotator.Annotator {
	return annotator.New(e.Store, e.Resolver, e.Log, e.Config.Workers)
}

func (e *Env) Scraper() *scraper.Scraper {
	return scraper.New(e.Client, e.Store, e.Log, e.Config.Workers)
}
