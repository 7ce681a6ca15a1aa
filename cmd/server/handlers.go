package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sankara-chandas/internal/app"
	"sankara-chandas/internal/models"
	"sankara-chandas/internal/resolver"
	"sankara-chandas/internal/stats"
	"sankara-chandas/internal/store"
	"sankara-chandas/pkg/logger"
)

type resolveReq struct {
	Verse string `json:"verse"`
}

type batchReq struct {
	Verses []string `json:"verses"`
}

const maxBatch = 500

func newMux(env *app.Env) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /resolve  { "verse": "..." }
	mux.HandleFunc("POST /resolve", func(w http.ResponseWriter, r *http.Request) {
		var req resolveReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Verse == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()
		writeJSON(w, http.StatusOK, env.Resolver.ResolveDetailed(ctx, req.Verse))
	})

	// POST /resolve/batch  { "verses": ["...", "..."] } -> results in request order
	mux.HandleFunc("POST /resolve/batch", func(w http.ResponseWriter, r *http.Request) {
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Verses) == 0 || len(req.Verses) > maxBatch {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}

		results := make([]resolver.Result, len(req.Verses))

		// bounded concurrency
		sem := make(chan struct{}, env.Config.Workers)
		done := make(chan int, len(req.Verses))

		for i, v := range req.Verses {
			i, v := i, v
			sem <- struct{}{} // acquire
			go func() {
				defer func() { <-sem; done <- i }()
				ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
				defer cancel()
				results[i] = env.Resolver.ResolveDetailed(ctx, v)
			}()
		}
		// wait
		for range req.Verses {
			<-done
		}
		writeJSON(w, http.StatusOK, results)
	})

	// GET /documents?folder=devotional
	mux.HandleFunc("GET /documents", func(w http.ResponseWriter, r *http.Request) {
		var (
			locs []models.Location
			err  error
		)
		if f := r.URL.Query().Get("folder"); f != "" {
			locs, err = env.Store.List(f)
		} else {
			locs, err = env.Store.ListAll()
		}
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		if locs == nil {
			locs = []models.Location{}
		}
		writeJSON(w, http.StatusOK, locs)
	})

	mux.HandleFunc("GET /documents/{folder}/{filename}", func(w http.ResponseWriter, r *http.Request) {
		loc := models.Location{Folder: r.PathValue("folder"), Filename: r.PathValue("filename")}
		doc, err := env.Store.Load(loc)
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case err != nil:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusOK, doc)
		}
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		locs, err := env.Store.ListAll()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		entries, failures := stats.Collect(env.Store, locs)
		writeJSON(w, http.StatusOK, map[string]any{"stats": stats.Compute(entries), "failures": failures})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
