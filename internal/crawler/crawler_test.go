
package crawler

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	page, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if page.FinalURL == "" || page.ContentType == "" || page.Elapsed == 0 || len(page.Body) == 0 {
		t.Fatalf("unexpected empty values: %+v", page)
	}
}

func TestRejectNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	_, err := client.Fetch(context.Background(), ts.URL)
	if !errors.Is(err, ErrNotHTML) {
		t.Fatalf("expected ErrNotHTML, got %v", err)
	}
}

func TestFetchGzipAndCap(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(bytes.Repeat([]byte("a"), 4096))
	_ = gz.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer ts.Close()

	page, err := NewHTTPClient(5*time.Second, 2*time.Second, 100).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if len(page.Body) != 100 {
		t.Fatalf("want body capped at 100 bytes, got %d", len(page.Body))
	}
}

func TestFetchKeepsSessionCookies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := r.Cookie("SESS"); err != nil {
			http.SetCookie(w, &http.Cookie{Name: "SESS", Value: "1", Path: "/"})
			_, _ = w.Write([]byte("new"))
			return
		}
		_, _ = w.Write([]byte("known"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	if _, err := client.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatal(err)
	}
	page, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(page.Body) != "known" {
		t.Fatalf("session cookie not replayed, body %q", page.Body)
	}
}

func TestFetchStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if _, err := NewHTTPClient(5*time.Second, 2*time.Second, 1024).Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
