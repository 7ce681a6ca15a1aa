
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sankara-chandas/internal/crawler"
	"sankara-chandas/internal/models"
	"sankara-chandas/internal/store"
)

const pageTmpl = `<html><body>
<select id="edit-field-text-tid" name="field_text_tid">
<option value="30"%s>गणेशस्तोत्रम्</option>
<option value="31"%s>गणेशस्तोत्रम्</option>
<option value="32"%s>Broken</option>
</select>
%s
</body></html>`

func site(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sel := [3]string{}
		body := ""
		switch r.URL.Query().Get("field_text_tid") {
		case "30":
			sel[0] = ` selected="selected"`
			body = `<div class="views-field-body">a1<br>a2</div><div class="views-field-body">b1<br>b2</div>`
		case "31":
			sel[1] = ` selected="selected"`
			body = `<div class="views-field-body">c1<br>c2</div>`
		case "32":
			http.Error(w, "gone", http.StatusGone)
			return
		}
		if r.URL.Query().Get("language") != "" && r.URL.Query().Get("language") != Language {
			http.Error(w, "bad language", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageTmpl, sel[0], sel[1], sel[2], body)
	}))
}

func TestScrapeSavesDocuments(t *testing.T) {
	ts := site(t)
	defer ts.Close()

	for _, workers := range []int{1, 3} {
		st := store.New(t.TempDir())
		s := New(crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20), st, nil, workers)
		rep := s.ScrapeAll(context.Background(), []models.Source{{Folder: "devotional", URL: ts.URL + "/ganesha", SelectID: "edit-field-text-tid"}})

		if rep.Documents != 2 || rep.Verses != 3 || rep.Kind != "scrape" {
			t.Fatalf("workers=%d: unexpected report %+v", workers, rep)
		}
		if len(rep.Failures) != 1 || rep.Failures[0].Location != SubLink(ts.URL+"/ganesha", "field_text_tid", "32") {
			t.Fatalf("workers=%d: unexpected failures %+v", workers, rep.Failures)
		}

		locs, err := st.List("devotional")
		if err != nil {
			t.Fatal(err)
		}
		if len(locs) != 2 || locs[0].Filename != "ganeshastotram" || locs[1].Filename != "ganeshastotram_2" {
			t.Fatalf("workers=%d: unexpected files %v", workers, locs)
		}
		doc, err := st.Load(locs[0])
		if err != nil {
			t.Fatal(err)
		}
		if doc.Name != "गणेशस्तोत्रम्" || doc.URL != SubLink(ts.URL+"/ganesha", "field_text_tid", "30") ||
			len(doc.Body) != 2 || doc.Body[0] != "a1\na2" || doc.ChandasList != nil {
			t.Fatalf("workers=%d: unexpected document %#v", workers, doc)
		}
	}
}

func TestScrapeMissingSelector(t *testing.T) {
	ts := site(t)
	defer ts.Close()

	s := New(crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20), store.New(t.TempDir()), nil, 1)
	docs, _, failures := s.Scrape(context.Background(), models.Source{Folder: "x", URL: ts.URL, SelectID: "edit-field-text2-tid"})
	if docs != 0 || len(failures) != 1 {
		t.Fatalf("want one failure for the listing page, got docs=%d failures=%+v", docs, failures)
	}
}

func TestSubLink(t *testing.T) {
	got := SubLink("https://www.sankara.iitk.ac.in/preliminary-texts", "field_text1_tid", "71")
	want := "https://www.sankara.iitk.ac.in/preliminary-texts?language=dv&field_text1_tid=71"
	if got != want {
		t.Fatalf("SubLink = %q, want %q", got, want)
	}
}
