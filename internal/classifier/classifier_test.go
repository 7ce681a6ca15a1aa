
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sankara-chandas/internal/models"
)

// First half of the Gita's opening verse, Anushtup: 16 aksharas per line.
const gitaOpening = "धर्मक्षेत्रे कुरुक्षेत्रे समवेता युयुत्सवः ।\nमामकाः पाण्डवाश्चैव किमकुर्वत सञ्जय ॥"

func TestSyllables(t *testing.T) {
	cases := map[string]int{
		"धर्मक्षेत्रे":   4,
		"कुरुक्षेत्रे":   4,
		"युयुत्सवः":     4,
		"किमकुर्वत":     5,
		"अ आ":           2,
		"hello":         0,
		"॥ १ ॥":         0,
		"पाण्डवाश्चैव": 5,
	}
	for in, want := range cases {
		if got := Syllables(in); got != want {
			t.Fatalf("Syllables(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSyllabicAnushtup(t *testing.T) {
	res, err := NewSyllabic().Identify(context.Background(), gitaOpening)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	label, ok := Primary(res)
	if !ok || label != "Anushtup" {
		t.Fatalf("want Anushtup, got %#v", res)
	}
}

func TestSyllabicUnevenLines(t *testing.T) {
	res, err := NewSyllabic().Identify(context.Background(), "श्रीगणेशाय नमः\n"+gitaOpening)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if res.Matched {
		t.Fatalf("uneven lines should not match: %#v", res)
	}
}

func TestSyllabicMalformed(t *testing.T) {
	_, err := NewSyllabic().Identify(context.Background(), "no devanagari here\nat all")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestPrimary(t *testing.T) {
	if _, ok := Primary(models.MeterResult{Matched: true}); ok {
		t.Fatal("positive result without candidates must not count as a match")
	}
	if _, ok := Primary(models.MeterResult{Candidates: []string{"Anushtup"}}); ok {
		t.Fatal("negative result must not count as a match")
	}
	if l, ok := Primary(models.MeterResult{Matched: true, Candidates: []string{"Malini", "x"}}); !ok || l != "Malini" {
		t.Fatalf("unexpected primary %q", l)
	}
}

func TestRemoteIdentify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("input_text") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.MeterResult{Matched: true, Candidates: []string{"Anushtup"}})
	}))
	defer ts.Close()

	res, err := NewRemote(ts.Client(), ts.URL).Identify(context.Background(), gitaOpening)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if l, _ := Primary(res); l != "Anushtup" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRemoteServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := NewRemote(ts.Client(), ts.URL).Identify(context.Background(), "x\ny"); err == nil {
		t.Fatal("expected error on 500")
	}
}
