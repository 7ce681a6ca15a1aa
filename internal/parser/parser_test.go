
package parser

import (
	"errors"
	"testing"
)

const listingHTML = `<!doctype html><html lang="sa"><head><title>Ganesha | Sankara</title></head><body>
<form><select id="edit-field-text-tid" name="field_text_tid">
<option value="30">गणेशस्तोत्रम्</option>
<option value="31" selected="selected">संकटनाशनगणेशस्तोत्रम्</option>
<option value="32">गणेशपञ्चरत्नम्</option>
</select></form>
<div class="views-field views-field-body"><div class="field-content">प्रणम्य शिरसा देवं<br>गौरीपुत्रं विनायकम् ।</div></div>
<div class="views-field views-field-body">
  <p>line a<br />
line b</p>
</div>
<div class="views-field views-field-body"><script>var x = 1;</script>v3 a
v3 b



इति श्री स्तोत्रम्</div>
</body></html>`

func TestMenu(t *testing.T) {
	m, err := New().Menu([]byte(listingHTML), "text/html; charset=utf-8", "edit-field-text-tid")
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if m.Name != "field_text_tid" {
		t.Fatalf("want name field_text_tid, got %q", m.Name)
	}
	if len(m.Options) != 3 || m.Options[0].Value != "30" || !m.Options[1].Selected || m.Options[2].Selected {
		t.Fatalf("unexpected options: %+v", m.Options)
	}
}

func TestMenuMissing(t *testing.T) {
	_, err := New().Menu([]byte(listingHTML), "text/html", "edit-field-text2-tid")
	if !errors.Is(err, ErrNoSelector) {
		t.Fatalf("want ErrNoSelector, got %v", err)
	}
}

func TestVerses(t *testing.T) {
	page, err := New().Verses([]byte(listingHTML), "text/html; charset=utf-8", "edit-field-text-tid")
	if err != nil {
		t.Fatalf("verses: %v", err)
	}
	if page.Name != "संकटनाशनगणेशस्तोत्रम्" {
		t.Fatalf("want selected option as name, got %q", page.Name)
	}
	want := []string{
		"प्रणम्य शिरसा देवं\nगौरीपुत्रं विनायकम् ।",
		"line a\nline b",
		"v3 a\nv3 b\n\n\n\nइति श्री स्तोत्रम्",
	}
	if len(page.Body) != len(want) {
		t.Fatalf("want %d verses, got %d: %q", len(want), len(page.Body), page.Body)
	}
	for i := range want {
		if page.Body[i] != want[i] {
			t.Fatalf("verse %d = %q, want %q", i, page.Body[i], want[i])
		}
	}
}

func TestVersesNameFallsBackToTitle(t *testing.T) {
	page, err := New().Verses([]byte(`<html><head><title>Only Title</title></head><body></body></html>`), "text/html", "edit-field-text-tid")
	if err != nil {
		t.Fatal(err)
	}
	if page.Name != "Only Title" || len(page.Body) != 0 {
		t.Fatalf("unexpected page %+v", page)
	}
}
