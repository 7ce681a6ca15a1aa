
// Package stats computes corpus-wide meter and letter statistics.
package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sankara-chandas/internal/classifier"
	"sankara-chandas/internal/models"
)

// matras maps each dependent vowel sign to its independent vowel.
var matras = map[rune]rune{
	'ा': 'आ', 'ि': 'इ', 'ी': 'ई', 'ु': 'उ', 'ू': 'ऊ', 'ृ': 'ऋ', 'ॄ': 'ॠ',
	'ॢ': 'ऌ', 'े': 'ए', 'ै': 'ऐ', 'ो': 'ओ', 'ौ': 'औ',
}

const (
	virama   = '्'
	inherent = 'अ'
)

// Review flags a document whose meters need a manual look.
type Review struct {
	Location string   `json:"location"`
	Reason   string   `json:"reason"`
	Outliers []string `json:"outliers,omitempty"`
}

type Stats struct {
	Documents int `json:"documents"`
	Annotated int `json:"annotated"`
	Poetic    int `json:"poetic"` // documents with at least one resolved verse
	Verses    int `json:"verses"`
	Resolved  int `json:"resolved"`
	// AnnotatedVerses counts the verses of annotated documents only.
	AnnotatedVerses int            `json:"annotatedVerses"`
	Meters          map[string]int `json:"meters"`
	Swaras          map[string]int `json:"swaras"`
	Vyanjanas       map[string]int `json:"vyanjanas"`
	NeedReview      []Review       `json:"needReview,omitempty"`
}

// Entry is one loaded document and where it lives.
type Entry struct {
	Location models.Location
	Doc      *models.VerseGroupDocument
}

// Compute aggregates the documents. Documents without a meter list still
// count towards verse and letter totals.
func Compute(entries []Entry) Stats {
	st := Stats{Meters: map[string]int{}, Swaras: map[string]int{}, Vyanjanas: map[string]int{}}
	for _, e := range entries {
		d := e.Doc
		st.Documents++
		st.Verses += len(d.Body)
		for _, v := range d.Body {
			countLetters(v, st.Swaras, st.Vyanjanas)
		}
		if !d.Annotated() {
			continue
		}
		st.Annotated++
		st.AnnotatedVerses += len(d.Body)
		perDoc := map[string]int{}
		for _, m := range d.ChandasList {
			if m == "" {
				continue
			}
			st.Resolved++
			st.Meters[m]++
			perDoc[m]++
		}
		if len(perDoc) > 0 {
			st.Poetic++
		}
		if r, ok := review(e.Location, d, perDoc); ok {
			st.NeedReview = append(st.NeedReview, r)
		}
	}
	return st
}

// review flags texts with unresolved verses, and texts where one or two
// verses deviate from an otherwise dominant meter.
func review(at models.Location, d *models.VerseGroupDocument, perDoc map[string]int) (Review, bool) {
	loc := at.String()
	unresolved := 0
	for _, m := range d.ChandasList {
		if m == "" {
			unresolved++
		}
	}
	if len(perDoc) > 1 {
		top := TopN(perDoc, 1)[0]
		var outliers []string
		for m, n := range perDoc {
			if m != top && n <= 2 && perDoc[top] > n {
				outliers = append(outliers, m)
			}
		}
		if len(outliers) > 0 {
			sort.Strings(outliers)
			return Review{Location: loc, Reason: "isolated meter change", Outliers: outliers}, true
		}
	}
	if unresolved > 0 {
		return Review{Location: loc, Reason: fmt.Sprintf("%d unresolved verses", unresolved)}, true
	}
	return Review{}, false
}

func countLetters(s string, swaras, vyanjanas map[string]int) {
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case classifier.IsVowel(r):
			swaras[string(r)]++
		case classifier.IsConsonant(r):
			vyanjanas[string(r)]++
			if i+1 < len(rs) {
				if rs[i+1] == virama {
					continue
				}
				if _, ok := matras[rs[i+1]]; ok {
					continue
				}
			}
			swaras[string(inherent)]++
		default:
			if v, ok := matras[r]; ok {
				swaras[string(v)]++
			}
		}
	}
}

// ResolvedShare is the fraction of annotated verses with a meter.
func (s Stats) ResolvedShare() float64 {
	if s.AnnotatedVerses == 0 {
		return 0
	}
	return float64(s.Resolved) / float64(s.AnnotatedVerses)
}

// TopN returns up to n keys by descending count, ties broken by key.
func TopN(freq map[string]int, n int) []string {
	type kv struct {
		K string
		V int
	}
	var list []kv
	for k, v := range freq {
		list = append(list, kv{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].V == list[j].V {
			return list[i].K < list[j].K
		}
		return list[i].V > list[j].V
	})
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list[i].K)
	}
	return out
}

// Table renders the n most frequent keys with their counts and shares.
func Table(title string, freq map[string]int, n int) string {
	total := 0
	for _, v := range freq {
		total += v
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{title, "count", "share"})
	for _, k := range TopN(freq, n) {
		share := 0.0
		if total > 0 {
			share = 100 * float64(freq[k]) / float64(total)
		}
		tw.AppendRow(table.Row{k, strconv.Itoa(freq[k]), fmt.Sprintf("%.1f%%", share)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}

// Summary renders the corpus totals.
func Summary(s Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"documents", s.Documents},
		{"annotated", s.Annotated},
		{"with verse", s.Poetic},
		{"verses", s.Verses},
		{"resolved", fmt.Sprintf("%d (%.1f%%)", s.Resolved, 100*s.ResolvedShare())},
		{"need review", len(s.NeedReview)},
	})
	return tw.Render()
}

type Loader interface {
	Load(loc models.Location) (*models.VerseGroupDocument, error)
}

// Collect loads every location, setting aside the ones that fail.
func Collect(l Loader, locs []models.Location) ([]Entry, []models.Failure) {
	var entries []Entry
	var failures []models.Failure
	for _, loc := range locs {
		doc, err := l.Load(loc)
		if err != nil {
			failures = append(failures, models.Failure{Location: loc.String(), Error: err.Error()})
			continue
		}
		entries = append(entries, Entry{Location: loc, Doc: doc})
	}
	return entries, failures
}
