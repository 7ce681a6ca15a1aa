
package classifier

import (
	"context"
	"strings"

	"sankara-chandas/internal/models"
)

// padaMeters maps syllables per pada to meter names for the common
// even (samavritta) meters. Some lengths are shared by several meters; the
// syllable count alone cannot tell them apart, so all are returned.
var padaMeters = map[int][]string{
	8:  {"Anushtup"},
	11: {"Indravajra", "Upendravajra", "Upajati"},
	12: {"Vamshastha", "Bhujangaprayata", "Drutavilambita"},
	14: {"Vasantatilaka"},
	15: {"Malini"},
	17: {"Shikharini", "Mandakranta", "Prithvi"},
	19: {"Shardulavikridita"},
	21: {"Sragdhara"},
}

const virama = '\u094D'

// Syllabic is an offline meter classifier for Devanagari verse. It only
// counts aksharas per line and matches the per-pada count, so it never
// distinguishes meters with the same length; weight patterns are not
// checked.
type Syllabic struct{}

func NewSyllabic() *Syllabic { return &Syllabic{} }

func (s *Syllabic) Identify(ctx context.Context, text string) (models.MeterResult, error) {
	if err := ctx.Err(); err != nil {
		return models.MeterResult{}, err
	}
	var counts []int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts = append(counts, Syllables(line))
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return models.MeterResult{}, ErrMalformed
	}
	for _, c := range counts[1:] {
		if c != counts[0] {
			return models.MeterResult{}, nil
		}
	}
	// A line may hold one pada, a half verse (two padas) or a whole verse.
	for _, padas := range []int{1, 2, 4} {
		if counts[0]%padas != 0 {
			continue
		}
		if names, ok := padaMeters[counts[0]/padas]; ok {
			return models.MeterResult{Matched: true, Candidates: append([]string(nil), names...)}, nil
		}
	}
	return models.MeterResult{}, nil
}

// Syllables counts the aksharas of a Devanagari string: every independent
// vowel, and every consonant not silenced by a virama.
func Syllables(s string) int {
	runes := []rune(s)
	n := 0
	for i, r := range runes {
		switch {
		case isIndependentVowel(r):
			n++
		case isConsonant(r):
			if i+1 < len(runes) && runes[i+1] == virama {
				continue
			}
			// nukta sits between consonant and virama
			if i+2 < len(runes) && runes[i+1] == '\u093C' && runes[i+2] == virama {
				continue
			}
			n++
		}
	}
	return n
}

func isIndependentVowel(r rune) bool {
	return (r >= '\u0904' && r <= '\u0914') || r == '\u0960' || r == '\u0961'
}

func isConsonant(r rune) bool {
	return (r >= '\u0915' && r <= '\u0939') || (r >= '\u0958' && r <= '\u095F')
}

// IsVowel and IsConsonant are exported for corpus statistics.
func IsVowel(r rune) bool     { return isIndependentVowel(r) }
func IsConsonant(r rune) bool { return isConsonant(r) }
