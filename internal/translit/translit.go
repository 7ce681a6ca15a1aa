
// Package translit turns text titles into ASCII identifiers usable as file names.
package translit

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var consonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "n",
	'च': "c", 'छ': "ch", 'ज': "j", 'झ': "jh", 'ञ': "n",
	'ट': "t", 'ठ': "th", 'ड': "d", 'ढ': "dh", 'ण': "n",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ल': "l", 'ळ': "l", 'व': "v",
	'श': "sh", 'ष': "sh", 'स': "s", 'ह': "h",
}

var vowels = map[rune]string{
	'अ': "a", 'आ': "a", 'इ': "i", 'ई': "i", 'उ': "u", 'ऊ': "u",
	'ऋ': "ri", 'ॠ': "ri", 'ऌ': "li", 'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au",
}

var signs = map[rune]string{
	'ा': "a", 'ि': "i", 'ी': "i", 'ु': "u", 'ू': "u", 'ृ': "ri", 'ॄ': "ri",
	'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au",
}

const (
	virama      = '्'
	nukta       = '़'
	anusvara    = 'ं'
	visarga     = 'ः'
	candrabindu = 'ँ'
)

// stripMarks removes combining marks from Latin text (é -> e, ṣ -> s).
// Chained transformers keep state, so each call gets its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Devanagari transliterates the Devanagari runes of s to plain ASCII and
// leaves everything else untouched.
func Devanagari(s string) string {
	rs := []rune(norm.NFC.String(s))
	var b strings.Builder
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if c, ok := consonants[r]; ok {
			b.WriteString(c)
			j := i + 1
			if j < len(rs) && rs[j] == nukta {
				j++
			}
			switch {
			case j < len(rs) && rs[j] == virama:
				i = j
			case j < len(rs) && signs[rs[j]] != "":
				b.WriteString(signs[rs[j]])
				i = j
			default:
				b.WriteByte('a')
				i = j - 1
			}
			continue
		}
		if v, ok := vowels[r]; ok {
			b.WriteString(v)
			continue
		}
		switch {
		case r == anusvara:
			b.WriteByte('m')
		case r == visarga:
			b.WriteByte('h')
		case r == candrabindu:
			b.WriteByte('n')
		case r >= '०' && r <= '९':
			b.WriteRune('0' + (r - '०'))
		case r == '।' || r == '॥':
			b.WriteByte(' ')
		case r >= 0x0900 && r <= 0x097F:
			// nukta, avagraha and other signs carry no letter
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Filename derives an ASCII-safe identifier from a display title.
func Filename(name string) string {
	s := Devanagari(name)
	if out, _, err := transform.String(stripMarks(), s); err == nil {
		s = out
	}
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	if b.Len() == 0 {
		return "text"
	}
	return b.String()
}

// Unique returns Filename(name), suffixed with _2, _3, ... if taken already
// holds it, and records the result in taken.
func Unique(name string, taken map[string]struct{}) string {
	base := Filename(name)
	fn := base
	for n := 2; ; n++ {
		if _, ok := taken[fn]; !ok {
			break
		}
		fn = fmt.Sprintf("%s_%d", base, n)
	}
	taken[fn] = struct{}{}
	return fn
}
