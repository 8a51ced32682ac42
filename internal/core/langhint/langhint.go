// Package langhint is a cheap script census used ahead of the statistical language detector
package langhint

import (
	"unicode"
)

// scripts checked before falling back to Latin; order breaks ties
var scripts = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Hiragana", unicode.Hiragana},
	{"Katakana", unicode.Katakana},
	{"Hangul", unicode.Hangul},
	{"Han", unicode.Han},
	{"Arabic", unicode.Arabic},
	{"Hebrew", unicode.Hebrew},
	{"Thai", unicode.Thai},
	{"Greek", unicode.Greek},
	{"Cyrillic", unicode.Cyrillic},
	{"Georgian", unicode.Georgian},
	{"Armenian", unicode.Armenian},
	{"Devanagari", unicode.Devanagari},
	{"Latin", unicode.Latin},
}

// Census counts letters per script
type Census struct {
	Letters  int
	ByScript map[string]int
}

// Count tallies the letters of s by script; letters in no listed script count toward Letters only
func Count(s string) Census {
	c := Census{ByScript: map[string]int{}}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		c.Letters++
		for _, sc := range scripts {
			if unicode.Is(sc.table, r) {
				c.ByScript[sc.name]++
				break
			}
		}
	}
	return c
}

// Predominant returns the script with the most letters, or "" when s has none
func (c Census) Predominant() string {
	best, n := "", 0
	for _, sc := range scripts {
		if v := c.ByScript[sc.name]; v > n {
			best, n = sc.name, v
		}
	}
	return best
}

// LatinShare is the fraction of letters that are Latin; 0 when there are no letters
func (c Census) LatinShare() float64 {
	if c.Letters == 0 {
		return 0
	}
	return float64(c.ByScript["Latin"]) / float64(c.Letters)
}

// MaybeEnglish reports whether s could be English at all: it needs letters and
// a Latin majority. A false result lets callers skip the expensive detector
func MaybeEnglish(s string) bool {
	c := Count(s)
	return c.Letters > 0 && c.LatinShare() > 0.5
}
