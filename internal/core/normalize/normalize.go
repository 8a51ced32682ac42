// Package normalize prepares raw chat text for the cleaning chain.
//
// StripControls is the chain's first stage and only removes what carries no text:
// 1 drop invalid UTF-8
// 2 strip ANSI/VT escape sequences
// 3 drop C0/C1 controls (except \n \r \t)
//
// Normalize builds a folded view for language detection on top of that:
// 4 NFKC and removal of format characters (zero-width joiners, BOM)
// 5 fold typographic apostrophes to '
// 6 collapse whitespace runs to one space and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is safe for concurrent use
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// StripControls removes escape sequences, control characters and invalid UTF-8.
// Everything else, including fullwidth forms and whitespace runs, is left as is
func StripControls(s string) string {
	if s == "" {
		return ""
	}
	// the escape parser reads raw high bytes as C1 introducers, so repair first
	s = strings.ToValidUTF8(s, "")
	s = ansi.Strip(s)
	return Sanitize(s)
}

// Normalize runs the full pipeline; it never lowercases. The result is a view
// for detectors, not text to keep
func (n *Normalizer) Normalize(s string) string {
	s = StripControls(s)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return collapseSpaces(FoldApostrophes(ns))
}

var apostropheFolder = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"′", "'", // prime
	"＇", "'", // fullwidth apostrophe
	"`", "'",
)

// FoldApostrophes maps typographic apostrophes to ASCII '
func FoldApostrophes(s string) string {
	return apostropheFolder.Replace(s)
}

// collapseSpaces turns every whitespace run into a single ASCII space and trims the ends
func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
