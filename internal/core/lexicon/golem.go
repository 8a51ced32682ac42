package lexicon

import (
	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	perr "chatclean/internal/platform/errors"
)

// Golem answers both lemma and dictionary questions from golem's English tables,
// widened by a supplemental word list
type Golem struct {
	lem   *golem.Lemmatizer
	extra map[string]struct{}
}

func newGolem(extra map[string]struct{}) (*Golem, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "load golem english dictionary")
	}
	return &Golem{lem: lem, extra: extra}, nil
}

// Lemma returns the base form, or word itself when golem has no entry
func (g *Golem) Lemma(word string) string {
	return g.lem.Lemma(word)
}

// Contains reports whether word is a known English form
func (g *Golem) Contains(word string) bool {
	if _, ok := g.extra[word]; ok {
		return true
	}
	return g.lem.InDict(word)
}
