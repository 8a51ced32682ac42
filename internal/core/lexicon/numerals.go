package lexicon

import "github.com/divan/num2words"

// Num2Words spells integers with divan/num2words
type Num2Words struct{}

// Words returns the English spelling; negatives are not supported
func (Num2Words) Words(n int) (string, bool) {
	if n < 0 {
		return "", false
	}
	w := num2words.Convert(n)
	return w, w != ""
}
