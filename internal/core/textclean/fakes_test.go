package textclean

import (
	"errors"
	"strings"
)

// fakes keep the chain tests independent of the real NLP libraries

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(s string) []string { return strings.Fields(s) }

type suffixLemmatizer struct{}

// strips a plural "s" from words in the fake dictionary's plural list
func (suffixLemmatizer) Lemma(w string) string {
	switch w {
	case "cats":
		return "cat"
	case "dogs":
		return "dog"
	case "running":
		return "run"
	}
	return w
}

type setDict map[string]bool

func (d setDict) Contains(w string) bool { return d[w] }

type fakeDetector struct {
	english bool
	err     error
	calls   int
}

func (f *fakeDetector) IsEnglish(string) (bool, error) {
	f.calls++
	return f.english, f.err
}

type fakeNumerals struct{}

func (fakeNumerals) Words(n int) (string, bool) {
	switch n {
	case 42:
		return "forty-two", true
	case 105:
		return "one hundred five", true
	case 7:
		return "seven", true
	}
	return "", false
}

var testDict = setDict{
	"hello": true, "there": true, "friend": true, "nice": true, "day": true,
	"i": true, "have": true, "cats": true, "cat": true, "and": true, "a": true,
	"dog": true, "dogs": true, "the": true, "is": true, "my": true, "we": true,
	"are": true, "running": true, "to": true, "park": true, "do": true, "not": true,
	"like": true, "rain": true, "it": true, "was": true, "great": true, "game": true,
	"today": true, "see": true, "this": true, "video": true, "you": true,
	"media": true, "tenor": true, "giphy": true, "imgur": true,
}

var testStopwords = map[string]struct{}{
	"i": {}, "and": {}, "a": {}, "the": {}, "is": {}, "my": {}, "we": {}, "are": {},
	"to": {}, "do": {}, "not": {}, "it": {}, "was": {}, "there": {}, "this": {}, "you": {},
	"have": {},
}

func testResources(det *fakeDetector) Resources {
	if det == nil {
		det = &fakeDetector{english: true}
	}
	return Resources{
		Tokenizer:  fieldsTokenizer{},
		Lemmatizer: suffixLemmatizer{},
		Dictionary: testDict,
		Detector:   det,
		Numerals:   fakeNumerals{},
		Stopwords:  testStopwords,
	}
}

var errDetector = errors.New("detector exploded")
