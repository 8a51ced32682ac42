package textclean

// Tokenizer splits lowercased, punctuation-free text into word tokens
type Tokenizer interface {
	Tokenize(text string) []string
}

// Lemmatizer reduces a token to its dictionary form; unknown words come back unchanged
type Lemmatizer interface {
	Lemma(word string) string
}

// Dictionary answers English vocabulary membership for lowercased words
type Dictionary interface {
	Contains(word string) bool
}

// LanguageDetector classifies a whole text. Errors mean "could not decide"
type LanguageDetector interface {
	IsEnglish(text string) (bool, error)
}

// Numerals spells a non-negative integer as English words (42 -> "forty-two")
type Numerals interface {
	Words(n int) (string, bool)
}

// Resources bundles the language capabilities the chain needs.
// Built once at startup and shared read-only by every Cleaner
type Resources struct {
	Tokenizer  Tokenizer
	Lemmatizer Lemmatizer
	Dictionary Dictionary
	Detector   LanguageDetector
	Numerals   Numerals
	Stopwords  map[string]struct{}
}

// IsStopword reports set membership
func (r Resources) IsStopword(w string) bool {
	_, ok := r.Stopwords[w]
	return ok
}
