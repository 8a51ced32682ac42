// Package lexicon builds the English language resources for the cleaning chain:
// stopwords and supplemental vocabulary embedded at build time, golem for lemmas
// and dictionary lookups, prose for tokenization, whatlanggo for language
// identification and num2words for numerals
package lexicon

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"

	"chatclean/internal/core/textclean"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
)

//go:embed data/stopwords.txt
var embeddedStopwords string

//go:embed data/words.txt
var embeddedWords string

// Options tune resource loading
type Options struct {
	// DictionaryPath is an optional newline-delimited word list merged into the dictionary
	DictionaryPath string
	// ExtraStopwords are added to the embedded list
	ExtraStopwords []string
}

// Load builds an immutable Resources value. It is expensive (the golem
// dictionary is decompressed into memory) and meant to run once per process
func Load(opts Options) (textclean.Resources, error) {
	log := logger.Named("lexicon")

	stop := wordSet(strings.NewReader(embeddedStopwords))
	for _, w := range opts.ExtraStopwords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = struct{}{}
		}
	}

	extra := wordSet(strings.NewReader(embeddedWords))
	if opts.DictionaryPath != "" {
		f, err := os.Open(opts.DictionaryPath)
		if err != nil {
			return textclean.Resources{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open dictionary %s", opts.DictionaryPath)
		}
		for w := range wordSet(f) {
			extra[w] = struct{}{}
		}
		_ = f.Close()
	}

	gl, err := newGolem(extra)
	if err != nil {
		return textclean.Resources{}, err
	}

	log.Info().
		Int("stopwords", len(stop)).
		Int("supplemental_words", len(extra)).
		Str("dictionary_path", opts.DictionaryPath).
		Msg("lexicon loaded")

	return textclean.Resources{
		Tokenizer:  ProseTokenizer{},
		Lemmatizer: gl,
		Dictionary: gl,
		Detector:   NewDetector(),
		Numerals:   Num2Words{},
		Stopwords:  stop,
	}, nil
}

// wordSet reads one lowercased word per line, skipping blanks and # comments
func wordSet(r io.Reader) map[string]struct{} {
	out := map[string]struct{}{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out[strings.ToLower(line)] = struct{}{}
	}
	return out
}
