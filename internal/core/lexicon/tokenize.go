package lexicon

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseTokenizer uses prose's rule-based tokenizer with the tagging,
// segmentation and entity models switched off
type ProseTokenizer struct{}

// Tokenize returns the non-blank tokens of text in order
func (ProseTokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(text)
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if s := strings.TrimSpace(t.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}
