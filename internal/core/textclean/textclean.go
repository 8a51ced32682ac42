// Package textclean turns one raw chat message into cleaned English tokens,
// or rejects it. The chain is an ordered list of stages: gates may end the
// run with a rejection, transforms always pass the document on
package textclean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"chatclean/internal/core/normalize"
)

// Kind separates stages that can reject from those that cannot
type Kind uint8

const (
	// KindTransform rewrites the document and never rejects
	KindTransform Kind = iota
	// KindGate may reject the whole document
	KindGate
)

// Stage names, in chain order. They label rejections in run stats
const (
	StageControl      = "control_strip"
	StageSpam         = "spam"
	StageLanguage     = "language"
	StageContractions = "contractions"
	StagePunctuation  = "punctuation"
	StageLinks        = "links"
	StageEmpty        = "empty"
	StageTokenize     = "tokenize"
	StageNumerals     = "numerals"
	StageLemmatize    = "lemmatize"
	StageTokenFilter  = "token_filter"
	StageMinYield     = "min_yield"
)

// Doc is the document as it moves through the chain. Text stages work on
// Text; once tokenized, Tokens is authoritative
type Doc struct {
	Text   string
	Tokens []string
}

// Stage is one link of the chain. Run returns false to reject; transforms must return true
type Stage struct {
	Name string
	Kind Kind
	Run  func(d *Doc) bool
}

// Result is the outcome of Clean. RejectedBy is empty when Tokens were kept
type Result struct {
	Tokens     []string
	RejectedBy string
}

// Rejected reports whether the document was dropped
func (r Result) Rejected() bool { return r.RejectedBy != "" }

// Text joins the kept tokens with single spaces
func (r Result) Text() string { return strings.Join(r.Tokens, " ") }

// Cleaner holds the compiled chain. It has no mutable state after New and is safe
// for concurrent use as long as the Resources are
type Cleaner struct {
	res    Resources
	prof   Profile
	norm   *normalize.Normalizer
	banned []string
	links  []string
	stages []Stage
}

// New validates the profile and compiles the chain
func New(res Resources, prof Profile) (*Cleaner, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	c := &Cleaner{
		res:    res,
		prof:   prof,
		norm:   normalize.New(),
		banned: lowered(prof.BannedSubstrings),
		links:  lowered(prof.LinkPrefixes),
	}
	c.stages = []Stage{
		{StageControl, KindTransform, c.controlStrip},
		{StageSpam, KindGate, c.spamGate},
		{StageLanguage, KindGate, c.languageGate},
		{StageContractions, KindTransform, c.expandContractions},
		{StagePunctuation, KindTransform, c.stripPunctuation},
		{StageLinks, KindTransform, c.stripLinks},
		{StageEmpty, KindGate, c.emptyGate},
		{StageTokenize, KindTransform, c.tokenize},
		{StageNumerals, KindTransform, c.numerals},
		{StageLemmatize, KindTransform, c.lemmatize},
		{StageTokenFilter, KindTransform, c.filterTokens},
		{StageMinYield, KindGate, c.minYield},
	}
	return c, nil
}

// Stages returns a copy of the chain, for inspection and tests
func (c *Cleaner) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Profile returns the active tuning
func (c *Cleaner) Profile() Profile { return c.prof }

// Clean runs the chain over raw
func (c *Cleaner) Clean(raw string) Result {
	d := &Doc{Text: raw}
	for _, st := range c.stages {
		if !st.Run(d) && st.Kind == KindGate {
			return Result{RejectedBy: st.Name}
		}
	}
	return Result{Tokens: d.Tokens}
}

// 1
func (c *Cleaner) controlStrip(d *Doc) bool {
	d.Text = normalize.StripControls(d.Text)
	return true
}

// 2
func (c *Cleaner) spamGate(d *Doc) bool {
	t := strings.TrimSpace(d.Text)
	if len([]rune(t)) < c.prof.MinLength {
		return false
	}
	low := strings.ToLower(t)
	for _, b := range c.banned {
		if strings.Contains(low, b) {
			return false
		}
	}
	return !hasRepeat(t, c.prof.MinRepeatUnit, c.prof.MinRepeatCount)
}

// 3
func (c *Cleaner) languageGate(d *Doc) bool {
	if c.res.Detector == nil {
		return false
	}
	// the detector judges the folded view; the ratio and later stages see the text itself
	ok, err := c.res.Detector.IsEnglish(c.norm.Normalize(d.Text))
	if err != nil || !ok {
		return false
	}
	return c.englishRatio(strings.ToLower(d.Text)) >= c.prof.MinEnglishRatio
}

// englishRatio is the share of word tokens found in the dictionary; 0 when there are none
func (c *Cleaner) englishRatio(lower string) float64 {
	words, known := 0, 0
	for _, tok := range c.res.Tokenizer.Tokenize(lower) {
		if !isWord(tok) {
			continue
		}
		words++
		if c.res.Dictionary.Contains(tok) {
			known++
		}
	}
	if words == 0 {
		return 0
	}
	return float64(known) / float64(words)
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

type contraction struct {
	re   *regexp.Regexp
	repl string
}

// irregular forms first so the generic n't rule does not produce "ca not"
var contractions = []contraction{
	{regexp.MustCompile(`(?i)\bcan't\b`), "can not"},
	{regexp.MustCompile(`(?i)\bwon't\b`), "will not"},
	{regexp.MustCompile(`(?i)\bshan't\b`), "shall not"},
	{regexp.MustCompile(`(?i)n't\b`), " not"},
	{regexp.MustCompile(`(?i)'re\b`), " are"},
	{regexp.MustCompile(`(?i)'s\b`), " is"},
	{regexp.MustCompile(`(?i)'d\b`), " would"},
	{regexp.MustCompile(`(?i)'ll\b`), " will"},
	{regexp.MustCompile(`(?i)'ve\b`), " have"},
	{regexp.MustCompile(`(?i)'m\b`), " am"},
}

// 4
func (c *Cleaner) expandContractions(d *Doc) bool {
	s := strings.ToLower(normalize.FoldApostrophes(d.Text))
	for _, ct := range contractions {
		s = ct.re.ReplaceAllString(s, ct.repl)
	}
	d.Text = s
	return true
}

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// 5
func (c *Cleaner) stripPunctuation(d *Doc) bool {
	d.Text = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || strings.ContainsRune(asciiPunct, r) {
			return -1
		}
		return r
	}, d.Text)
	return true
}

// 6
func (c *Cleaner) stripLinks(d *Doc) bool {
	fields := strings.Fields(d.Text)
	kept := fields[:0]
	for _, f := range fields {
		if !c.isLink(f) {
			kept = append(kept, f)
		}
	}
	d.Text = strings.Join(kept, " ")
	return true
}

func (c *Cleaner) isLink(tok string) bool {
	low := strings.ToLower(tok)
	for _, p := range c.links {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}

// 7
func (c *Cleaner) emptyGate(d *Doc) bool {
	return strings.TrimSpace(d.Text) != ""
}

// 8
func (c *Cleaner) tokenize(d *Doc) bool {
	d.Tokens = c.res.Tokenizer.Tokenize(d.Text)
	return true
}

// 9
func (c *Cleaner) numerals(d *Doc) bool {
	out := make([]string, 0, len(d.Tokens))
	for _, tok := range d.Tokens {
		if !isDigits(tok) || len(tok) > c.prof.MaxNumeralDigits || c.res.Numerals == nil {
			out = append(out, tok)
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			out = append(out, tok)
			continue
		}
		w, ok := c.res.Numerals.Words(n)
		if !ok {
			out = append(out, tok)
			continue
		}
		// one token in, one token out, even for "one hundred five"
		out = append(out, w)
	}
	d.Tokens = out
	return true
}

// 10
func (c *Cleaner) lemmatize(d *Doc) bool {
	if c.res.Lemmatizer == nil {
		return true
	}
	for i, tok := range d.Tokens {
		if l := c.res.Lemmatizer.Lemma(tok); l != "" {
			d.Tokens[i] = l
		}
	}
	return true
}

// 11
func (c *Cleaner) filterTokens(d *Doc) bool {
	kept := d.Tokens[:0]
	for _, tok := range d.Tokens {
		if c.dropReason(tok) == "" {
			kept = append(kept, strings.TrimSpace(tok))
		}
	}
	d.Tokens = kept
	return true
}

// 12
func (c *Cleaner) minYield(d *Doc) bool {
	return len(d.Tokens) >= c.prof.MinTokens
}
