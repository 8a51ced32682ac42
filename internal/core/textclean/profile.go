package textclean

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"chatclean/internal/platform/config"
	perr "chatclean/internal/platform/errors"
)

// Profile holds the tunables of the chain. A YAML file may override any subset
type Profile struct {
	BannedSubstrings []string `yaml:"banned_substrings"`
	LinkPrefixes     []string `yaml:"link_prefixes"`
	MinEnglishRatio  float64  `yaml:"min_english_ratio" validate:"gte=0,lte=1"`
	MinLength        int      `yaml:"min_length" validate:"gte=0"`
	MinTokens        int      `yaml:"min_tokens" validate:"gte=1"`
	MaxTokenLength   int      `yaml:"max_token_length" validate:"gte=1"`
	MaxNumeralDigits int      `yaml:"max_numeral_digits" validate:"gte=0,lte=18"`
	MinRepeatUnit    int      `yaml:"min_repeat_unit" validate:"gte=1"`
	MinRepeatCount   int      `yaml:"min_repeat_count" validate:"gte=2"`
}

// DefaultProfile returns the stock tuning
func DefaultProfile() Profile {
	return Profile{
		BannedSubstrings: []string{
			"discord.gg/",
			"free nitro",
			"nitro for free",
			"steamcommunity.com/gift",
			"@everyone",
			"@here",
			"click this link",
		},
		LinkPrefixes: []string{
			"http", "https", "www", "cdn", "media",
			"tenor", "giphy", "imgur", "discordapp", "youtube", "youtu",
		},
		MinEnglishRatio:  0.6,
		MinLength:        10,
		MinTokens:        3,
		MaxTokenLength:   20,
		MaxNumeralDigits: 6,
		MinRepeatUnit:    3,
		MinRepeatCount:   4,
	}
}

// LoadProfile reads a YAML profile over the defaults. An empty path returns the defaults
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read cleaner profile %s", path)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse cleaner profile %s", path)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks numeric bounds
func (p Profile) Validate() error {
	return perr.WithOp(config.Validate(p), "textclean.profile")
}

// lowered returns trimmed, lowercased, non-empty copies
func lowered(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
