package textclean

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reHexID    = regexp.MustCompile(`^[0-9a-f]{6,}$`)
	reUnknown  = regexp.MustCompile(`^unknown_?\d+$`)
	reDigitRun = regexp.MustCompile(`\d{6,}`)
)

// dropReason names why a token is filtered, or "" to keep it
func (c *Cleaner) dropReason(tok string) string {
	t := strings.TrimSpace(tok)
	switch {
	case t == "":
		return "blank"
	case c.res.IsStopword(t):
		return "stopword"
	case !isASCII(t):
		return "non_ascii"
	case utf8.RuneCountInString(t) > c.prof.MaxTokenLength:
		return "too_long"
	case isDigits(t) && len(t) >= 17:
		return "mention_id"
	case reHexID.MatchString(t):
		return "hex_id"
	case hasLetter(t) && reDigitRun.MatchString(t):
		return "username_suffix"
	case len(t) >= 10 && hasLetter(t) && hasDigit(t):
		return "alnum_noise"
	case reUnknown.MatchString(t):
		return "unknown_placeholder"
	}
	return ""
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i] | 0x20; b >= 'a' && b <= 'z' {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}
