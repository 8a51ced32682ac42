package langhint

import "testing"

func TestCount_Predominant(t *testing.T) {
	cases := []struct {
		in     string
		script string
	}{
		{"hello there friend", "Latin"},
		{"привет как дела", "Cyrillic"},
		{"こんにちは", "Hiragana"},
		{"안녕하세요", "Hangul"},
		{"123 !!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Count(c.in).Predominant(); got != c.script {
			t.Fatalf("Predominant(%q) = %q, want %q", c.in, got, c.script)
		}
	}
}

func TestMaybeEnglish(t *testing.T) {
	cases := map[string]bool{
		"this is a perfectly normal sentence": true,
		"hello мир мир мир":                   false,
		"12345 ....":                          false,
		"naïve café":                          true,
	}
	for in, want := range cases {
		if got := MaybeEnglish(in); got != want {
			t.Fatalf("MaybeEnglish(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLatinShare_NoLetters(t *testing.T) {
	if got := Count("...").LatinShare(); got != 0 {
		t.Fatalf("LatinShare = %v", got)
	}
}
