package normalize

import (
	"testing"

	"chatclean/internal/platform/testkit"
)

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity ascii", in: "hello world", out: "hello world"},
		{name: "keeps case", in: "Hello World", out: "Hello World"},
		{name: "ansi color", in: "\x1b[31mred\x1b[0m alert", out: "red alert"},
		{name: "ansi cursor moves", in: "a\x1b[2Kb\x1b[1A c", out: "ab c"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), out: "foo bar"},
		{name: "c0 and c1 controls", in: "a\x00b\x07c\u0085d\x7f", out: "abcd"},
		{name: "zero widths removed", in: "wo\u200brd\ufeff", out: "word"},
		{name: "nfkc ligature", in: "oﬃce", out: "office"},
		{name: "curly apostrophe", in: "don’t stop", out: "don't stop"},
		{name: "collapse whitespace", in: "  a\t\tb\nc   d \r\n", out: "a b c d"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestStripControls(t *testing.T) {
	cases := []struct{ in, want string }{
		{"\x1b[31mred\x1b[0m alert", "red alert"},
		{"a\x00b\u0085c", "abc"},
		{string([]byte{'o', 0xff, 'k'}), "ok"},
		{"ｆｕｌｌ width", "ｆｕｌｌ width"},
		{"ﬂowers", "ﬂowers"},
		{"  spaced \t\t out  ", "  spaced \t\t out  "},
		{"don’t", "don’t"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripControls(c.in); got != c.want {
			t.Fatalf("StripControls(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_FoldsWideForms(t *testing.T) {
	got := New().Normalize("ｆｕｌｌ   width")
	testkit.MustContain(t, got, "full width")
}

func TestSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"clean text", "clean text"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"nul\x00byte", "nulbyte"},
		{"del\x7f", "del"},
		{"bad\xc3\x28utf", "bad(utf"},
		{"c1\u0090x", "c1x"},
		{"émoji 🙂 ok", "émoji 🙂 ok"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFoldApostrophes(t *testing.T) {
	in := "it’s ‘quoted’ y`all"
	if got := FoldApostrophes(in); got != "it's 'quoted' y'all" {
		t.Fatalf("FoldApostrophes = %q", got)
	}
}
