package yearbucket

import (
	"strings"
	"testing"
)

func TestYear(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2023-05-01T12:00:00Z", "2023"},
		{"2022-01-01T00:00:00.123456Z", "2022"},
		{"2021-12-31T23:30:00-02:00", "2021"}, // year as written, not shifted to UTC
		{"2020-06-15T08:00:00+0530", "2020"},
		{"2019-03-04 10:11:12", "2019"},
		{"2019-03-04 10:11:12.5+00:00", "2019"},
		{"2018-07-08T09:10", "2018"},
		{"2017-01-02", "2017"},
		{"  2016-01-02  ", "2016"},
		{"", Unknown},
		{"garbage", Unknown},
		{"2023-13-01T00:00:00Z", Unknown},
		{"1699999999", Unknown},
	}
	for _, c := range cases {
		if got := Year(c.in); got != c.want {
			t.Fatalf("Year(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuckets(t *testing.T) {
	b := New()
	b.Add("2023-05-01T12:00:00Z", "a b c")
	b.Add("", "d e f")
	b.Add("2021-01-01T00:00:00Z", "g h i")
	b.Add("2023-06-01T00:00:00Z", "j k l")

	if got := strings.Join(b.Years(), ","); got != "2021,2023,unknown" {
		t.Fatalf("Years = %s", got)
	}
	if got := strings.Join(b.Docs("2023"), "|"); got != "a b c|j k l" {
		t.Fatalf("Docs(2023) = %s", got)
	}
	if b.Len() != 4 || b.Sizes()["2023"] != 2 || b.Sizes()[Unknown] != 1 {
		t.Fatalf("counts: len=%d sizes=%v", b.Len(), b.Sizes())
	}

	b.Reset()
	if b.Len() != 0 || len(b.Years()) != 0 {
		t.Fatalf("Reset left data behind")
	}
}
