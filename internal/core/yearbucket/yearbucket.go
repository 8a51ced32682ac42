// Package yearbucket derives a year label from record timestamps and groups
// cleaned documents by it
package yearbucket

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Unknown labels documents whose timestamp is missing or unparsable
const Unknown = "unknown"

// accepted ISO-8601 shapes; time.Parse accepts any fractional precision after the seconds
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Year returns the four-digit year of an ISO-8601 timestamp as written (in its own offset), or Unknown
func Year(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return Unknown
	}
	for _, l := range layouts {
		t, err := time.Parse(l, ts)
		if err != nil {
			continue
		}
		y := t.Year()
		if y < 1000 || y > 9999 {
			return Unknown
		}
		return strconv.Itoa(y)
	}
	return Unknown
}

// Buckets accumulates documents per year for one source. Not safe for concurrent use
type Buckets struct {
	docs  map[string][]string
	total int
}

// New returns empty buckets
func New() *Buckets { return &Buckets{docs: map[string][]string{}} }

// Add appends doc under the year of ts and returns the label used
func (b *Buckets) Add(ts, doc string) string {
	y := Year(ts)
	b.docs[y] = append(b.docs[y], doc)
	b.total++
	return y
}

// Years returns bucket labels in ascending order; four-digit years sort before Unknown
func (b *Buckets) Years() []string {
	out := make([]string, 0, len(b.docs))
	for y := range b.docs {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}

// Docs returns the documents of one bucket in insertion order
func (b *Buckets) Docs(year string) []string { return b.docs[year] }

// Len is the number of documents across all buckets
func (b *Buckets) Len() int { return b.total }

// Sizes maps year to document count, for logging
func (b *Buckets) Sizes() map[string]int {
	out := make(map[string]int, len(b.docs))
	for y, d := range b.docs {
		out[y] = len(d)
	}
	return out
}

// Reset drops every bucket once they are written
func (b *Buckets) Reset() {
	b.docs = map[string][]string{}
	b.total = 0
}
