// Package ndjson streams chat records from newline-delimited JSON export blobs.
// A blob is spooled once into a temp file and then read line by line, so memory
// stays flat regardless of blob size or line length
package ndjson

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
)

// Record is one chat message line. Absent fields stay nil
type Record struct {
	Content   *string `json:"content"`
	Timestamp *string `json:"timestamp"`
	IsBot     *bool   `json:"is_bot"`
}

// Text returns content or ""
func (r Record) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// TS returns timestamp or ""
func (r Record) TS() string {
	if r.Timestamp == nil {
		return ""
	}
	return *r.Timestamp
}

// Bot reports is_bot, false when absent
func (r Record) Bot() bool { return r.IsBot != nil && *r.IsBot }

// Stats counts what the reader saw
type Stats struct {
	Lines   int   // non-terminal lines read, blank included
	Records int   // lines that decoded into a Record
	Skipped int   // blank, invalid UTF-8 or undecodable lines
	Bytes   int64 // bytes spooled from the blob
}

// Opener is the object store surface the reader needs
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TempDir overrides where blobs are spooled; "" means os.TempDir
var TempDir = ""

// Reader yields Records from a spooled blob, one line at a time.
// Not safe for concurrent Next calls
type Reader struct {
	key  string
	f    *os.File
	br   *bufio.Reader
	st   Stats
	once sync.Once
	done bool

	sampled bool
	log     *logger.Logger
}

// Open copies the blob at key into a temp file and returns a Reader over it.
// The temp file is removed by Close, and by Open itself when spooling fails
func Open(ctx context.Context, store Opener, key string) (*Reader, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, perr.WithOp(err, "ndjson.open")
	}
	defer rc.Close()

	f, err := os.CreateTemp(TempDir, "chatclean-*.ndjson")
	if err != nil {
		return nil, perr.WithKey(perr.Wrap(err, perr.ErrorCodeStorage, "create spool file"), key)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}

	n, err := io.Copy(f, ctxReader{ctx: ctx, r: rc})
	if err != nil {
		cleanup()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.WithKey(perr.Wrap(err, perr.ErrorCodeStorage, "spool blob"), key)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, perr.WithKey(perr.Wrap(err, perr.ErrorCodeStorage, "rewind spool file"), key)
	}

	r := &Reader{
		key: key,
		f:   f,
		br:  bufio.NewReaderSize(f, 1<<20),
		st:  Stats{Bytes: n},
		log: logger.Named("ndjson"),
	}
	r.log.Debug().Str("key", key).Int64("bytes", n).Str("spool", f.Name()).Msg("blob spooled")
	return r, nil
}

// Next returns the next decodable record, or io.EOF once the blob is exhausted.
// Lines that do not decode are skipped and counted, never returned as errors
func (r *Reader) Next() (Record, error) {
	for !r.done {
		line, err := r.br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Record{}, perr.WithKey(perr.Wrap(err, perr.ErrorCodeStorage, "read spool file"), r.key)
		}
		if errors.Is(err, io.EOF) {
			r.done = true
			if len(line) == 0 {
				break
			}
		}
		r.st.Lines++
		if rec, ok := r.decode(line); ok {
			r.st.Records++
			return rec, nil
		}
		r.st.Skipped++
	}
	return Record{}, io.EOF
}

func (r *Reader) decode(line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Record{}, false
	}
	if !utf8.Valid(line) {
		r.sample(line, "invalid utf-8")
		return Record{}, false
	}
	// objects only; json.Unmarshal would happily accept null into a struct
	if line[0] != '{' {
		r.sample(line, "not an object")
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		r.sample(line, err.Error())
		return Record{}, false
	}
	return rec, true
}

// sample logs the first skipped line of a blob so malformed exports are visible without flooding
func (r *Reader) sample(line []byte, why string) {
	if r.sampled {
		return
	}
	r.sampled = true
	r.log.Debug().Str("key", r.key).Str("reason", why).Str("line", truncateUTF8(line, 256)).Msg("skipping malformed line")
}

// Close releases and removes the spool file. Safe to call more than once
func (r *Reader) Close() error {
	var err error
	r.once.Do(func() {
		cerr := r.f.Close()
		rerr := os.Remove(r.f.Name())
		if errors.Is(rerr, os.ErrNotExist) {
			rerr = nil
		}
		err = errors.Join(cerr, rerr)
	})
	return err
}

// Stats returns counts so far
func (r *Reader) Stats() Stats { return r.st }

// ctxReader stops a long copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// truncateUTF8 cuts b to at most max bytes on a rune boundary
func truncateUTF8(b []byte, max int) string {
	if max <= 0 || len(b) <= max {
		return string(b)
	}
	i := max
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	if i == 0 {
		i = max
	}
	return string(b[:i]) + "..."
}
