package ingest

import (
	"context"
	"errors"
	"io"
	"testing"

	"chatclean/internal/platform/objstore"
)

func TestStreamer_OpensThroughStore(t *testing.T) {
	store := objstore.NewMem()
	_ = store.Put(context.Background(), "datasets-v2/7.json", []byte(`{"content":"hi"}`+"\n"))

	s, err := NewStreamer(store).Open(context.Background(), "datasets-v2/7.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	rec, err := s.Next()
	if err != nil || rec.Text() != "hi" {
		t.Fatalf("Next = %+v, %v", rec, err)
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
	if st := s.Stats(); st.Records != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestStreamer_MissingKey(t *testing.T) {
	if _, err := NewStreamer(objstore.NewMem()).Open(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error")
	}
}
