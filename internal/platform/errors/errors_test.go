package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestErrorCodeString(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeUnknown, "unknown"},
		{ErrorCodeInvalidArgument, "invalid_argument"},
		{ErrorCodeNotFound, "not_found"},
		{ErrorCodeUnavailable, "unavailable"},
		{ErrorCodeRegistryUnavailable, "registry_unavailable"},
		{ErrorCodeStorage, "storage"},
		{ErrorCodeDecode, "decode"},
		{ErrorCodeRejected, "rejected"},
		{ErrorCodeDB, "db"},
		{9999, "unknown"}, // default branch
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Fatalf("ErrorCode(%d).String() = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeDecode, "bad line")
	if CodeOf(e1) != ErrorCodeDecode {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeStorage, "put %s", "a.json")
	if got := e2.Error(); got != "put a.json" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeRegistryUnavailable, "registry load")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if !IsCode(e3, ErrorCodeRegistryUnavailable) {
		t.Fatalf("IsCode(Wrap) = false")
	}
	e4 := Wrapf(src, ErrorCodeStorage, "get %s", "x")
	if want := "get x: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeStorage {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// WithKey (copy-on-write) and WithOp
	e5 := Wrap(src, ErrorCodeStorage, "oops")
	e6 := WithKey(e5, "cleaned/1-2022.json")
	e7 := WithOp(e6, "flush")
	if ke, ok := As(e6); !ok || ke.Key() != "cleaned/1-2022.json" {
		t.Fatalf("WithKey failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "flush" {
		t.Fatalf("WithOp failed")
	}
	if k0, _ := As(e5); k0.Key() != "" || k0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithKey(src, "k") != src || WithOp(src, "op") != src {
		t.Fatalf("mutators should pass foreign errors through")
	}

	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Storagef("x"), ErrorCodeStorage) ||
		!IsCode(Decodef("x"), ErrorCodeDecode) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeDB, "db") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Storagef("put failed")) {
		t.Fatalf("storage errors should be retryable")
	}
	if !Retryable(Unavailablef("later")) {
		t.Fatalf("unavailable errors should be retryable")
	}
	if Retryable(New(ErrorCodeRegistryUnavailable, "nope")) {
		t.Fatalf("registry errors are fatal, not retryable")
	}
	if Retryable(nil) {
		t.Fatalf("nil is not retryable")
	}
}
