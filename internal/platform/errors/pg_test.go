package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if got := CodeOf(FromPostgres(pg("57P03"), "ledger")); got != ErrorCodeUnavailable {
		t.Fatalf("57P03 -> %v, want unavailable", got)
	}
	if got := CodeOf(FromPostgres(pg("23505"), "ledger")); got != ErrorCodeDB {
		t.Fatalf("23505 -> %v, want db", got)
	}
	if got := CodeOf(FromPostgres(stderrs.New("plain"), "ledger")); got != ErrorCodeDB {
		t.Fatalf("plain -> %v, want db", got)
	}
}

func TestIsUndefinedTable(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", pg("42P01"))
	if !IsUndefinedTable(wrapped) {
		t.Fatalf("expected undefined table")
	}
	if IsUndefinedTable(stderrs.New("nope")) {
		t.Fatalf("plain error is not undefined table")
	}
}

func TestIsRetryablePG(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), false},
		{"serialization", pg("40001"), true},
		{"deadlock", pg("40P01"), true},
		{"lock not available", pg("55P03"), true},
		{"startup", pg("57P03"), true},
		{"unique", pg("23505"), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"admin text", stderrs.New("FATAL: terminating connection due to administrator command"), true},
		{"other text", stderrs.New("syntax error"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRetryablePG(c.err); got != c.want {
				t.Fatalf("IsRetryablePG(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
