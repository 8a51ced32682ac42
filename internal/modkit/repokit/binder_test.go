package repokit

import (
	"context"
	"testing"

	"chatclean/internal/platform/testkit"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQ struct{}

func (f *fakeQ) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("SELECT 0"), nil
}

func (f *fakeQ) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeQ) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

var _ Queryer = (*fakeQ)(nil)

func TestBindFunc_BindCallsFunc(t *testing.T) {
	t.Parallel()
	var q Queryer
	b := BindFunc[string](func(_ Queryer) string { return "ok" })
	if got := b.Bind(q); got != "ok" {
		t.Fatalf("BindFunc.Bind = %q, want %q", got, "ok")
	}
}

func TestRequireQueryer_PanicsOnNil(t *testing.T) {
	t.Parallel()
	var q Queryer
	testkit.MustPanic(t, func() { _ = RequireQueryer(q) })
}

func TestMustBind(t *testing.T) {
	t.Parallel()
	b := BindFunc[int](func(_ Queryer) int { return 42 })
	testkit.MustPanic(t, func() { _ = MustBind[int](b, nil) })
	if got := MustBind[int](b, &fakeQ{}); got != 42 {
		t.Fatalf("MustBind = %d", got)
	}
}

func TestRequireQueryer_ReturnsSame(t *testing.T) {
	t.Parallel()
	var in Queryer = &fakeQ{}
	if out := RequireQueryer(in); out != in {
		t.Fatalf("RequireQueryer did not return the same instance")
	}
}
