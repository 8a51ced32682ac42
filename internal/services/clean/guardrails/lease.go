package guardrails

import (
	"context"
	"errors"
	"hash/fnv"

	"chatclean/internal/platform/logger"
)

// ErrLeaseHeld signals another run owns the registry already
var ErrLeaseHeld = errors.New("clean: run lease already held")

// Locker takes a session advisory lock; *pg.PG implements it
type Locker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(context.Context) error, ok bool, err error)
}

// Lease runs do while holding the run lock
type Lease func(ctx context.Context, do func(context.Context) error) error

// LeaseKey hashes a lock name (the catalog key) into an advisory lock id
func LeaseKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("chatclean:" + name))
	return int64(h.Sum64())
}

// MakeAdvisoryLease returns a Lease guarding every run against the same catalog,
// so two runs never rewrite the registry at once. A held lock returns ErrLeaseHeld
// without running do. The lock is released when do returns
func MakeAdvisoryLease(l Locker, name string) Lease {
	key := LeaseKey(name)
	return func(ctx context.Context, do func(context.Context) error) error {
		unlock, ok, err := l.TryAdvisoryLock(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLeaseHeld
		}
		defer func() {
			// the run ctx may be done already; release on a fresh one
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				logger.C(ctx).Warn().Err(uerr).Int64("lock", key).Msg("release run lease")
			}
		}()
		return do(ctx)
	}
}
