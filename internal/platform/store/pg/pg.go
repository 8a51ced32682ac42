// Package pg provides a Postgres client using pgxpool with optional query tracing
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
	AppName  string
}

// PG is a postgres client with pool and optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open creates a client; poolCfgMut may adjust the parsed pool config before connect
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pcfg.ConnConfig.RuntimeParams == nil {
			pcfg.ConnConfig.RuntimeParams = map[string]string{}
		}
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping checks connectivity with a round trip
func (p *PG) Ping(ctx context.Context) error {
	var one int
	return p.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Exec runs a statement and traces it
func (p *PG) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	ct, err := p.Pool.Exec(ctx, sql, args...)
	p.emit(ctx, sql, args, start, err)
	return ct, err
}

// QueryRow runs a single-row query; the trace event fires after Scan
func (p *PG) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	start := time.Now()
	r := p.Pool.QueryRow(ctx, sql, args...)
	return tracedRow{r: r, after: func(err error) { p.emit(ctx, sql, args, start, err) }}
}

// Query runs a multi-row query, tracing on open
func (p *PG) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rs, err := p.Pool.Query(ctx, sql, args...)
	p.emit(ctx, sql, args, start, err)
	return rs, err
}

func (p *PG) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if p == nil || p.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	p.Tracer.OnQuery(ctx, QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      p.SlowMs >= 0 && elapsedUS >= int64(p.SlowMs)*1000,
	})
}

type tracedRow struct {
	r     pgx.Row
	after func(error)
}

func (x tracedRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

// TryAdvisoryLock takes a session-level advisory lock on a dedicated pooled connection.
// When ok is false the lock is held elsewhere and nothing needs releasing.
// unlock releases the lock and returns the connection to the pool
func (p *PG) TryAdvisoryLock(ctx context.Context, key int64) (unlock func(context.Context) error, ok bool, err error) {
	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	const lockSQL = "SELECT pg_try_advisory_lock($1)"
	err = conn.QueryRow(ctx, lockSQL, key).Scan(&ok)
	p.emit(ctx, lockSQL, []any{key}, start, err)
	if err != nil || !ok {
		conn.Release()
		return nil, false, err
	}
	return func(ctx context.Context) error {
		defer conn.Release()
		_, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", key)
		return err
	}, true, nil
}
