// Package modkit provides module wiring and core deps
package modkit

import (
	"context"

	"chatclean/internal/platform/config"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
	"chatclean/internal/platform/objstore"
	"chatclean/internal/platform/store/pg"
)

// Deps holds core dependencies passed to modules.
// PG is nil when no database is configured; consumers must nil check it
type Deps struct {
	Cfg   config.Conf
	Store objstore.Store
	PG    *pg.PG
}

// Close releases what Open acquired
func (d Deps) Close() {
	d.PG.Close()
}

// DBOptions configures the optional Postgres connection (PG_ prefix)
type DBOptions struct {
	URL      string `env:"PG_DBURL" validate:"omitempty,url"`
	MaxConns int    `env:"PG_MAX_CONNS" validate:"gte=0"`
	SlowMs   int    `env:"PG_SLOW_MS"`
}

// DBFromConfig reads DBOptions
func DBFromConfig(cfg config.Conf) DBOptions {
	p := cfg.Prefix("PG_")
	return DBOptions{
		URL:      p.MayString("DBURL", ""),
		MaxConns: p.MayInt("MAX_CONNS", 4),
		SlowMs:   p.MayInt("SLOW_MS", 500),
	}
}

// Open builds the object store and, when PG_DBURL is set, the Postgres pool
func Open(ctx context.Context, cfg config.Conf) (Deps, error) {
	deps := Deps{Cfg: cfg}

	st, err := objstore.Open(ctx, objstore.FromConfig(cfg.Prefix("STORE_")))
	if err != nil {
		return deps, err
	}
	deps.Store = st

	db := DBFromConfig(cfg)
	if db.URL == "" {
		logger.Named("modkit").Debug().Msg("PG_DBURL unset, run ledger disabled")
		return deps, nil
	}
	if err := config.Validate(db); err != nil {
		return deps, perr.WithOp(err, "modkit.open")
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      db.URL,
		MaxConns: int32(db.MaxConns),
		SlowMs:   db.SlowMs,
		AppName:  "chatclean",
	}, pg.Tracer(*logger.Get()), nil)
	if err != nil {
		return deps, perr.Wrap(err, perr.ErrorCodeUnavailable, "open postgres")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return deps, perr.FromPostgres(err, "ping postgres")
	}
	deps.PG = p
	return deps, nil
}
