// Package module wires the cleaning pipeline from deps and options
package module

import (
	"context"

	"github.com/google/uuid"

	"chatclean/internal/adapters/ingest/ndjson"
	"chatclean/internal/core/lexicon"
	"chatclean/internal/core/textclean"
	"chatclean/internal/modkit"
	"chatclean/internal/modkit/repokit"
	"chatclean/internal/platform/config"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
	"chatclean/internal/services/clean/domain"
	"chatclean/internal/services/clean/guardrails"
	"chatclean/internal/services/clean/ingest"
	"chatclean/internal/services/clean/registry"
	"chatclean/internal/services/clean/repo"
	"chatclean/internal/services/clean/service"
)

// Module implements the cleaning module
type Module struct {
	deps modkit.Deps
	opts Options
}

// New validates opts and binds them to deps. Nothing expensive happens here
func New(deps modkit.Deps, opts Options) (*Module, error) {
	if deps.Store == nil {
		return nil, perr.InvalidArgf("clean module requires an object store")
	}
	if err := config.Validate(opts); err != nil {
		return nil, perr.WithOp(err, "clean.module")
	}
	if opts.SpoolDir != "" {
		ndjson.TempDir = opts.SpoolDir
	}
	return &Module{deps: deps, opts: opts}, nil
}

// Name returns the module name
func (m *Module) Name() string { return "clean" }

// Options returns the bound options
func (m *Module) Options() Options { return m.opts }

// Runner loads the language resources and builds the orchestrator
func (m *Module) Runner(ctx context.Context) (*service.Service, error) {
	prof, err := textclean.LoadProfile(m.opts.ProfilePath)
	if err != nil {
		return nil, err
	}
	res, err := lexicon.Load(lexicon.Options{
		DictionaryPath: m.opts.DictionaryPath,
		ExtraStopwords: m.opts.ExtraStopwords,
	})
	if err != nil {
		return nil, err
	}
	cleaner, err := textclean.New(res, prof)
	if err != nil {
		return nil, err
	}

	var (
		ledger domain.Ledger
		lease  guardrails.Lease
	)
	if m.deps.PG != nil {
		if err := repo.EnsureSchema(ctx, m.deps.PG); err != nil {
			return nil, err
		}
		ledger = repokit.MustBind(repo.NewPG(), m.deps.PG)
		if m.opts.EnableLeases {
			lease = guardrails.MakeAdvisoryLease(m.deps.PG, m.opts.CatalogKey)
		}
	} else {
		logger.Named("clean").Info().Msg("no database configured, run ledger and lease disabled")
	}

	return service.New(
		m.deps.Store,
		registry.Loader(m.deps.Store, m.opts.CatalogKey),
		ingest.NewStreamer(m.deps.Store),
		cleaner,
		ledger,
		service.Config{
			IngestPrefix:  m.opts.IngestPrefix,
			CleanPrefix:   m.opts.CleanPrefix,
			SourceTimeout: m.opts.SourceTimeout,
			WriteTimeout:  m.opts.WriteTimeout,
			DBTimeout:     m.opts.DBTimeout,
			DryRun:        m.opts.DryRun,
		},
		lease,
		uuid.NewString,
	), nil
}

// Status loads the registry and counts sources by state
func (m *Module) Status(ctx context.Context) (domain.Summary, error) {
	reg, err := registry.Load(ctx, m.deps.Store, m.opts.CatalogKey)
	if err != nil {
		return domain.Summary{}, err
	}
	return reg.Summary(), nil
}

// Docs streams the cleaned corpus in batches
func (m *Module) Docs(ctx context.Context, fn func([]string) error) (service.DocsStats, error) {
	return service.Docs(ctx, m.deps.Store, m.opts.CleanPrefix, m.opts.DocsBatch, fn)
}
