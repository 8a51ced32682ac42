// Package service runs the cleaning pipeline: discover catalog sources under the
// ingest prefix, stream and clean each uncleaned one, write its year buckets, then
// checkpoint it in the registry
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"chatclean/internal/core/yearbucket"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"
	"chatclean/internal/platform/objstore"
	"chatclean/internal/services/clean/domain"
	"chatclean/internal/services/clean/guardrails"
)

// Config holds the orchestrator knobs
type Config struct {
	IngestPrefix string // where source blobs live, e.g. "datasets-v2/"
	CleanPrefix  string // where year buckets are written, e.g. "cleaned/"

	// Timeouts applied via guardrails
	SourceTimeout time.Duration
	WriteTimeout  time.Duration
	DBTimeout     time.Duration

	// DryRun streams and cleans but writes and marks nothing
	DryRun bool
}

// Service implements domain.RunnerPort
type Service struct {
	Store    objstore.Store
	Registry domain.RegistryLoader
	Streamer domain.Streamer
	Cleaner  domain.Cleaner
	Ledger   domain.Ledger
	Cfg      Config

	// Lease(ctx, do) should hold a run-scoped lock while do runs; nil runs unguarded
	Lease guardrails.Lease

	// NewRunID mints the id stamped on logs and ledger rows
	NewRunID func() string

	// OnDiscover and OnSource are progress hooks for the CLI; both optional
	OnDiscover func(total int)
	OnSource   func(st domain.SourceStats, err error)
}

// New constructs the service. A nil ledger becomes a no-op one
func New(
	store objstore.Store,
	reg domain.RegistryLoader,
	st domain.Streamer,
	cl domain.Cleaner,
	ledger domain.Ledger,
	cfg Config,
	lease guardrails.Lease,
	newRunID func() string,
) *Service {
	if store == nil {
		panic("clean.Service requires a non nil object store")
	}
	if reg == nil || st == nil || cl == nil {
		panic("clean.Service requires a registry loader, streamer and cleaner")
	}
	if ledger == nil {
		ledger = nopLedger{}
	}
	if newRunID == nil {
		newRunID = func() string { return "" }
	}
	return &Service{
		Store: store, Registry: reg, Streamer: st, Cleaner: cl, Ledger: ledger,
		Cfg: cfg, Lease: lease, NewRunID: newRunID,
	}
}

// Run processes every uncleaned catalog source once. A registry that cannot be
// loaded aborts before any source is touched. Per-source failures leave that
// source unmarked and are returned together once every source had its turn
func (s *Service) Run(ctx context.Context) (stats domain.RunStats, err error) {
	stats.RunID = s.NewRunID()
	ctx = logger.WithRun(ctx, stats.RunID)
	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start) }()

	if s.Lease == nil {
		err = s.run(ctx, &stats)
		return stats, err
	}
	err = s.Lease(ctx, func(ctx context.Context) error { return s.run(ctx, &stats) })
	return stats, err
}

func (s *Service) run(ctx context.Context, stats *domain.RunStats) error {
	log := logger.C(ctx)

	reg, err := s.Registry(ctx)
	if err != nil {
		log.Error().Err(err).Msg("clean: registry unavailable, aborting run")
		return err
	}

	keys, err := s.discover(ctx, reg)
	if err != nil {
		return err
	}
	stats.Candidates = len(keys)
	if s.OnDiscover != nil {
		s.OnDiscover(len(keys))
	}
	log.Info().Int("sources", len(keys)).Bool("dry_run", s.Cfg.DryRun).Msg("clean: run started")

	var failures []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		id := sourceID(key)
		if reg.IsCleaned(id) {
			log.Info().Str("source_id", id).Msg("clean: already cleaned, skipping")
			stats.Skipped++
			if s.OnSource != nil {
				s.OnSource(domain.SourceStats{SourceID: id}, nil)
			}
			continue
		}

		st, err := s.processSource(ctx, reg, key, id)
		stats.Add(st)
		if s.OnSource != nil {
			s.OnSource(st, err)
		}
		if err != nil {
			stats.Failed++
			failures = append(failures, &domain.SourceError{SourceID: id, Err: err})
			logger.C(logger.WithSource(ctx, id)).Error().Err(err).Msg("clean: source failed, left unmarked")
			continue
		}
		stats.Cleaned++
	}

	log.Info().
		Int("cleaned", stats.Cleaned).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("records", stats.Records).
		Int("kept", stats.Kept).
		Interface("rejected_by", stats.RejectedBy).
		Msg("clean: run finished")
	return errors.Join(failures...)
}

// discover lists the ingest prefix and keeps <id>.json blobs whose id is in the catalog
func (s *Service) discover(ctx context.Context, reg domain.Registry) ([]string, error) {
	all, err := s.Store.List(ctx, s.Cfg.IngestPrefix)
	if err != nil {
		return nil, perr.WithOp(err, "clean.discover")
	}
	seen := map[string]bool{}
	var keys []string
	for _, k := range all {
		if strings.HasSuffix(k, "/") || !strings.HasSuffix(k, ".json") {
			continue
		}
		id := sourceID(k)
		if id == "" || seen[id] || !reg.Has(id) {
			continue
		}
		seen[id] = true
		keys = append(keys, k)
	}
	return keys, nil
}

// sourceID is the blob base name without .json
func sourceID(key string) string {
	return strings.TrimSuffix(path.Base(key), ".json")
}

// BucketKey is where one year of a source is written
func BucketKey(cleanPrefix, id, year string) string {
	return path.Join(cleanPrefix, id+"-"+year+".json")
}

func (s *Service) processSource(ctx context.Context, reg domain.Registry, key, id string) (st domain.SourceStats, retErr error) {
	ctx = logger.WithSource(ctx, id)
	log := logger.C(ctx)
	runID := logger.RunID(ctx)
	tos := guardrails.Timeouts{Source: s.Cfg.SourceTimeout, Write: s.Cfg.WriteTimeout, DB: s.Cfg.DBTimeout}
	st.SourceID = id
	startWall := time.Now()

	// Start (best effort, DB bounded)
	{
		dbCtx, dbCancel := guardrails.ForDB(ctx, tos)
		if err := s.Ledger.StartSource(dbCtx, runID, id); err != nil {
			log.Warn().Err(err).Msg("clean: ledger start failed")
		}
		dbCancel()
	}

	// Ensure Finish even on error
	defer func() {
		st.ElapsedMS = int(time.Since(startWall).Milliseconds())
		fin := domain.SourceFinish{Status: domain.StatusOK, Stats: st}
		switch {
		case retErr != nil:
			fin.Status = domain.StatusError
			fin.ErrCode = perr.CodeOf(retErr).String()
			fin.ErrText = retErr.Error()
		case s.Cfg.DryRun:
			fin.Status = domain.StatusDryRun
		}
		dbCtx, dbCancel := guardrails.ForDB(context.WithoutCancel(ctx), tos)
		if err := s.Ledger.FinishSource(dbCtx, runID, id, fin); err != nil {
			log.Warn().Err(err).Msg("clean: ledger finish failed")
		}
		dbCancel()
	}()

	// Stream + clean (timeoutable)
	t0 := time.Now()
	buckets := yearbucket.New()
	readCtx, readCancel := guardrails.ForSource(ctx, tos)
	err := s.streamSource(readCtx, key, buckets, &st)
	readCancel()
	st.ReadMS = int(time.Since(t0).Milliseconds())
	if err != nil {
		return st, err
	}

	if s.Cfg.DryRun {
		st.Buckets = buckets.Sizes()
		log.Info().Int("kept", st.Kept).Interface("buckets", st.Buckets).Msg("clean: dry run, nothing written")
		return st, nil
	}

	// Flush in year order so output and logs are deterministic
	t1 := time.Now()
	err = s.flush(ctx, tos, id, buckets, &st)
	st.WriteMS = int(time.Since(t1).Milliseconds())
	if err != nil {
		return st, err
	}

	// Checkpoint only once every bucket is durable
	reg.MarkCleaned(id)
	wctx, wcancel := guardrails.ForWrite(ctx, tos)
	err = reg.Persist(wctx)
	wcancel()
	if err != nil {
		return st, perr.WithOp(err, "clean.checkpoint")
	}

	log.Info().
		Int("records", st.Records).
		Int("skipped", st.Skipped).
		Int("bots", st.Bots).
		Int("empty", st.Empty).
		Int("rejected", st.Rejected).
		Int("kept", st.Kept).
		Interface("buckets", st.Buckets).
		Int("elapsed_ms", int(time.Since(startWall).Milliseconds())).
		Msg("clean: source done")
	return st, nil
}

func (s *Service) streamSource(ctx context.Context, key string, buckets *yearbucket.Buckets, st *domain.SourceStats) (retErr error) {
	rd, err := s.Streamer.Open(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		rs := rd.Stats()
		st.Lines, st.Skipped, st.Bytes = rs.Lines, rs.Skipped, rs.Bytes
		if cerr := rd.Close(); cerr != nil && retErr == nil {
			retErr = perr.WithKey(perr.Wrap(cerr, perr.ErrorCodeStorage, "close source stream"), key)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		st.Records++
		if rec.Bot() {
			st.Bots++
			continue
		}
		text := rec.Text()
		if strings.TrimSpace(text) == "" {
			st.Empty++
			continue
		}
		res := s.Cleaner.Clean(text)
		if res.Rejected() {
			st.Reject(res.RejectedBy)
			continue
		}
		st.Kept++
		buckets.Add(rec.TS(), res.Text())
	}
}

func (s *Service) flush(ctx context.Context, tos guardrails.Timeouts, id string, buckets *yearbucket.Buckets, st *domain.SourceStats) error {
	st.Buckets = map[string]int{}
	for _, year := range buckets.Years() {
		docs := buckets.Docs(year)
		b, err := json.Marshal(docs)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "encode bucket")
		}
		key := BucketKey(s.Cfg.CleanPrefix, id, year)
		wctx, wcancel := guardrails.ForWrite(ctx, tos)
		err = s.Store.Put(wctx, key, b)
		wcancel()
		if err != nil {
			return perr.WithKey(err, key)
		}
		st.Buckets[year] = len(docs)
		logger.C(ctx).Debug().Str("key", key).Int("docs", len(docs)).Msg("clean: bucket written")
	}
	buckets.Reset()
	return nil
}

type nopLedger struct{}

func (nopLedger) StartSource(context.Context, string, string) error { return nil }

func (nopLedger) FinishSource(context.Context, string, string, domain.SourceFinish) error {
	return nil
}
