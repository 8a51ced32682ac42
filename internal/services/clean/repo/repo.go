// Package repo records cleaning runs in Postgres
package repo

import (
	"context"
	_ "embed"
	"encoding/json"

	"chatclean/internal/modkit/repokit"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/services/clean/domain"
)

//go:embed schema.sql
var schemaSQL string

type queries struct{ q repokit.Queryer }

// NewPG returns a Postgres binder for domain.Ledger
func NewPG() repokit.Binder[domain.Ledger] {
	return repokit.BindFunc[domain.Ledger](func(q repokit.Queryer) domain.Ledger {
		return &queries{q: q}
	})
}

// EnsureSchema creates the ledger table when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "ensure clean_runs schema")
	}
	return nil
}

// StartSource opens (or reopens) the row for one source of one run
func (r *queries) StartSource(ctx context.Context, runID, sourceID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clean_runs (run_id, source_id, status, started_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (run_id, source_id) DO UPDATE
		SET status = EXCLUDED.status, started_at = now(), finished_at = null, error = null, error_code = null
	`, runID, sourceID, domain.StatusRunning)
	if err != nil {
		return perr.FromPostgres(err, "start source")
	}
	return nil
}

// FinishSource closes the row with the outcome and counters
func (r *queries) FinishSource(ctx context.Context, runID, sourceID string, fin domain.SourceFinish) error {
	st := fin.Stats
	rejectedBy, err := jsonMap(st.RejectedBy)
	if err != nil {
		return err
	}
	buckets, err := jsonMap(st.Buckets)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		UPDATE clean_runs SET
			finished_at = now(),
			status = $3,
			lines = $4,
			records = $5,
			skipped = $6,
			bots = $7,
			empty = $8,
			rejected = $9,
			kept = $10,
			rejected_by = $11::jsonb,
			buckets = $12::jsonb,
			bytes = $13,
			read_ms = $14,
			write_ms = $15,
			elapsed_ms = $16,
			error_code = NULLIF($17,''),
			error = NULLIF($18,'')
		WHERE run_id = $1 AND source_id = $2
	`,
		runID, sourceID, fin.Status,
		st.Lines, st.Records, st.Skipped, st.Bots, st.Empty, st.Rejected, st.Kept,
		rejectedBy, buckets, st.Bytes, st.ReadMS, st.WriteMS, st.ElapsedMS,
		fin.ErrCode, fin.ErrText,
	)
	if err != nil {
		return perr.FromPostgres(err, "finish source")
	}
	return nil
}

func jsonMap(m map[string]int) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "encode ledger counters")
	}
	return string(b), nil
}
