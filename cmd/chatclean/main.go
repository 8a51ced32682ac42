// chatclean cleans chat-log exports into year-bucketed English corpora
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chatclean/internal/core/version"
	"chatclean/internal/modkit"
	"chatclean/internal/platform/config"
	"chatclean/internal/platform/logger"
	"chatclean/internal/services/clean/domain"
	"chatclean/internal/services/clean/guardrails"
	cleanmod "chatclean/internal/services/clean/module"
)

// CLI flags; each overrides its CLEAN_ env counterpart when set
var (
	fDryRun       bool
	fNoProgress   bool
	fCatalog      string
	fIngestPrefix string
	fCleanPrefix  string
	fBatch        int
	fPrint        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatclean",
	Short: "Clean chat-log exports into year-bucketed English corpora",
	Long: `chatclean streams NDJSON chat exports from an object store, filters spam,
non-English text and identifier noise, and writes one JSON array of cleaned
documents per source and year. Sources already cleaned are skipped, so runs
can be repeated or resumed after a crash.

Configuration comes from STORE_*, CLEAN_*, PG_* and LOG_* environment variables.`,
	Version:       version.Info().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean every catalog source not yet cleaned",
	RunE:  runClean,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many catalog sources are cleaned and pending",
	RunE:  runStatus,
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Stream the cleaned corpus in training batches",
	RunE:  runDocs,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fCatalog, "catalog", "", "catalog object key (CLEAN_CATALOG_KEY)")
	rootCmd.PersistentFlags().StringVar(&fIngestPrefix, "ingest-prefix", "", "source blob prefix (CLEAN_INGEST_PREFIX)")
	rootCmd.PersistentFlags().StringVar(&fCleanPrefix, "output-prefix", "", "cleaned output prefix (CLEAN_OUTPUT_PREFIX)")

	runCmd.Flags().BoolVar(&fDryRun, "dry-run", false, "stream and clean but write and mark nothing")
	runCmd.Flags().BoolVar(&fNoProgress, "no-progress", false, "disable the progress bar")

	docsCmd.Flags().IntVar(&fBatch, "batch", 0, "documents per batch (CLEAN_DOCS_BATCH)")
	docsCmd.Flags().BoolVar(&fPrint, "print", false, "print documents, one per line")

	rootCmd.AddCommand(runCmd, statusCmd, docsCmd)
}

// signalContext is canceled on SIGINT/SIGTERM so a run stops between records
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// open builds deps and the module with flag overrides applied
func open(ctx context.Context) (modkit.Deps, *cleanmod.Module, error) {
	root := config.New()
	deps, err := modkit.Open(ctx, root)
	if err != nil {
		return deps, nil, err
	}
	opts := cleanmod.FromConfig(root)
	if fCatalog != "" {
		opts.CatalogKey = fCatalog
	}
	if fIngestPrefix != "" {
		opts.IngestPrefix = fIngestPrefix
	}
	if fCleanPrefix != "" {
		opts.CleanPrefix = fCleanPrefix
	}
	if fDryRun {
		opts.DryRun = true
	}
	if fBatch > 0 {
		opts.DocsBatch = fBatch
	}
	m, err := cleanmod.New(deps, opts)
	if err != nil {
		deps.Close()
		return deps, nil, err
	}
	return deps, m, nil
}

func runClean(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	l := logger.Get()

	deps, m, err := open(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := m.Runner(ctx)
	if err != nil {
		return err
	}

	bar := newProgress(!fNoProgress)
	svc.OnDiscover = bar.start
	svc.OnSource = bar.source

	stats, err := svc.Run(ctx)
	bar.finish()
	printRunSummary(stats, m.Options().DryRun)

	switch {
	case errors.Is(err, guardrails.ErrLeaseHeld):
		l.Warn().Msg("another run holds the catalog lease, nothing done")
		return nil
	case err != nil:
		var se *domain.SourceError
		if errors.As(err, &se) {
			return fmt.Errorf("%d source(s) failed and stay pending: %w", stats.Failed, err)
		}
		return err
	}
	return nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	deps, m, err := open(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	s, err := m.Status(ctx)
	if err != nil {
		return err
	}
	printStatus(m.Options().CatalogKey, s)
	return nil
}

func runDocs(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	deps, m, err := open(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	out := cmd.OutOrStdout()
	total := 0
	st, err := m.Docs(ctx, func(batch []string) error {
		total += len(batch)
		if fPrint {
			for _, d := range batch {
				if _, err := fmt.Fprintln(out, d); err != nil {
					return err
				}
			}
		}
		logger.Get().Info().Int("batch", len(batch)).Int("total", total).Msg("processed documents so far")
		return nil
	})
	if err != nil {
		return err
	}
	printDocs(st)
	return nil
}
