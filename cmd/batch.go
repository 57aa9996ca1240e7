package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/baseline"
	"github.com/dotcommander/listingscore/internal/batch"
	"github.com/dotcommander/listingscore/internal/discovery"
	"github.com/dotcommander/listingscore/internal/git"
	"github.com/dotcommander/listingscore/internal/history"
	"github.com/dotcommander/listingscore/internal/output"
	"github.com/dotcommander/listingscore/internal/project"
)

type batchOptions struct {
	changed        bool
	staged         bool
	useBaseline    bool
	createBaseline bool
	baselinePath   string
	reportsDir     string
	history        bool
	followSymlinks bool
}

func newBatchCmd(a *app) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Score every listing under a root",
		Long: `Score many listings concurrently and print a summary.

Paths may be listing files or directories; every .md, .yaml, .yml or .json
file in a named directory is a listing. With no paths, listings are
discovered under --root: *.listing.{md,yaml,yml,json} anywhere and every
listing file under listings/. Autocomplete reports are picked up from
sibling <id>.autocomplete.* files or from --reports.

Ctrl-C abandons the sweep; listings not yet scored are reported as cancelled.`,
		Example: `  listingscore batch
  listingscore batch shop/ --reports reports/ -f markdown -o scores.md
  listingscore batch --changed --baseline --fail-on error
  listingscore batch --staged --fail-on error
  listingscore batch --history --metrics-out /var/lib/node_exporter/listingscore.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, a, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.changed, "changed", false, "Only score listings with uncommitted git changes")
	flags.BoolVar(&opts.staged, "staged", false, "Only score listings staged for the next git commit")
	flags.BoolVar(&opts.useBaseline, "baseline", false, "Hide issues recorded in the baseline file")
	flags.BoolVar(&opts.createBaseline, "create-baseline", false, "Record current issues as the baseline and exit 0")
	flags.StringVar(&opts.baselinePath, "baseline-file", baseline.DefaultPath, "Baseline file, relative to the root")
	flags.StringVar(&opts.reportsDir, "reports", "", "Directory of <id>.autocomplete.{json,yaml,yml} reports")
	flags.BoolVar(&opts.history, "history", false, "Store scores in PostgreSQL (needs --postgres-dsn)")
	flags.BoolVar(&opts.followSymlinks, "follow-symlinks", false, "Follow symlinked listing files inside the root")
	flags.Int("concurrency", batch.DefaultConcurrency, "Listings scored in parallel")
	flags.Int("cache-size", 256, "Result cache entries (0 disables)")
	flags.String("metrics-out", "", "Write Prometheus metrics to a node-exporter textfile")

	for key, flag := range map[string]string{
		"concurrency": "concurrency",
		"cacheSize":   "cache-size",
		"metricsOut":  "metrics-out",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	cmd.MarkFlagsMutuallyExclusive("changed", "staged")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions, args []string) error {
	start := time.Now()

	scope := scopeAll
	switch {
	case opts.staged:
		scope = scopeStaged
	case opts.changed:
		scope = scopeChanged
	}
	paths, err := collectListingPaths(a.cfg.Root, args, scope, opts.followSymlinks)
	if err != nil {
		return err
	}
	a.logger.Info("Listings collected", zap.Int("count", len(paths)), zap.String("scope", scope.String()))

	engine, err := a.engine()
	if err != nil {
		return err
	}

	metrics := batch.NewMetrics()
	runner, err := batch.NewRunner(engine,
		batch.WithConcurrency(a.cfg.Concurrency),
		batch.WithCache(a.cfg.CacheSize),
		batch.WithMetrics(metrics),
		batch.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	items := batch.LoadItems(paths, func(p string) string {
		return discovery.ReportPath(p, opts.reportsDir)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	outcomes, runErr := runner.Run(ctx, items)
	for i := range outcomes {
		outcomes[i].Path = displayPath(a.cfg.Root, outcomes[i].Path)
	}

	baselineFile := opts.baselinePath
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(a.cfg.Root, baselineFile)
	}

	shown := outcomes
	suppressed := 0
	if opts.useBaseline && !opts.createBaseline {
		shown, suppressed, err = applyBaseline(baselineFile, outcomes)
		if err != nil {
			return err
		}
	}

	summary := batch.Summarize(shown)
	r := output.NewReport(shown)
	r.StartTime = start
	r.Summary = &summary
	r.Suppressed = suppressed
	if err := a.render(cmd, r); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("batch interrupted: %w", runErr)
	}

	if opts.history {
		if err := writeHistory(ctx, a, outcomes); err != nil {
			return err
		}
	}

	if a.cfg.MetricsOut != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.MetricsOut), 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
		if err := metrics.WriteTextfile(a.cfg.MetricsOut); err != nil {
			return err
		}
		a.logger.Info("Metrics written", zap.String("path", a.cfg.MetricsOut))
	}

	if opts.createBaseline {
		var findings []baseline.Finding
		for _, o := range outcomes {
			if o.OK() {
				findings = append(findings, baseline.FindingsOf(o.ID, o.Result)...)
			}
		}
		b := baseline.CreateBaseline(findings)
		if err := b.SaveBaseline(baselineFile); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		if !a.cfg.Quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Baseline created: %s (%d issues)\n", baselineFile, len(b.Fingerprints))
		}
		return nil
	}

	return a.checkFailOn(r)
}

// gitScope limits discovery to listings git reports as modified.
type gitScope int

const (
	scopeAll gitScope = iota
	scopeChanged
	scopeStaged
)

func (s gitScope) String() string {
	switch s {
	case scopeChanged:
		return "changed"
	case scopeStaged:
		return "staged"
	default:
		return "all"
	}
}

// collectListingPaths resolves the listings a batch run covers. Explicit
// arguments win; every listing file inside a directory argument counts.
func collectListingPaths(root string, args []string, scope gitScope, followSymlinks bool) ([]string, error) {
	if len(args) == 0 {
		if scope != scopeAll {
			if !project.Detect(root).HasGit && !git.IsGitRepo(root) {
				return nil, fmt.Errorf("--%s needs a git repository at %s", scope, root)
			}
			if scope == scopeStaged {
				return git.GetStagedFiles(root)
			}
			return git.GetChangedFiles(root)
		}
		files, err := discovery.NewFileDiscovery(root, followSymlinks).DiscoverFiles()
		if err != nil {
			return nil, err
		}
		return discovery.Paths(files), nil
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, abs)
			continue
		}
		files, err := discovery.NewFileDiscovery(arg, followSymlinks).
			WithPatterns(discovery.DirectoryPatterns).
			DiscoverFiles()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			abs, err := filepath.Abs(f.Path)
			if err != nil {
				return nil, err
			}
			paths = append(paths, abs)
		}
	}
	return paths, nil
}

// applyBaseline hides known issues. A missing baseline file hides nothing.
func applyBaseline(path string, outcomes []batch.Outcome) ([]batch.Outcome, int, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return outcomes, 0, nil
	}
	b, err := baseline.LoadBaseline(path)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]batch.Outcome, len(outcomes))
	total := 0
	for i, o := range outcomes {
		filtered[i] = o
		if !o.OK() {
			continue
		}
		res, n := b.Filter(o.ID, o.Result)
		filtered[i].Result = res
		total += n
	}
	return filtered, total, nil
}

func writeHistory(ctx context.Context, a *app, outcomes []batch.Outcome) error {
	if a.cfg.PostgresDSN == "" {
		return fmt.Errorf("--history needs a PostgreSQL DSN (--postgres-dsn or LISTINGSCORE_POSTGRESDSN)")
	}

	w, err := history.Open(ctx, a.cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer w.Close()

	now := time.Now()
	var records []history.Record
	for _, o := range outcomes {
		if o.OK() {
			records = append(records, history.FromResult(o.ID, o.Path, o.Result, now))
		}
	}
	if err := w.Write(ctx, records); err != nil {
		return err
	}
	a.logger.Info("Scores stored", zap.Int("records", len(records)))
	return nil
}
