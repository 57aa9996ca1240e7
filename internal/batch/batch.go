// Package batch scores many listings concurrently. It is the only part of
// listingscore with concurrency or cancellation; the engine it drives is
// synchronous and pure.
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// DefaultConcurrency bounds the worker pool when no option is given.
const DefaultConcurrency = 4

// Item is one listing queued for scoring. LoadErr carries a failure from
// reading the listing; such items are reported, never scored.
type Item struct {
	Path    string
	Listing listing.Listing
	Report  *listing.Autocomplete
	LoadErr error
}

// Outcome is the result of scoring one item.
type Outcome struct {
	Path     string
	ID       string
	Result   scoring.Result
	Err      error
	Cached   bool
	Duration time.Duration
}

// OK reports whether the item was scored.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner scores items with a bounded worker pool.
type Runner struct {
	engine      *scoring.Engine
	concurrency int
	cache       *lru.Cache[string, scoring.Result]
	metrics     *Metrics
	logger      *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithConcurrency sets the worker pool size.
func WithConcurrency(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			return errors.NewInputError("concurrency must be at least 1", "batch", nil)
		}
		r.concurrency = n
		return nil
	}
}

// WithCache memoizes results by content hash. A size of zero disables it.
func WithCache(size int) Option {
	return func(r *Runner) error {
		if size <= 0 {
			r.cache = nil
			return nil
		}
		cache, err := lru.New[string, scoring.Result](size)
		if err != nil {
			return errors.NewCacheError("failed to create result cache", "new", "", err)
		}
		r.cache = cache
		return nil
	}
}

// WithMetrics records Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) error {
		r.metrics = m
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) error {
		if l != nil {
			r.logger = l
		}
		return nil
	}
}

// NewRunner creates a runner around engine.
func NewRunner(engine *scoring.Engine, opts ...Option) (*Runner, error) {
	r := &Runner{
		engine:      engine,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run scores items and returns one outcome per item in input order. When ctx
// is cancelled the remaining items are abandoned with ctx.Err() as their
// error, and Run returns that error alongside the partial outcomes.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Outcome, error) {
	outcomes := make([]Outcome, len(items))
	p := pool.New().WithMaxGoroutines(r.concurrency)

	for idx, item := range items {
		idx, item := idx, item
		p.Go(func() {
			outcomes[idx] = r.score(ctx, item)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		r.logger.Warn("Batch cancelled", zap.Error(err))
		return outcomes, err
	}
	r.logger.Info("Batch complete", zap.Int("listings", len(items)))
	return outcomes, nil
}

func (r *Runner) score(ctx context.Context, item Item) Outcome {
	out := Outcome{Path: item.Path, ID: item.Listing.ID}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	if item.LoadErr != nil {
		out.Err = item.LoadErr
		r.metrics.IncLoadError(LoadErrorReason(item.LoadErr))
		r.logger.Warn("Failed to load listing", zap.String("path", item.Path), zap.Error(item.LoadErr))
		return out
	}

	key, err := ContentHash(r.engine.Rubric().Version, item.Listing, item.Report)
	if err != nil {
		r.logger.Debug("Cache key unavailable", zap.String("path", item.Path), zap.Error(err))
	}
	if r.cache != nil && key != "" {
		if res, ok := r.cache.Get(key); ok {
			r.metrics.IncCacheHit()
			out.Result, out.Cached = res, true
			return out
		}
	}

	start := time.Now()
	out.Result = r.engine.Score(item.Listing, item.Report)
	out.Duration = time.Since(start)

	if r.cache != nil && key != "" {
		r.cache.Add(key, out.Result)
	}
	r.metrics.ObserveDuration(out.Duration)
	r.metrics.IncScored(out.Result.Grade)
	r.logger.Debug("Scored listing",
		zap.String("path", item.Path),
		zap.String("id", out.ID),
		zap.Int("total", out.Result.Total),
		zap.String("grade", out.Result.Grade),
	)
	return out
}

// ContentHash returns the SHA-256 of the rubric version, listing and report.
func ContentHash(version string, l listing.Listing, report *listing.Autocomplete) (string, error) {
	data, err := json.Marshal(struct {
		Version string                `json:"version"`
		Listing listing.Listing       `json:"listing"`
		Report  *listing.Autocomplete `json:"report"`
	}{version, l, report})
	if err != nil {
		return "", errors.NewCacheError("failed to hash listing", "hash", l.ID, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// LoadErrorReason classifies a load failure for the load-errors metric.
func LoadErrorReason(err error) string {
	var inputErr *errors.InputError
	if stderrors.As(err, &inputErr) {
		return "invalid"
	}
	return "io"
}

// LoadItems reads each path into an Item. A companion autocomplete report
// is attached when reportPath returns a path for it; reportPath may be nil.
func LoadItems(paths []string, reportPath func(listingPath string) string) []Item {
	items := make([]Item, 0, len(paths))
	for _, path := range paths {
		item := Item{Path: path}
		file, err := listing.Load(path)
		if err != nil {
			item.LoadErr = err
			items = append(items, item)
			continue
		}
		item.Listing = file.Listing
		item.Report = file.Autocomplete
		if reportPath != nil && item.Report == nil {
			if rp := reportPath(path); rp != "" {
				report, err := listing.LoadAutocomplete(rp)
				if err != nil {
					item.LoadErr = err
				}
				item.Report = report
			}
		}
		items = append(items, item)
	}
	return items
}
