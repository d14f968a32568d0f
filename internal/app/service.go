// Package app wires the engine components into one service: category
// matching and scoring feed benchmarking, correlation analysis and risk
// detection, whose outputs the assembler merges into a report. The service
// is stateless per invocation; the only shared state is the immutable
// knowledge-base table.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/venturelens/pulse/internal/adapters/knowledge"
	"github.com/venturelens/pulse/internal/domain/benchmark"
	"github.com/venturelens/pulse/internal/domain/catalog"
	"github.com/venturelens/pulse/internal/domain/correlation"
	"github.com/venturelens/pulse/internal/domain/matcher"
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/report"
	"github.com/venturelens/pulse/internal/domain/risk"
	"github.com/venturelens/pulse/internal/domain/scoring"
	"github.com/venturelens/pulse/pkg/logger"
	"github.com/venturelens/pulse/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultBatchConcurrency = 8
	defaultCacheSize        = 10_000
)

// Engine is the diagnostics engine service.
type Engine struct {
	catalog    *catalog.Catalog
	matcher    *matcher.Matcher
	scorer     *scoring.Engine
	comparator *benchmark.Comparator
	analyzer   *correlation.Analyzer
	detector   *risk.Detector

	store   *knowledge.Store
	loader  *knowledge.Loader
	watcher *knowledge.Watcher

	knowledgePath  string
	knowledgeWatch bool

	cache            *reportCache
	batchConcurrency int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCatalog replaces the built-in KPI catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithMatcher replaces the built-in category matcher.
func WithMatcher(m *matcher.Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithComparatorOptions configures benchmark confidence scoring.
func WithComparatorOptions(opts ...benchmark.Option) Option {
	return func(e *Engine) {
		e.comparator = benchmark.New(opts...)
	}
}

// WithKnowledgePath points the engine at an external knowledge-base file.
// Without it the embedded baseline dataset is used.
func WithKnowledgePath(path string, watch bool) Option {
	return func(e *Engine) {
		e.knowledgePath = path
		e.knowledgeWatch = watch
	}
}

// WithCacheSize bounds the report cache; zero disables caching.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size >= 0 {
			e.cache = newReportCache(size)
		}
	}
}

// WithBatchConcurrency bounds parallel snapshot scoring in GenerateBatch.
func WithBatchConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchConcurrency = n
		}
	}
}

// New constructs an Engine with default components.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog:          catalog.Default(),
		matcher:          matcher.New(),
		comparator:       benchmark.New(),
		analyzer:         correlation.New(),
		detector:         risk.New(),
		cache:            newReportCache(defaultCacheSize),
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scorer = scoring.New(
		scoring.WithCatalog(e.catalog),
		scoring.WithResolver(e.matcher),
	)
	return e
}

// Start loads and validates the knowledge base: the embedded baseline, or
// the configured external file, optionally hot-reloaded. The engine never
// serves without a validated table.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return nil
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}

	e.loader = knowledge.NewLoader(
		knowledge.WithKnownCategories(e.matcher.Categories()),
	)
	e.store = knowledge.NewStore()

	switch {
	case e.knowledgePath == "":
		table, err := e.loader.ParseDefault()
		if err != nil {
			return fmt.Errorf("embedded knowledge base: %w", err)
		}
		e.store.Swap(ctx, table)
		metrics.RecordKnowledgeReload("success")
	case e.knowledgeWatch:
		e.watcher = knowledge.NewWatcher(e.knowledgePath, e.loader, e.store)
		if err := e.watcher.Start(ctx); err != nil {
			return err
		}
	default:
		table, err := e.loader.LoadFile(e.knowledgePath)
		if err != nil {
			return err
		}
		e.store.Swap(ctx, table)
		metrics.RecordKnowledgeReload("success")
	}

	e.started = true
	e.logger.Info(ctx, "engine started",
		logger.Int("kpi_definitions", e.catalog.Len()),
		logger.String("matcher_rules", e.matcher.Version()),
		logger.String("knowledge_path", e.knowledgePath),
	)
	return nil
}

// Stop ends background work. Safe to call more than once.
func (e *Engine) Stop() {
	if e.watcher != nil {
		e.watcher.Stop()
		e.watcher = nil
	}
	e.started = false
}

// Reload re-reads the external knowledge-base file on demand. With no file
// configured it re-parses the embedded dataset, which is a no-op in effect
// but keeps the endpoint total.
func (e *Engine) Reload(ctx context.Context) error {
	var (
		table *knowledge.Table
		err   error
	)
	if e.knowledgePath == "" {
		table, err = e.loader.ParseDefault()
	} else {
		table, err = e.loader.LoadFile(e.knowledgePath)
	}
	if err != nil {
		metrics.RecordKnowledgeReload("failure")
		return err
	}
	e.store.Swap(ctx, table)
	metrics.RecordKnowledgeReload("success")
	return nil
}

// Profiles lists the cluster keys of the active knowledge base.
func (e *Engine) Profiles(_ context.Context) []model.ClusterKey {
	t := e.store.Current()
	if t == nil {
		return nil
	}
	return t.Keys()
}

// GenerateReport runs the full pipeline for one snapshot. Scoring and
// matching run first; benchmarking, correlation analysis and risk detection
// then fan out in parallel and join before assembly. Cancellation is always
// safe: nothing is written anywhere, discarded work leaves no residue.
func (e *Engine) GenerateReport(ctx context.Context, snapshot model.Snapshot) (model.Report, error) {
	start := time.Now()

	if !e.started {
		return model.Report{}, ErrNotStarted
	}
	if len(snapshot.Responses) == 0 {
		metrics.RecordSnapshotRejected()
		return model.Report{}, fmt.Errorf("%w: snapshot %q has no responses", ErrEmptySnapshot, snapshot.ID)
	}

	generation := e.store.Generation()
	if cached, ok := e.cache.get(snapshot, generation); ok {
		metrics.RecordCacheHit()
		return cached, nil
	}
	metrics.RecordCacheMiss()

	profile, usedFallback := e.store.Lookup(ctx, snapshot.Cluster)
	if profile == nil {
		return model.Report{}, ErrNotStarted
	}

	scored, err := e.scorer.Score(ctx, snapshot.Responses)
	if err != nil {
		return model.Report{}, err
	}
	axes := e.scorer.Axes(scored)
	overall := e.scorer.Overall(axes)

	var (
		comparisons []model.BenchmarkComparison
		insights    []model.CorrelationInsight
		alerts      []model.RiskAlert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comparisons = e.compare(gctx, scored, profile)
		return gctx.Err()
	})
	g.Go(func() error {
		// Risk rule evaluation consumes the correlation output, so these
		// two stay on one worker; benchmarking runs alongside.
		insights = e.analyzer.Analyze(scored)
		alerts = e.detector.Detect(risk.Input{
			Scored:   scored,
			Axes:     axes,
			Insights: insights,
			Profile:  profile,
		})
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return model.Report{}, fmt.Errorf("report generation cancelled: %w", err)
	}

	rep := report.Assemble(report.Inputs{
		SnapshotID:   snapshot.ID,
		Cluster:      snapshot.Cluster,
		ProfileName:  profile.Name,
		UsedFallback: usedFallback,
		Scored:       scored,
		Axes:         axes,
		Overall:      overall,
		Comparisons:  comparisons,
		Insights:     insights,
		Alerts:       alerts,
		Readiness:    scoring.Readiness(profile, axes, overall),
	})

	e.observe(rep, time.Since(start))
	e.cache.put(snapshot, generation, rep)
	return rep, nil
}

// compare benchmarks every unflagged KPI whose category has a distribution
// in the profile. KPIs without reference data are simply not compared.
func (e *Engine) compare(_ context.Context, scored []model.ScoredKPI, profile *model.ClusterProfile) []model.BenchmarkComparison {
	comparisons := make([]model.BenchmarkComparison, 0, len(scored))
	for _, s := range scored {
		if s.Flag != "" {
			continue
		}
		dist, ok := profile.Distribution(s.Category)
		if !ok {
			continue
		}
		comparisons = append(comparisons, e.comparator.Compare(s.KPIID, s.RawValue, dist, profile))
	}
	return comparisons
}

// observe records pipeline metrics for one generated report.
func (e *Engine) observe(rep model.Report, elapsed time.Duration) {
	metrics.RecordReportGenerated()
	metrics.RecordReportDuration(float64(elapsed.Milliseconds()))
	metrics.RecordFlaggedKPIs(len(scoring.Flagged(rep.Scored)))

	incomplete := 0
	for _, a := range rep.Axes {
		if !a.Complete {
			incomplete++
		}
	}
	metrics.RecordIncompleteAxes(incomplete)
	for _, ins := range rep.Insights {
		metrics.RecordInsight(ins.Formula)
	}
	for _, alert := range rep.Alerts {
		metrics.RecordRiskAlert(string(alert.Severity))
	}
}

// GenerateBatch scores many snapshots with bounded concurrency, preserving
// input order in the result. The first failure cancels the rest.
func (e *Engine) GenerateBatch(ctx context.Context, snapshots []model.Snapshot) ([]model.Report, error) {
	if !e.started {
		return nil, ErrNotStarted
	}
	metrics.RecordBatchSize(len(snapshots))

	reports := make([]model.Report, len(snapshots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchConcurrency)
	for i, snap := range snapshots {
		i, snap := i, snap
		g.Go(func() error {
			rep, err := e.GenerateReport(gctx, snap)
			if err != nil {
				return fmt.Errorf("snapshot %q: %w", snap.ID, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
