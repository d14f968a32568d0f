// Package scoring normalizes raw KPI responses and aggregates them into
// per-axis and overall scores using the three weight tiers.
package scoring

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/venturelens/pulse/internal/domain/catalog"
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
)

// Rubric and fraction bounds for input validation.
const (
	minScore      = 0
	maxScore      = 100
	minRubric     = 1
	maxRubric     = 5
	rubricSpan    = maxRubric - minRubric
	fractionToPct = 100
)

// Resolver maps a KPI identifier to a benchmark category.
type Resolver interface {
	Match(kpiID string) string
}

// Engine scores responses against a catalog of definitions.
type Engine struct {
	catalog  *catalog.Catalog
	resolver Resolver
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCatalog replaces the default KPI catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithResolver sets the category resolver used for definitions without a
// declared category.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// New creates an Engine with the built-in catalog unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score normalizes each response and resolves its category. Responses that fail
// validation are kept in the output with a flag and no score; they never
// contribute to aggregation. The output order follows the input order.
func (e *Engine) Score(ctx context.Context, responses []model.KPIResponse) ([]model.ScoredKPI, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	scored := make([]model.ScoredKPI, 0, len(responses))
	for _, r := range responses {
		def, ok := e.catalog.Get(r.KPIID)
		if !ok {
			scored = append(scored, model.ScoredKPI{
				KPIID:    r.KPIID,
				RawValue: r.Value,
				Category: e.resolve(r.KPIID, ""),
				Flag:     model.FlagUnknownKPI,
			})
			continue
		}

		s := model.ScoredKPI{
			KPIID:    def.ID,
			Axis:     def.Axis,
			Tier:     def.Tier,
			Kind:     def.Kind,
			Category: e.resolve(def.ID, def.Category),
			RawValue: r.Value,
		}

		norm, err := normalize(def.Kind, r.Value)
		switch {
		case err != nil:
			// Out-of-range input is a data bug upstream; exclude and flag
			// instead of clamping it away.
			s.Flag = model.FlagScoreOutOfRange
		case norm != nil:
			s.Score = norm
		}
		scored = append(scored, s)
	}
	return scored, nil
}

// resolve prefers the declared category and falls back to the matcher.
func (e *Engine) resolve(kpiID, declared string) string {
	if declared != "" {
		return declared
	}
	if e.resolver == nil {
		return ""
	}
	return e.resolver.Match(kpiID)
}

// normalize maps a raw value onto the 0-100 scale for its input kind.
// A nil score with nil error means the kind carries no normalized score.
func normalize(kind types.InputKind, value float64) (*float64, error) {
	switch kind {
	case types.KindScale:
		if value < minScore || value > maxScore {
			return nil, fmt.Errorf("%w: scale value %v outside [0,100]", ErrScoreOutOfRange, value)
		}
		return model.Float(value), nil
	case types.KindRubric:
		if value < minRubric || value > maxRubric {
			return nil, fmt.Errorf("%w: rubric level %v outside [1,5]", ErrScoreOutOfRange, value)
		}
		return model.Float((value - minRubric) / rubricSpan * maxScore), nil
	case types.KindFraction:
		if value < 0 || value > 1 {
			return nil, fmt.Errorf("%w: fraction %v outside [0,1]", ErrScoreOutOfRange, value)
		}
		return model.Float(value * fractionToPct), nil
	case types.KindMetric:
		// Raw business quantity; no normalized score by design.
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown input kind %q", ErrScoreOutOfRange, kind)
}

// Axes aggregates scored KPIs into one AxisScore per axis, in canonical axis
// order. An axis with zero contributing KPIs is marked incomplete; its score
// stays nil.
func (e *Engine) Axes(scored []model.ScoredKPI) []model.AxisScore {
	out := make([]model.AxisScore, 0, len(types.Axes()))
	for _, axis := range types.Axes() {
		out = append(out, axisScore(scored, axis))
	}
	return out
}

func axisScore(scored []model.ScoredKPI, axis types.Axis) model.AxisScore {
	var (
		weighted float64
		weight   float64
		values   []float64
	)
	for _, s := range scored {
		if s.Axis != axis || !s.Scoreable() {
			continue
		}
		w := s.Tier.Weight()
		weighted += *s.Score * w
		weight += w
		values = append(values, *s.Score)
	}

	as := model.AxisScore{Axis: axis, KPICount: len(values)}
	if weight == 0 {
		return as // incomplete: no contributing KPIs
	}
	as.Score = model.Float(weighted / weight)
	as.Complete = true
	as.Weight = weight
	as.Summary = summarize(values)
	return as
}

// summarize computes the descriptive spread of an axis's scores.
func summarize(values []float64) *model.ScoreSummary {
	if len(values) == 0 {
		return nil
	}
	data := stats.Float64Data(values)
	mean, err := stats.Mean(data)
	if err != nil {
		return nil
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil
	}
	return &model.ScoreSummary{Mean: mean, Median: median, StdDev: stdDev, Min: lo, Max: hi}
}

// Overall computes the weighted mean across complete axes, each axis
// weighted by its aggregate weight. Nil when every axis is incomplete.
func (e *Engine) Overall(axes []model.AxisScore) *float64 {
	var (
		weighted float64
		weight   float64
	)
	for _, a := range axes {
		if !a.Complete || a.Score == nil {
			continue
		}
		weighted += *a.Score * a.Weight
		weight += a.Weight
	}
	if weight == 0 {
		return nil
	}
	return model.Float(weighted / weight)
}

// Flagged returns the IDs of scored KPIs excluded by validation, sorted.
func Flagged(scored []model.ScoredKPI) []string {
	var ids []string
	for _, s := range scored {
		if s.Flag != "" {
			ids = append(ids, s.KPIID)
		}
	}
	sort.Strings(ids)
	return ids
}
