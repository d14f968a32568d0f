// Package correlation computes a fixed set of derived unit-economics metrics
// from raw KPI values and prioritizes them for the report. A formula whose
// constituents are missing, or whose divisor is zero, is omitted entirely:
// absence is never rendered as a zero that could be mistaken for a result.
package correlation

import (
	"sort"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Analyzer evaluates the closed formula set.
type Analyzer struct {
	formulas []Formula
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithFormulas replaces the formula set. Intended for tests.
func WithFormulas(formulas []Formula) Option {
	return func(a *Analyzer) {
		if len(formulas) > 0 {
			a.formulas = formulas
		}
	}
}

// New creates an Analyzer over the built-in formula set.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{formulas: Formulas()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze evaluates every formula whose raw inputs are all present and
// returns the insights sorted by priority, ties broken by formula ID.
func (a *Analyzer) Analyze(scored []model.ScoredKPI) []model.CorrelationInsight {
	raw := rawValues(scored)

	insights := make([]model.CorrelationInsight, 0, len(a.formulas))
	for _, f := range a.formulas {
		values, ok := gather(raw, f.Inputs)
		if !ok {
			continue // missing constituent: omit, never substitute
		}
		v, ok := f.Compute(values)
		if !ok {
			continue // zero divisor
		}
		insights = append(insights, model.CorrelationInsight{
			Formula:  f.ID,
			Value:    v,
			Priority: f.Priority(v),
			Message:  f.Message(v),
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Priority.Rank() != insights[j].Priority.Rank() {
			return insights[i].Priority.Rank() < insights[j].Priority.Rank()
		}
		return insights[i].Formula < insights[j].Formula
	})
	return insights
}

// rawValues indexes the raw values of unflagged KPIs by ID.
func rawValues(scored []model.ScoredKPI) map[string]float64 {
	out := make(map[string]float64, len(scored))
	for _, s := range scored {
		if s.Flag != "" {
			continue
		}
		out[s.KPIID] = s.RawValue
	}
	return out
}

// gather collects the named inputs, reporting false if any is absent.
func gather(raw map[string]float64, inputs []string) (map[string]float64, bool) {
	values := make(map[string]float64, len(inputs))
	for _, id := range inputs {
		v, ok := raw[id]
		if !ok {
			return nil, false
		}
		values[id] = v
	}
	return values, true
}
