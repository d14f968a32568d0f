// Package report assembles the engine outputs into one immutable Report.
// Assembly is purely structural: ordering and packaging, no computation.
// Calling Assemble twice with identical inputs yields deep-equal reports,
// which is what makes report caching sound.
package report

import (
	"sort"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Inputs carries everything the assembler packages. The assembler copies
// the slices before sorting; callers keep ownership of their inputs.
type Inputs struct {
	SnapshotID   string
	Cluster      model.ClusterKey
	ProfileName  string
	UsedFallback bool
	Scored       []model.ScoredKPI
	Axes         []model.AxisScore
	Overall      *float64
	Comparisons  []model.BenchmarkComparison
	Insights     []model.CorrelationInsight
	Alerts       []model.RiskAlert
	Readiness    model.StageReadiness
}

// Assemble deterministically orders and merges the component outputs.
func Assemble(in Inputs) model.Report {
	scored := append([]model.ScoredKPI(nil), in.Scored...)
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Axis.Rank() != scored[j].Axis.Rank() {
			return scored[i].Axis.Rank() < scored[j].Axis.Rank()
		}
		return scored[i].KPIID < scored[j].KPIID
	})

	axes := append([]model.AxisScore(nil), in.Axes...)
	sort.Slice(axes, func(i, j int) bool {
		return axes[i].Axis.Rank() < axes[j].Axis.Rank()
	})

	comparisons := append([]model.BenchmarkComparison(nil), in.Comparisons...)
	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Category != comparisons[j].Category {
			return comparisons[i].Category < comparisons[j].Category
		}
		return comparisons[i].KPIID < comparisons[j].KPIID
	})

	// Insights and alerts arrive sorted by their producers; re-sorting here
	// keeps assembly deterministic regardless of the producer.
	insights := append([]model.CorrelationInsight(nil), in.Insights...)
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Priority.Rank() != insights[j].Priority.Rank() {
			return insights[i].Priority.Rank() < insights[j].Priority.Rank()
		}
		return insights[i].Formula < insights[j].Formula
	})

	alerts := append([]model.RiskAlert(nil), in.Alerts...)
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
		}
		if len(alerts[i].AffectedKPIs) != len(alerts[j].AffectedKPIs) {
			return len(alerts[i].AffectedKPIs) > len(alerts[j].AffectedKPIs)
		}
		return alerts[i].RuleID < alerts[j].RuleID
	})

	return model.Report{
		SnapshotID:   in.SnapshotID,
		Cluster:      in.Cluster,
		Profile:      in.ProfileName,
		UsedFallback: in.UsedFallback,
		Scored:       scored,
		Axes:         axes,
		Overall:      in.Overall,
		Comparisons:  comparisons,
		Insights:     insights,
		Alerts:       alerts,
		Readiness:    in.Readiness,
	}
}
