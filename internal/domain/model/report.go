package model

import "github.com/venturelens/pulse/internal/domain/types"

// BenchmarkComparison places one KPI value inside its reference population.
type BenchmarkComparison struct {
	KPIID      string                `json:"kpi_id"`
	Category   string                `json:"category"`
	Value      float64               `json:"value"`
	Percentile float64               `json:"percentile"`
	Tier       types.PerformanceTier `json:"tier"`
	Message    string                `json:"message"`
	// Confidence grades the reference data itself (sample size, recency,
	// source trust). Advisory only; it never changes percentile or tier.
	Confidence float64 `json:"confidence"`
}

// CorrelationInsight is a derived metric computed from raw KPI values.
// Insights with missing constituents are omitted, never zero-filled.
type CorrelationInsight struct {
	Formula  string         `json:"formula"`
	Value    float64        `json:"value"`
	Priority types.Priority `json:"priority"`
	Message  string         `json:"message"`
}

// RiskAlert is one flagged condition produced by an independent rule.
type RiskAlert struct {
	RuleID       string         `json:"rule_id"`
	Severity     types.Severity `json:"severity"`
	Message      string         `json:"message"`
	AffectedKPIs []string       `json:"affected_kpis"`
	Actions      []string       `json:"actions"`
}

// ScoreSummary describes the spread of the normalized scores on one axis.
type ScoreSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// AxisScore is the weighted aggregate for one axis. An axis with no
// contributing KPIs is incomplete: Score stays nil and is never coerced to 0.
type AxisScore struct {
	Axis     types.Axis    `json:"axis"`
	Score    *float64      `json:"score,omitempty"`
	Complete bool          `json:"complete"`
	Weight   float64       `json:"weight"`
	KPICount int           `json:"kpi_count"`
	Summary  *ScoreSummary `json:"summary,omitempty"`
}

// StageReadiness reports the evaluation of the profile's stage-transition
// conditions against the computed scores.
type StageReadiness struct {
	Evaluated bool     `json:"evaluated"`
	Ready     bool     `json:"ready"`
	NextStage string   `json:"next_stage,omitempty"`
	Unmet     []string `json:"unmet,omitempty"`
}

// Report is the fully assembled result for one snapshot. It is immutable
// once assembled, regenerated from scratch per snapshot, and holds only
// JSON-serializable values.
type Report struct {
	SnapshotID string     `json:"snapshot_id"`
	Cluster    ClusterKey `json:"cluster"`
	Profile    string     `json:"profile"`
	// UsedFallback is set when no exact cluster profile existed and the
	// general profile supplied the benchmark context.
	UsedFallback bool `json:"used_fallback"`

	Scored      []ScoredKPI           `json:"scored_kpis"`
	Axes        []AxisScore           `json:"axes"`
	Overall     *float64              `json:"overall,omitempty"`
	Comparisons []BenchmarkComparison `json:"comparisons"`
	Insights    []CorrelationInsight  `json:"insights"`
	Alerts      []RiskAlert           `json:"alerts"`
	Readiness   StageReadiness        `json:"readiness"`
}

// Float returns a pointer to v. Convenience for optional score fields.
func Float(v float64) *float64 { return &v }
