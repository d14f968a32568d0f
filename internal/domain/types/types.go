// Package types contains the enumerations shared across the engine.
package types

import "fmt"

// Axis is one of the fixed business dimensions being scored.
type Axis string

// Business axes. Order here is the canonical report order.
const (
	AxisGrowth     Axis = "growth"
	AxisFinance    Axis = "finance"
	AxisProduct    Axis = "product"
	AxisOperations Axis = "operations"
	AxisTeam       Axis = "team"
)

// Axes returns all axes in canonical order.
func Axes() []Axis {
	return []Axis{AxisGrowth, AxisFinance, AxisProduct, AxisOperations, AxisTeam}
}

// Valid reports whether a is a known axis.
func (a Axis) Valid() bool {
	switch a {
	case AxisGrowth, AxisFinance, AxisProduct, AxisOperations, AxisTeam:
		return true
	}
	return false
}

// Rank returns the axis position in canonical order, for deterministic sorting.
func (a Axis) Rank() int {
	for i, ax := range Axes() {
		if ax == a {
			return i
		}
	}
	return len(Axes())
}

// ParseAxis converts a string to an Axis or fails.
func ParseAxis(s string) (Axis, error) {
	a := Axis(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown axis %q", s)
	}
	return a, nil
}

// WeightTier is a KPI's relative importance in aggregate scoring.
// Exactly three tiers exist; anything else is rejected at definition load.
type WeightTier int

const (
	TierSupplementary WeightTier = 1
	TierImportant     WeightTier = 2
	TierCritical      WeightTier = 3
)

// Valid reports whether t is one of the three defined tiers.
func (t WeightTier) Valid() bool {
	return t >= TierSupplementary && t <= TierCritical
}

// Weight returns the tier's numeric weight used in aggregation.
func (t WeightTier) Weight() float64 { return float64(t) }

// InputKind describes how a raw response value is interpreted.
type InputKind string

const (
	// KindScale is a value already on the 0-100 scale.
	KindScale InputKind = "scale"
	// KindRubric is an ordinal 1-5 rubric level.
	KindRubric InputKind = "rubric"
	// KindFraction is a 0-1 ratio, e.g. a selected/total multi-select share.
	KindFraction InputKind = "fraction"
	// KindMetric is a raw business quantity (revenue, CAC, ...). Metric KPIs
	// carry no normalized score and are excluded from axis aggregation; they
	// feed benchmarking and correlation instead.
	KindMetric InputKind = "metric"
)

// Valid reports whether k is a known input kind.
func (k InputKind) Valid() bool {
	switch k {
	case KindScale, KindRubric, KindFraction, KindMetric:
		return true
	}
	return false
}

// PerformanceTier is the qualitative label for a benchmark percentile.
type PerformanceTier string

const (
	TierExcellent    PerformanceTier = "excellent"
	TierGood         PerformanceTier = "good"
	TierAverage      PerformanceTier = "average"
	TierBelowAverage PerformanceTier = "below_average"
	TierPoor         PerformanceTier = "poor"
)

// Priority orders correlation insights.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort rank of p; lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Severity orders risk alerts.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns the sort rank of s; lower ranks sort first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}
