// Package risk evaluates independent rules over the full scored dataset.
// Each rule is a pure function of its input and never observes another
// rule's output, so results are reproducible and order-independent.
package risk

import (
	"sort"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Input is everything a rule may read. Rules receive the same immutable
// input; they share nothing else.
type Input struct {
	Scored   []model.ScoredKPI
	Axes     []model.AxisScore
	Insights []model.CorrelationInsight
	Profile  *model.ClusterProfile
}

// Rule is one independent risk check. Evaluate returns false when the rule
// does not fire.
type Rule struct {
	ID       string
	Evaluate func(in Input) (model.RiskAlert, bool)
}

// Detector runs a rule set and orders the resulting alerts.
type Detector struct {
	rules []Rule
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithRules replaces the built-in rule set.
func WithRules(rules []Rule) Option {
	return func(d *Detector) {
		if len(rules) > 0 {
			d.rules = rules
		}
	}
}

// New creates a Detector with the built-in rules.
func New(opts ...Option) *Detector {
	d := &Detector{rules: DefaultRules()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect evaluates every rule and returns the alerts sorted by severity,
// then by affected-KPI count descending, then by rule ID.
func (d *Detector) Detect(in Input) []model.RiskAlert {
	alerts := make([]model.RiskAlert, 0, len(d.rules))
	for _, r := range d.rules {
		if alert, fired := r.Evaluate(in); fired {
			alert.RuleID = r.ID
			// Affected IDs are sorted so output does not depend on the
			// ordering of the input slice.
			sort.Strings(alert.AffectedKPIs)
			alerts = append(alerts, alert)
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if len(a.AffectedKPIs) != len(b.AffectedKPIs) {
			return len(a.AffectedKPIs) > len(b.AffectedKPIs)
		}
		return a.RuleID < b.RuleID
	})
	return alerts
}
