package risk

import (
	"fmt"

	"github.com/venturelens/pulse/internal/domain/correlation"
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
)

// Built-in rule identifiers.
const (
	RuleLowScore       = "low_score"
	RuleCriticalKPILow = "critical_kpi_low"
	RuleTeamHealth     = "team_health"
	RuleUnitEconomics  = "unit_economics"
)

// Default thresholds, overridable per cluster profile.
const (
	defaultLowScore      = 40.0
	defaultCriticalKPI   = 50.0
	defaultTeamHealth    = 50.0
	defaultUnitEconomics = 60.0

	teamHealthCriticalBelow = 35.0
	unitEconCriticalBelow   = 40.0
)

// threshold picks the profile override when set, else the rule default.
func threshold(override, fallback float64) float64 {
	if override > 0 {
		return override
	}
	return fallback
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleLowScore, Evaluate: evaluateLowScore},
		{ID: RuleCriticalKPILow, Evaluate: evaluateCriticalKPILow},
		{ID: RuleTeamHealth, Evaluate: evaluateTeamHealth},
		{ID: RuleUnitEconomics, Evaluate: evaluateUnitEconomics},
	}
}

// evaluateLowScore fires when any KPI scores below the absolute low-score
// threshold. Severity escalates to critical when a score falls below half
// the threshold.
func evaluateLowScore(in Input) (model.RiskAlert, bool) {
	limit := threshold(profileThresholds(in).LowScore, defaultLowScore)

	var affected []string
	severity := types.SeverityWarning
	for _, s := range in.Scored {
		if !s.Scoreable() || *s.Score >= limit {
			continue
		}
		affected = append(affected, s.KPIID)
		if *s.Score < limit/2 {
			severity = types.SeverityCritical
		}
	}
	if len(affected) == 0 {
		return model.RiskAlert{}, false
	}
	return model.RiskAlert{
		Severity:     severity,
		Message:      fmt.Sprintf("%d KPI(s) scored below %.0f", len(affected), limit),
		AffectedKPIs: affected,
		Actions: []string{
			"review the weakest areas with the founding team",
			"prioritize one corrective initiative per affected KPI",
		},
	}, true
}

// evaluateCriticalKPILow applies a stricter threshold to weight-3 KPIs.
func evaluateCriticalKPILow(in Input) (model.RiskAlert, bool) {
	limit := threshold(profileThresholds(in).CriticalKPI, defaultCriticalKPI)

	var affected []string
	for _, s := range in.Scored {
		if !s.Scoreable() || s.Tier != types.TierCritical || *s.Score >= limit {
			continue
		}
		affected = append(affected, s.KPIID)
	}
	if len(affected) == 0 {
		return model.RiskAlert{}, false
	}
	return model.RiskAlert{
		Severity:     types.SeverityCritical,
		Message:      fmt.Sprintf("%d critical-weight KPI(s) below %.0f", len(affected), limit),
		AffectedKPIs: affected,
		Actions: []string{
			"treat these KPIs as the top diagnostic finding",
			"re-assess within one quarter after corrective action",
		},
	}, true
}

// evaluateTeamHealth watches the team axis composite.
func evaluateTeamHealth(in Input) (model.RiskAlert, bool) {
	limit := threshold(profileThresholds(in).TeamHealth, defaultTeamHealth)

	for _, a := range in.Axes {
		if a.Axis != types.AxisTeam || !a.Complete || a.Score == nil {
			continue
		}
		if *a.Score >= limit {
			return model.RiskAlert{}, false
		}
		severity := types.SeverityWarning
		if *a.Score < teamHealthCriticalBelow {
			severity = types.SeverityCritical
		}
		return model.RiskAlert{
			Severity:     severity,
			Message:      fmt.Sprintf("team axis composite %.1f below %.0f", *a.Score, limit),
			AffectedKPIs: kpisOnAxis(in.Scored, types.AxisTeam),
			Actions: []string{
				"schedule a founder alignment session",
				"close key-role gaps before the next funding conversation",
			},
		}, true
	}
	return model.RiskAlert{}, false
}

// unitEconFormulas are the correlation outputs the composite reads; ARPU is
// context and excluded.
var unitEconFormulas = map[string]struct{}{
	correlation.FormulaBurnMultiple:     {},
	correlation.FormulaCACPayback:       {},
	correlation.FormulaGrowthEfficiency: {},
	correlation.FormulaLTVtoCAC:         {},
}

// priorityScore turns an insight priority into a 0-100 health contribution.
func priorityScore(p types.Priority) float64 {
	switch p {
	case types.PriorityCritical:
		return 10
	case types.PriorityHigh:
		return 40
	case types.PriorityMedium:
		return 70
	default:
		return 95
	}
}

// evaluateUnitEconomics composites the unit-economics insights. With no
// such insights available the rule stays silent: it never fabricates a
// composite from missing data.
func evaluateUnitEconomics(in Input) (model.RiskAlert, bool) {
	limit := threshold(profileThresholds(in).UnitEconomics, defaultUnitEconomics)

	var (
		sum      float64
		count    int
		affected []string
	)
	for _, ins := range in.Insights {
		if _, ok := unitEconFormulas[ins.Formula]; !ok {
			continue
		}
		sum += priorityScore(ins.Priority)
		count++
		if ins.Priority == types.PriorityCritical || ins.Priority == types.PriorityHigh {
			affected = append(affected, formulaInputs(ins.Formula)...)
		}
	}
	affected = dedupe(affected)
	if count == 0 {
		return model.RiskAlert{}, false
	}

	composite := sum / float64(count)
	if composite >= limit {
		return model.RiskAlert{}, false
	}
	severity := types.SeverityWarning
	if composite < unitEconCriticalBelow {
		severity = types.SeverityCritical
	}
	return model.RiskAlert{
		Severity:     severity,
		Message:      fmt.Sprintf("unit-economics composite %.1f below %.0f", composite, limit),
		AffectedKPIs: affected,
		Actions: []string{
			"model payback and burn scenarios for the next two quarters",
			"revisit pricing and acquisition spend allocation",
		},
	}, true
}

// formulaInputs resolves a formula ID to the raw KPI IDs it consumes, so
// alerts reference KPIs rather than formula names.
func formulaInputs(formulaID string) []string {
	for _, f := range correlation.Formulas() {
		if f.ID == formulaID {
			return f.Inputs
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func profileThresholds(in Input) model.RiskThresholds {
	if in.Profile == nil {
		return model.RiskThresholds{}
	}
	return in.Profile.Thresholds
}

func kpisOnAxis(scored []model.ScoredKPI, axis types.Axis) []string {
	var ids []string
	for _, s := range scored {
		if s.Axis == axis && s.Scoreable() {
			ids = append(ids, s.KPIID)
		}
	}
	return ids
}
