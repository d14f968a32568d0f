package correlation

import (
	"fmt"

	"github.com/venturelens/pulse/internal/domain/catalog"
	"github.com/venturelens/pulse/internal/domain/types"
)

// Formula identifiers, also the deterministic tie-break key.
const (
	FormulaARPU             = "arpu"
	FormulaBurnMultiple     = "burn_multiple"
	FormulaCACPayback       = "cac_payback_months"
	FormulaGrowthEfficiency = "growth_efficiency"
	FormulaLTVtoCAC         = "ltv_to_cac"
)

// Formula is one derived-metric computation. Inputs lists the raw KPI IDs it
// requires; Compute returns false when a divisor is zero. Priority
// thresholds belong to the formula itself, not to a generic rule.
type Formula struct {
	ID       string
	Inputs   []string
	Compute  func(v map[string]float64) (float64, bool)
	Priority func(value float64) types.Priority
	Message  func(value float64) string
}

// Formulas returns the fixed, closed formula set.
func Formulas() []Formula {
	return []Formula{
		{
			ID:     FormulaARPU,
			Inputs: []string{catalog.KPIRevenue, catalog.KPIActiveUsers},
			Compute: func(v map[string]float64) (float64, bool) {
				if v[catalog.KPIActiveUsers] == 0 {
					return 0, false
				}
				return v[catalog.KPIRevenue] / v[catalog.KPIActiveUsers], true
			},
			Priority: func(float64) types.Priority {
				// ARPU is context, not a health signal on its own.
				return types.PriorityLow
			},
			Message: func(v float64) string {
				return fmt.Sprintf("average revenue per user is %.2f", v)
			},
		},
		{
			ID:     FormulaBurnMultiple,
			Inputs: []string{catalog.KPINetBurn, catalog.KPINetNewARR},
			Compute: func(v map[string]float64) (float64, bool) {
				if v[catalog.KPINetNewARR] == 0 {
					return 0, false
				}
				return v[catalog.KPINetBurn] / v[catalog.KPINetNewARR], true
			},
			Priority: func(v float64) types.Priority {
				switch {
				case v >= 3:
					return types.PriorityCritical
				case v >= 2:
					return types.PriorityHigh
				case v >= 1.5:
					return types.PriorityMedium
				}
				return types.PriorityLow
			},
			Message: func(v float64) string {
				return fmt.Sprintf("burning %.2f for every unit of net new ARR", v)
			},
		},
		{
			ID:     FormulaCACPayback,
			Inputs: []string{catalog.KPICAC, catalog.KPIRevenue, catalog.KPIActiveUsers, catalog.KPIGrossMargin},
			Compute: func(v map[string]float64) (float64, bool) {
				if v[catalog.KPIActiveUsers] == 0 {
					return 0, false
				}
				arpu := v[catalog.KPIRevenue] / v[catalog.KPIActiveUsers]
				denom := arpu * v[catalog.KPIGrossMargin]
				if denom == 0 {
					return 0, false
				}
				return v[catalog.KPICAC] / denom, true
			},
			Priority: func(v float64) types.Priority {
				switch {
				case v > 24:
					return types.PriorityCritical
				case v > 18:
					return types.PriorityHigh
				case v > 12:
					return types.PriorityMedium
				}
				return types.PriorityLow
			},
			Message: func(v float64) string {
				return fmt.Sprintf("customer acquisition cost pays back in %.1f months", v)
			},
		},
		{
			ID:     FormulaGrowthEfficiency,
			Inputs: []string{catalog.KPINewARR, catalog.KPICAC},
			Compute: func(v map[string]float64) (float64, bool) {
				if v[catalog.KPICAC] == 0 {
					return 0, false
				}
				return v[catalog.KPINewARR] / v[catalog.KPICAC] * 100, true
			},
			Priority: func(v float64) types.Priority {
				switch {
				case v < 50:
					return types.PriorityCritical
				case v < 100:
					return types.PriorityHigh
				case v < 150:
					return types.PriorityMedium
				}
				return types.PriorityLow
			},
			Message: func(v float64) string {
				return fmt.Sprintf("%.0f%% of acquisition spend returns as new ARR", v)
			},
		},
		{
			ID:     FormulaLTVtoCAC,
			Inputs: []string{catalog.KPILTV, catalog.KPICAC},
			Compute: func(v map[string]float64) (float64, bool) {
				if v[catalog.KPICAC] == 0 {
					return 0, false
				}
				return v[catalog.KPILTV] / v[catalog.KPICAC], true
			},
			Priority: func(v float64) types.Priority {
				switch {
				case v < 1:
					return types.PriorityCritical
				case v < 3:
					return types.PriorityMedium
				}
				return types.PriorityLow
			},
			Message: func(v float64) string {
				return fmt.Sprintf("lifetime value is %.1fx acquisition cost", v)
			},
		},
	}
}
