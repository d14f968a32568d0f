package catalog

import (
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
)

// Canonical IDs of the raw metric KPIs the correlation formulas consume.
const (
	KPIRevenue     = "revenue"
	KPIActiveUsers = "active_users"
	KPICAC         = "cac"
	KPILTV         = "ltv"
	KPINetBurn     = "net_burn"
	KPINetNewARR   = "net_new_arr"
	KPINewARR      = "new_arr"
	KPIGrossMargin = "gross_margin"
)

// defaultDefinitions is the built-in diagnostic question set: scored KPIs on
// each business axis plus the raw unit-economics metrics.
func defaultDefinitions() []model.KPIDefinition {
	return []model.KPIDefinition{
		// Growth.
		{ID: "growth_rate_score", Name: "Revenue growth rate", Axis: types.AxisGrowth, Tier: types.TierCritical, Kind: types.KindScale, Category: "growth_rate"},
		{ID: "pipeline_coverage", Name: "Sales pipeline coverage", Axis: types.AxisGrowth, Tier: types.TierImportant, Kind: types.KindRubric},
		{ID: "channel_diversification", Name: "Acquisition channel diversification", Axis: types.AxisGrowth, Tier: types.TierSupplementary, Kind: types.KindFraction},

		// Finance.
		{ID: "runway_score", Name: "Cash runway", Axis: types.AxisFinance, Tier: types.TierCritical, Kind: types.KindScale, Category: "runway"},
		{ID: "margin_quality", Name: "Gross margin quality", Axis: types.AxisFinance, Tier: types.TierImportant, Kind: types.KindRubric},
		{ID: "financial_reporting", Name: "Financial reporting discipline", Axis: types.AxisFinance, Tier: types.TierSupplementary, Kind: types.KindRubric},

		// Product.
		{ID: "retention_score", Name: "User retention", Axis: types.AxisProduct, Tier: types.TierCritical, Kind: types.KindScale, Category: "retention"},
		{ID: "engagement_score", Name: "Product engagement", Axis: types.AxisProduct, Tier: types.TierImportant, Kind: types.KindScale, Category: "engagement"},
		{ID: "roadmap_validation", Name: "Roadmap validated with customers", Axis: types.AxisProduct, Tier: types.TierSupplementary, Kind: types.KindFraction},

		// Operations.
		{ID: "process_maturity", Name: "Operational process maturity", Axis: types.AxisOperations, Tier: types.TierImportant, Kind: types.KindRubric},
		{ID: "tooling_coverage", Name: "Tooling and automation coverage", Axis: types.AxisOperations, Tier: types.TierSupplementary, Kind: types.KindFraction},
		{ID: "compliance_readiness", Name: "Compliance readiness", Axis: types.AxisOperations, Tier: types.TierImportant, Kind: types.KindRubric},

		// Team.
		{ID: "founder_alignment", Name: "Founder alignment", Axis: types.AxisTeam, Tier: types.TierCritical, Kind: types.KindRubric},
		{ID: "key_roles_filled", Name: "Key roles filled", Axis: types.AxisTeam, Tier: types.TierImportant, Kind: types.KindFraction},
		{ID: "team_health_score", Name: "Team health", Axis: types.AxisTeam, Tier: types.TierImportant, Kind: types.KindScale},

		// Raw unit-economics metrics. Not scored; consumed by benchmarking
		// and the correlation formulas.
		{ID: KPIRevenue, Name: "Monthly recurring revenue", Axis: types.AxisFinance, Tier: types.TierImportant, Kind: types.KindMetric, Category: "revenue"},
		{ID: KPIActiveUsers, Name: "Monthly active users", Axis: types.AxisProduct, Tier: types.TierImportant, Kind: types.KindMetric, Category: "active_users"},
		{ID: KPICAC, Name: "Customer acquisition cost", Axis: types.AxisGrowth, Tier: types.TierImportant, Kind: types.KindMetric, Category: "cac"},
		{ID: KPILTV, Name: "Customer lifetime value", Axis: types.AxisGrowth, Tier: types.TierImportant, Kind: types.KindMetric, Category: "ltv"},
		{ID: KPINetBurn, Name: "Monthly net burn", Axis: types.AxisFinance, Tier: types.TierImportant, Kind: types.KindMetric, Category: "burn"},
		{ID: KPINetNewARR, Name: "Net new ARR", Axis: types.AxisFinance, Tier: types.TierImportant, Kind: types.KindMetric, Category: "revenue"},
		{ID: KPINewARR, Name: "New ARR", Axis: types.AxisFinance, Tier: types.TierSupplementary, Kind: types.KindMetric, Category: "revenue"},
		{ID: KPIGrossMargin, Name: "Gross margin fraction", Axis: types.AxisFinance, Tier: types.TierImportant, Kind: types.KindMetric, Category: "margin"},
	}
}
