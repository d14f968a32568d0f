package matcher

// defaultRuleVersion identifies the built-in table. Bump when reordering or
// editing rules: order changes observable results.
const defaultRuleVersion = "v1"

// defaultRules is the built-in ordered table. Financial patterns sit above
// the broader ones they would otherwise lose to: "revenue_growth_rate"
// resolves to revenue, not growth_rate, because the revenue rules are
// evaluated first.
func defaultRules() []Rule {
	return []Rule{
		{Pattern: "margin", Category: "margin"},
		{Pattern: "arr", Category: "revenue"},
		{Pattern: "mrr", Category: "revenue"},
		{Pattern: "revenue", Category: "revenue"},
		{Pattern: "burn", Category: "burn"},
		{Pattern: "runway", Category: "runway"},
		{Pattern: "cash", Category: "runway"},
		{Pattern: "cac", Category: "cac"},
		{Pattern: "acquisition", Category: "cac"},
		{Pattern: "ltv", Category: "ltv"},
		{Pattern: "lifetime", Category: "ltv"},
		{Pattern: "churn", Category: "churn"},
		{Pattern: "retention", Category: "retention"},
		{Pattern: "active_users", Category: "active_users"},
		{Pattern: "mau", Category: "active_users"},
		{Pattern: "dau", Category: "active_users"},
		{Pattern: "engagement", Category: "engagement"},
		{Pattern: "growth", Category: "growth_rate"},
		{Pattern: "pipeline", Category: "growth_rate"},
		{Pattern: "team", Category: "team"},
		{Pattern: "founder", Category: "team"},
		{Pattern: "hiring", Category: "team"},
		{Pattern: "roles", Category: "team"},
	}
}
