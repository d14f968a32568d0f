// Package model contains domain entities passed between engine layers.
package model

import "github.com/venturelens/pulse/internal/domain/types"

// KPIDefinition describes one diagnostic KPI. Definitions are authored once
// and validated at catalog load.
type KPIDefinition struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Axis     types.Axis       `json:"axis"`
	Tier     types.WeightTier `json:"weight_tier"`
	Kind     types.InputKind  `json:"input_kind"`
	Category string           `json:"category,omitempty"` // declared benchmark category; empty means resolve by matcher
}

// KPIResponse is one raw answer for one diagnostic snapshot.
type KPIResponse struct {
	KPIID string  `json:"kpi_id"`
	Value float64 `json:"value"`
}

// Flags recorded on a ScoredKPI when it is excluded from aggregation.
const (
	FlagScoreOutOfRange = "score_out_of_range"
	FlagUnknownKPI      = "unknown_kpi"
)

// ScoredKPI is a response joined with its definition, normalized score and
// resolved benchmark category. Never mutated after creation.
type ScoredKPI struct {
	KPIID    string           `json:"kpi_id"`
	Axis     types.Axis       `json:"axis"`
	Tier     types.WeightTier `json:"weight_tier"`
	Kind     types.InputKind  `json:"input_kind"`
	Category string           `json:"category"`
	RawValue float64          `json:"raw_value"`

	// Score is the normalized 0-100 score. Nil for metric-kind KPIs and for
	// responses excluded by validation; absence is never rendered as zero.
	Score *float64 `json:"score,omitempty"`

	// Flag names the validation problem that excluded this KPI from
	// aggregation. Empty for healthy entries.
	Flag string `json:"flag,omitempty"`
}

// Scoreable reports whether the KPI contributes to axis aggregation.
func (s ScoredKPI) Scoreable() bool {
	return s.Score != nil && s.Flag == ""
}

// Snapshot is one diagnostic submission: the responses plus the cluster the
// startup belongs to.
type Snapshot struct {
	ID        string        `json:"id"`
	Cluster   ClusterKey    `json:"cluster"`
	Responses []KPIResponse `json:"responses"`
}
