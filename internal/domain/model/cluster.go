package model

import (
	"fmt"
	"time"

	"github.com/venturelens/pulse/internal/domain/types"
)

// GeneralSegment and GeneralStage identify the designated fallback profile.
// Lookup never fails: unknown clusters resolve to general/any.
const (
	GeneralSegment = "general"
	GeneralStage   = "any"
)

// ClusterKey selects the benchmark and interpretation context for a startup.
type ClusterKey struct {
	Segment string `json:"segment"`
	Stage   string `json:"stage"`
}

// String renders the composite key, e.g. "saas/seed".
func (k ClusterKey) String() string {
	return k.Segment + "/" + k.Stage
}

// GeneralKey returns the key of the fallback profile.
func GeneralKey() ClusterKey {
	return ClusterKey{Segment: GeneralSegment, Stage: GeneralStage}
}

// BenchmarkDistribution summarizes a reference population for one category
// with five percentile anchors.
type BenchmarkDistribution struct {
	Category    string    `json:"category"`
	P10         float64   `json:"p10"`
	P25         float64   `json:"p25"`
	P50         float64   `json:"p50"`
	P75         float64   `json:"p75"`
	P90         float64   `json:"p90"`
	Source      string    `json:"source"`
	SampleSize  int       `json:"sample_size"`
	LastUpdated time.Time `json:"last_updated"`
}

// Anchors returns the five anchor values in percentile order.
func (d BenchmarkDistribution) Anchors() [5]float64 {
	return [5]float64{d.P10, d.P25, d.P50, d.P75, d.P90}
}

// AnchorPercentiles are the percentiles the five anchors stand for.
var AnchorPercentiles = [5]float64{10, 25, 50, 75, 90}

// Validate checks the monotonicity invariant p10<=p25<=p50<=p75<=p90.
func (d BenchmarkDistribution) Validate() error {
	a := d.Anchors()
	for i := 1; i < len(a); i++ {
		if a[i] < a[i-1] {
			return fmt.Errorf("category %q: anchors not monotonic (p%.0f=%v > p%.0f=%v)",
				d.Category, AnchorPercentiles[i-1], a[i-1], AnchorPercentiles[i], a[i])
		}
	}
	if d.SampleSize < 0 {
		return fmt.Errorf("category %q: negative sample size %d", d.Category, d.SampleSize)
	}
	return nil
}

// RiskThresholds are per-profile overrides for the built-in risk rules.
// Zero values mean "use the rule's default".
type RiskThresholds struct {
	LowScore      float64 `json:"low_score" yaml:"low_score"`
	CriticalKPI   float64 `json:"critical_kpi" yaml:"critical_kpi"`
	TeamHealth    float64 `json:"team_health" yaml:"team_health"`
	UnitEconomics float64 `json:"unit_economics" yaml:"unit_economics"`
}

// StageTransition states what a startup in this cluster must reach before it
// is considered ready for the next growth stage.
type StageTransition struct {
	NextStage  string                 `json:"next_stage" yaml:"next_stage"`
	MinOverall float64                `json:"min_overall" yaml:"min_overall"`
	MinAxes    map[types.Axis]float64 `json:"min_axes,omitempty" yaml:"min_axes"`
}

// ClusterProfile bundles everything the engine knows about one cluster.
// Profiles are immutable after load; reload swaps the whole table.
type ClusterProfile struct {
	Key           ClusterKey                       `json:"key"`
	Name          string                           `json:"name"`
	Distributions map[string]BenchmarkDistribution `json:"distributions"`

	// Interpretations maps category -> tier -> authored message template.
	Interpretations map[string]map[types.PerformanceTier]string `json:"interpretations,omitempty"`

	Thresholds RiskThresholds   `json:"thresholds"`
	Transition *StageTransition `json:"transition,omitempty"`
}

// Distribution returns the profile's distribution for a category.
func (p *ClusterProfile) Distribution(category string) (BenchmarkDistribution, bool) {
	d, ok := p.Distributions[category]
	return d, ok
}

// Interpretation returns the authored message for (category, tier), if any.
func (p *ClusterProfile) Interpretation(category string, tier types.PerformanceTier) (string, bool) {
	byTier, ok := p.Interpretations[category]
	if !ok {
		return "", false
	}
	msg, ok := byTier[tier]
	return msg, ok
}
