// Package benchmark places KPI values inside sparse reference distributions:
// piecewise-linear percentile interpolation over five anchors, qualitative
// performance tiers, and an advisory confidence grade for the reference data.
package benchmark

import (
	"fmt"
	"math"
	"time"

	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
)

// Tier boundaries, inclusive on the lower bound.
const (
	tierExcellentMin    = 90
	tierGoodMin         = 75
	tierAverageMin      = 40
	tierBelowAverageMin = 25
)

// Default confidence parameters.
const (
	defaultSampleSaturation = 200
	defaultRecencyHalfLife  = 365 * 24 * time.Hour
	defaultSourceTrust      = 0.7
	maxConfidence           = 100
)

// ConfidenceWeights blends the three confidence sub-scores. They should sum
// to 1; Compare normalizes just in case.
type ConfidenceWeights struct {
	SampleSize  float64
	Recency     float64
	SourceTrust float64
}

// Comparator computes benchmark comparisons. Percentile and tier are pure
// functions of (value, distribution); confidence also reads the comparator's
// trust configuration and clock.
type Comparator struct {
	sampleSaturation float64
	recencyHalfLife  time.Duration
	sourceTrust      map[string]float64
	defaultTrust     float64
	weights          ConfidenceWeights
	now              func() time.Time
}

// Option applies a configuration option to the Comparator.
type Option func(*Comparator)

// WithSampleSaturation sets the sample size above which the sample sub-score
// saturates at 100.
func WithSampleSaturation(n float64) Option {
	return func(c *Comparator) {
		if n > 0 {
			c.sampleSaturation = n
		}
	}
}

// WithRecencyHalfLife sets the age at which the recency sub-score halves.
func WithRecencyHalfLife(d time.Duration) Option {
	return func(c *Comparator) {
		if d > 0 {
			c.recencyHalfLife = d
		}
	}
}

// WithSourceTrust sets per-source trust weights in [0,1] plus the default
// for unlisted sources.
func WithSourceTrust(trust map[string]float64, fallback float64) Option {
	return func(c *Comparator) {
		c.sourceTrust = make(map[string]float64, len(trust))
		for source, w := range trust {
			if w >= 0 && w <= 1 {
				c.sourceTrust[source] = w
			}
		}
		if fallback >= 0 && fallback <= 1 {
			c.defaultTrust = fallback
		}
	}
}

// WithClock overrides the time source used for recency decay.
func WithClock(now func() time.Time) Option {
	return func(c *Comparator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Comparator with default confidence parameters.
func New(opts ...Option) *Comparator {
	c := &Comparator{
		sampleSaturation: defaultSampleSaturation,
		recencyHalfLife:  defaultRecencyHalfLife,
		sourceTrust:      map[string]float64{},
		defaultTrust:     defaultSourceTrust,
		weights:          ConfidenceWeights{SampleSize: 0.4, Recency: 0.3, SourceTrust: 0.3},
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare places value inside the distribution and attaches the profile's
// interpretation message for the resulting tier.
func (c *Comparator) Compare(kpiID string, value float64, dist model.BenchmarkDistribution, profile *model.ClusterProfile) model.BenchmarkComparison {
	pct := Percentile(value, dist)
	tier := TierFor(pct)
	return model.BenchmarkComparison{
		KPIID:      kpiID,
		Category:   dist.Category,
		Value:      value,
		Percentile: pct,
		Tier:       tier,
		Message:    message(dist.Category, tier, profile),
		Confidence: c.Confidence(dist),
	}
}

// Percentile estimates the rank of value within the reference population by
// piecewise-linear interpolation between the five anchors. Values outside
// [p10,p90] are extrapolated linearly from the nearest two anchors and then
// clamped to [0,100]; clamping rather than erroring keeps the comparator
// total over all inputs. A value sitting exactly on an anchor returns that
// anchor's percentile, so percentile(p50) == 50 holds exactly.
func Percentile(value float64, dist model.BenchmarkDistribution) float64 {
	anchors := dist.Anchors()
	pcts := model.AnchorPercentiles

	// Exact anchor hits first; on flat segments the lowest matching anchor
	// wins, keeping the function well defined.
	for i, a := range anchors {
		if value == a {
			return pcts[i]
		}
	}

	switch {
	case value < anchors[0]:
		return clamp(extrapolate(value, anchors[0], pcts[0], anchors[1], pcts[1]), 0, maxConfidence)
	case value > anchors[len(anchors)-1]:
		n := len(anchors)
		return clamp(extrapolate(value, anchors[n-2], pcts[n-2], anchors[n-1], pcts[n-1]), 0, maxConfidence)
	}

	for i := 0; i < len(anchors)-1; i++ {
		lo, hi := anchors[i], anchors[i+1]
		if value <= lo || value > hi {
			continue
		}
		if hi == lo {
			return pcts[i]
		}
		return pcts[i] + (value-lo)/(hi-lo)*(pcts[i+1]-pcts[i])
	}
	// Unreachable for monotonic anchors; keep the function total anyway.
	return pcts[0]
}

// extrapolate continues the line through (x1,y1),(x2,y2) at x. A degenerate
// flat pair pins the result to the nearer anchor percentile.
func extrapolate(x, x1, y1, x2, y2 float64) float64 {
	if x2 == x1 {
		if x < x1 {
			return y1
		}
		return y2
	}
	return y1 + (x-x1)/(x2-x1)*(y2-y1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// TierFor maps a percentile to its performance tier. Boundaries are
// inclusive on the lower bound of each tier.
func TierFor(percentile float64) types.PerformanceTier {
	switch {
	case percentile >= tierExcellentMin:
		return types.TierExcellent
	case percentile >= tierGoodMin:
		return types.TierGood
	case percentile >= tierAverageMin:
		return types.TierAverage
	case percentile >= tierBelowAverageMin:
		return types.TierBelowAverage
	}
	return types.TierPoor
}

// Confidence grades the reference data: sample size saturating above the
// configured threshold, recency decaying with a half-life, and a per-source
// trust weight. Clamped to [0,100]. Advisory only.
func (c *Comparator) Confidence(dist model.BenchmarkDistribution) float64 {
	sample := clamp(float64(dist.SampleSize)/c.sampleSaturation, 0, 1) * maxConfidence

	recency := float64(maxConfidence)
	if !dist.LastUpdated.IsZero() {
		age := c.now().Sub(dist.LastUpdated)
		if age > 0 {
			halfLives := float64(age) / float64(c.recencyHalfLife)
			recency = math.Pow(0.5, halfLives) * maxConfidence
		}
	}

	trust := c.defaultTrust
	if w, ok := c.sourceTrust[dist.Source]; ok {
		trust = w
	}

	w := c.weights
	total := w.SampleSize + w.Recency + w.SourceTrust
	if total <= 0 {
		return 0
	}
	blended := (sample*w.SampleSize + recency*w.Recency + trust*maxConfidence*w.SourceTrust) / total
	return clamp(blended, 0, maxConfidence)
}

// message selects the profile's authored interpretation for (category, tier)
// and falls back to a built-in template. Selection is deterministic.
func message(category string, tier types.PerformanceTier, profile *model.ClusterProfile) string {
	if profile != nil {
		if msg, ok := profile.Interpretation(category, tier); ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is %s relative to comparable startups", category, describeTier(tier))
}

func describeTier(tier types.PerformanceTier) string {
	switch tier {
	case types.TierExcellent:
		return "in the top decile"
	case types.TierGood:
		return "above average"
	case types.TierAverage:
		return "around the median"
	case types.TierBelowAverage:
		return "below average"
	default:
		return "in the bottom quartile"
	}
}
