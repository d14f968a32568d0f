// Package knowledge loads, validates and serves the cluster knowledge base:
// benchmark distributions, interpretation templates, risk thresholds and
// stage-transition conditions keyed by (segment, stage). The table is
// validated fully at load and swapped atomically; the engine never observes
// a partially-loaded knowledge base.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
)

// rawDocument mirrors the YAML schema of a knowledge-base file.
type rawDocument struct {
	Version  string       `yaml:"version"`
	Profiles []rawProfile `yaml:"profiles"`
}

type rawProfile struct {
	Segment         string                       `yaml:"segment"`
	Stage           string                       `yaml:"stage"`
	Name            string                       `yaml:"name"`
	Distributions   map[string]rawDistribution   `yaml:"distributions"`
	Interpretations map[string]map[string]string `yaml:"interpretations"`
	Thresholds      model.RiskThresholds         `yaml:"thresholds"`
	Transition      *rawTransition               `yaml:"transition"`
}

type rawDistribution struct {
	P10         float64   `yaml:"p10"`
	P25         float64   `yaml:"p25"`
	P50         float64   `yaml:"p50"`
	P75         float64   `yaml:"p75"`
	P90         float64   `yaml:"p90"`
	Source      string    `yaml:"source"`
	SampleSize  int       `yaml:"sample_size"`
	LastUpdated time.Time `yaml:"last_updated"`
}

type rawTransition struct {
	NextStage  string             `yaml:"next_stage"`
	MinOverall float64            `yaml:"min_overall"`
	MinAxes    map[string]float64 `yaml:"min_axes"`
}

// Loader parses and validates knowledge-base documents.
type Loader struct {
	categories map[string]struct{}
}

// LoaderOption applies a configuration option to the Loader.
type LoaderOption func(*Loader)

// WithKnownCategories restricts distribution categories to a known set.
// Without it any category name is accepted.
func WithKnownCategories(categories map[string]struct{}) LoaderOption {
	return func(l *Loader) {
		if len(categories) > 0 {
			l.categories = categories
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and parses a knowledge-base YAML file.
func (l *Loader) LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	return l.Parse(data)
}

// Parse validates the document fully before returning a table: every
// violation is collected and reported, and a document with any violation
// yields no table at all.
func (l *Loader) Parse(data []byte) (*Table, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	var violations []error
	profiles := make(map[string]*model.ClusterProfile, len(doc.Profiles))
	for i, rp := range doc.Profiles {
		p, errs := l.buildProfile(i, rp)
		violations = append(violations, errs...)
		if p == nil {
			continue
		}
		key := p.Key.String()
		if _, dup := profiles[key]; dup {
			violations = append(violations, fmt.Errorf("duplicate profile key %q", key))
			continue
		}
		profiles[key] = p
	}

	if _, ok := profiles[model.GeneralKey().String()]; !ok {
		violations = append(violations, ErrNoGeneralProfile)
	}
	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, errors.Join(violations...))
	}

	return &Table{
		Version:  doc.Version,
		profiles: profiles,
		loadedAt: time.Now(),
	}, nil
}

// buildProfile converts one raw profile, collecting every violation it has.
func (l *Loader) buildProfile(index int, rp rawProfile) (*model.ClusterProfile, []error) {
	var violations []error
	at := func(format string, args ...any) {
		violations = append(violations, fmt.Errorf("profile[%d] %s/%s: %s",
			index, rp.Segment, rp.Stage, fmt.Sprintf(format, args...)))
	}

	if rp.Segment == "" || rp.Stage == "" {
		at("segment and stage are required")
		return nil, violations
	}

	dists := make(map[string]model.BenchmarkDistribution, len(rp.Distributions))
	for category, rd := range rp.Distributions {
		if l.categories != nil {
			if _, known := l.categories[category]; !known {
				at("unknown category %q", category)
				continue
			}
		}
		d := model.BenchmarkDistribution{
			Category:    category,
			P10:         rd.P10,
			P25:         rd.P25,
			P50:         rd.P50,
			P75:         rd.P75,
			P90:         rd.P90,
			Source:      rd.Source,
			SampleSize:  rd.SampleSize,
			LastUpdated: rd.LastUpdated,
		}
		if err := d.Validate(); err != nil {
			at("%v", err)
			continue
		}
		dists[category] = d
	}

	interp := make(map[string]map[types.PerformanceTier]string, len(rp.Interpretations))
	for category, byTier := range rp.Interpretations {
		tiers := make(map[types.PerformanceTier]string, len(byTier))
		for tier, msg := range byTier {
			pt := types.PerformanceTier(tier)
			switch pt {
			case types.TierExcellent, types.TierGood, types.TierAverage, types.TierBelowAverage, types.TierPoor:
				tiers[pt] = msg
			default:
				at("unknown performance tier %q for category %q", tier, category)
			}
		}
		interp[category] = tiers
	}

	var transition *model.StageTransition
	if rp.Transition != nil {
		minAxes := make(map[types.Axis]float64, len(rp.Transition.MinAxes))
		for axis, min := range rp.Transition.MinAxes {
			a, err := types.ParseAxis(axis)
			if err != nil {
				at("transition: %v", err)
				continue
			}
			minAxes[a] = min
		}
		transition = &model.StageTransition{
			NextStage:  rp.Transition.NextStage,
			MinOverall: rp.Transition.MinOverall,
			MinAxes:    minAxes,
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &model.ClusterProfile{
		Key:             model.ClusterKey{Segment: rp.Segment, Stage: rp.Stage},
		Name:            rp.Name,
		Distributions:   dists,
		Interpretations: interp,
		Thresholds:      rp.Thresholds,
		Transition:      transition,
	}, nil
}

// Table is one immutable generation of the knowledge base.
type Table struct {
	Version  string
	profiles map[string]*model.ClusterProfile
	loadedAt time.Time
}

// LoadedAt reports when this generation was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of profiles.
func (t *Table) Len() int { return len(t.profiles) }

// Keys returns the loaded cluster keys, sorted.
func (t *Table) Keys() []model.ClusterKey {
	keys := make([]model.ClusterKey, 0, len(t.profiles))
	for _, p := range t.profiles {
		keys = append(keys, p.Key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Lookup resolves a cluster key to its profile, falling back to the general
// profile when no exact match exists. The second return reports whether the
// fallback was used. Lookup never fails: the general profile is mandatory.
func (t *Table) Lookup(key model.ClusterKey) (*model.ClusterProfile, bool) {
	if p, ok := t.profiles[key.String()]; ok {
		return p, false
	}
	return t.profiles[model.GeneralKey().String()], true
}
