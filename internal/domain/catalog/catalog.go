// Package catalog holds the registry of KPI definitions and validates them
// at load time. Definitions are authored once; the registry is read-only
// after construction.
package catalog

import (
	"fmt"
	"sort"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Catalog is an immutable set of KPI definitions keyed by ID.
type Catalog struct {
	defs map[string]model.KPIDefinition
}

// New builds a Catalog, rejecting duplicate IDs, unknown axes, weight tiers
// outside {1,2,3} and unknown input kinds. Validation happens here, not at
// query time.
func New(defs []model.KPIDefinition) (*Catalog, error) {
	byID := make(map[string]model.KPIDefinition, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: empty kpi id", ErrInvalidDefinition)
		}
		if _, dup := byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate kpi id %q", ErrInvalidDefinition, d.ID)
		}
		if !d.Axis.Valid() {
			return nil, fmt.Errorf("%w: kpi %q: unknown axis %q", ErrInvalidDefinition, d.ID, d.Axis)
		}
		if !d.Tier.Valid() {
			return nil, fmt.Errorf("%w: kpi %q: weight tier %d outside {1,2,3}", ErrInvalidDefinition, d.ID, d.Tier)
		}
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("%w: kpi %q: unknown input kind %q", ErrInvalidDefinition, d.ID, d.Kind)
		}
		byID[d.ID] = d
	}
	return &Catalog{defs: byID}, nil
}

// Default returns the catalog of built-in definitions.
func Default() *Catalog {
	c, err := New(defaultDefinitions())
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return c
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (model.KPIDefinition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// All returns every definition sorted by ID.
func (c *Catalog) All() []model.KPIDefinition {
	out := make([]model.KPIDefinition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
