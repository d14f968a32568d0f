// Package matcher maps free-text KPI identifiers to canonical benchmark
// categories. Matching is deliberately simple and approximate: an ordered
// rule table evaluated top-to-bottom, case-insensitive substring match,
// first match wins. Rule order is part of the observable contract.
package matcher

import "strings"

// FallbackCategory is returned when no rule matches.
const FallbackCategory = "general"

// Rule maps one lowercase pattern to a category.
type Rule struct {
	Pattern  string
	Category string
}

// Matcher evaluates an ordered rule table.
type Matcher struct {
	version string
	rules   []Rule
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithRules replaces the default rule table. Order is preserved.
func WithRules(version string, rules []Rule) Option {
	return func(m *Matcher) {
		if version != "" && len(rules) > 0 {
			m.version = version
			m.rules = rules
		}
	}
}

// New creates a Matcher with the built-in rule table unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		version: defaultRuleVersion,
		rules:   defaultRules(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Version identifies the active rule table.
func (m *Matcher) Version() string { return m.version }

// Match resolves an identifier to its category. Never fails; unmatched
// identifiers resolve to FallbackCategory.
func (m *Matcher) Match(kpiID string) string {
	id := strings.ToLower(kpiID)
	for _, r := range m.rules {
		if strings.Contains(id, r.Pattern) {
			return r.Category
		}
	}
	return FallbackCategory
}

// Categories returns the set of categories the active table can produce,
// fallback included. Used by knowledge-base validation.
func (m *Matcher) Categories() map[string]struct{} {
	out := make(map[string]struct{}, len(m.rules)+1)
	for _, r := range m.rules {
		out[r.Category] = struct{}{}
	}
	out[FallbackCategory] = struct{}{}
	return out
}
