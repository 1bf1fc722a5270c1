// Package fields resolves template field values by walking prioritized chains
// of candidate data sources.
package fields

import (
	"slices"
	"strings"
)

// Accessor computes a candidate value directly from the sources.
type Accessor func(Sources) string

// Candidate is one (source, path) step of a chain. When Accessor is set it is
// used instead of Path.
type Candidate struct {
	Source   string   `yaml:"source" json:"source"`
	Path     string   `yaml:"path" json:"path"`
	Accessor Accessor `yaml:"-" json:"-"`
}

// Chain is an ordered list of candidates for one field.
type Chain []Candidate

// Chains maps field names to their chains.
type Chains map[string]Chain

// Condition tests one source value. With Equals empty any non-empty value
// holds; otherwise the value must equal one of the comma-separated options,
// ignoring case.
type Condition struct {
	Source string `yaml:"source" json:"source"`
	Path   string `yaml:"path" json:"path"`
	Equals string `yaml:"equals,omitempty" json:"equals,omitempty"`
}

// Override replaces the chains of some fields when its condition holds and at
// least one of its own chains yields data.
type Override struct {
	Name   string      `yaml:"name" json:"name"`
	When   []Condition `yaml:"when" json:"when"`
	Chains Chains      `yaml:"chains" json:"chains"`
}

// ChainSet is the complete resolution configuration of a document type.
type ChainSet struct {
	Chains    Chains     `yaml:"chains" json:"chains"`
	Overrides []Override `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// DefaultPlaceholders are values the forms use as prompts; they count as empty.
var DefaultPlaceholders = []string{"handledare", "namn", "specialitet", "tjänsteställe", "-"}

// Resolver resolves chains, treating placeholder values as empty.
type Resolver struct {
	placeholders map[string]struct{}
}

// NewResolver creates a resolver that ignores the given placeholder values.
func NewResolver(placeholders ...string) *Resolver {
	r := &Resolver{placeholders: make(map[string]struct{}, len(placeholders))}
	for _, p := range placeholders {
		r.placeholders[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return r
}

var defaultResolver = NewResolver(DefaultPlaceholders...)

// Resolve resolves field against chains with the default placeholders.
func Resolve(field string, chains Chains, sources Sources) string {
	return defaultResolver.Resolve(field, chains, sources)
}

// Resolve walks chains[field] and returns the first candidate value that is
// non-empty after trimming and is not a placeholder. It returns "" when no
// candidate yields a value.
func (r *Resolver) Resolve(field string, chains Chains, sources Sources) string {
	return r.walk(chains[field], sources)
}

func (r *Resolver) walk(chain Chain, sources Sources) string {
	for _, c := range chain {
		if v := r.clean(r.candidate(c, sources)); v != "" {
			return v
		}
	}
	return ""
}

func (r *Resolver) candidate(c Candidate, sources Sources) string {
	if c.Accessor != nil {
		return c.Accessor(sources)
	}
	src, ok := sources[c.Source]
	if !ok || src == nil {
		return ""
	}
	return src.Lookup(c.Path)
}

func (r *Resolver) clean(v string) string {
	v = strings.TrimSpace(v)
	if _, placeholder := r.placeholders[strings.ToLower(v)]; placeholder {
		return ""
	}
	return v
}

// Active returns the chains in effect for set: the default chains with the
// first active override's chains replacing theirs field by field.
func (r *Resolver) Active(set ChainSet, sources Sources) Chains {
	active := make(Chains, len(set.Chains))
	for field, chain := range set.Chains {
		active[field] = chain
	}
	for _, o := range set.Overrides {
		if !r.holds(o, sources) {
			continue
		}
		for field, chain := range o.Chains {
			active[field] = chain
		}
		break
	}
	return active
}

func (r *Resolver) holds(o Override, sources Sources) bool {
	for _, cond := range o.When {
		v := r.clean(r.candidate(Candidate{Source: cond.Source, Path: cond.Path}, sources))
		if v == "" {
			return false
		}
		if cond.Equals != "" && !slices.ContainsFunc(strings.Split(cond.Equals, ","), func(opt string) bool {
			return strings.EqualFold(strings.TrimSpace(opt), v)
		}) {
			return false
		}
	}
	for _, chain := range o.Chains {
		if r.walk(chain, sources) != "" {
			return true
		}
	}
	return false
}

// ResolveSet resolves field against the chains active for set.
func (r *Resolver) ResolveSet(field string, set ChainSet, sources Sources) string {
	return r.Resolve(field, r.Active(set, sources), sources)
}

// ResolveAll resolves every field named by set.
func (r *Resolver) ResolveAll(set ChainSet, sources Sources) map[string]string {
	active := r.Active(set, sources)
	values := make(map[string]string, len(active))
	for field := range active {
		values[field] = r.Resolve(field, active, sources)
	}
	return values
}
