// Package filter defines the static table of search filters and validates user selections against it.
package filter

import (
	"fmt"

	"github.com/kailas-cloud/coursedex/internal/domain/search/query"
)

// Filter names accepted in a selection.
const (
	NUPath            = "nupath"
	Subject           = "subject"
	Online            = "online"
	ClassType         = "classType"
	SectionsAvailable = "sectionsAvailable"
)

// Definition is one filter: how to validate a value, how to turn it into a clause,
// and whether per-value counts are reported for it.
type Definition struct {
	Name     string
	Validate func(v any) bool
	Build    func(v any) query.Clause
	IsFacet  bool
	AggField string
}

// Selection is the raw filter object sent by a client.
type Selection map[string]any

// Reason explains why a selection entry was dropped.
type Reason string

const (
	// ReasonUnknown marks a key that is not a registered filter.
	ReasonUnknown Reason = "unknown_filter"
	// ReasonInvalid marks a value rejected by the filter's validator.
	ReasonInvalid Reason = "invalid_value"
)

// Rejection is a non-fatal diagnostic for a dropped selection entry.
type Rejection struct {
	Key    string
	Reason Reason
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Key)
}

// Validated holds selection entries that passed validation. String arrays are normalized to []string.
type Validated struct {
	values map[string]any
}

// Get returns the validated value for name.
func (v Validated) Get(name string) (any, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Len returns the number of active filters.
func (v Validated) Len() int { return len(v.values) }

// Names returns active filter names in no particular order.
func (v Validated) Names() []string {
	names := make([]string, 0, len(v.values))
	for k := range v.values {
		names = append(names, k)
	}
	return names
}

// Registry is an ordered, immutable set of filter definitions.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// NewRegistry builds a registry. Names must be unique.
func NewRegistry(defs ...Definition) (*Registry, error) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("filter %d has empty name", i)
		}
		if _, dup := index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate filter %q", d.Name)
		}
		if d.Validate == nil || d.Build == nil {
			return nil, fmt.Errorf("filter %q needs both validate and build", d.Name)
		}
		if d.IsFacet && d.AggField == "" {
			return nil, fmt.Errorf("facet filter %q needs an aggregation field", d.Name)
		}
		index[d.Name] = i
	}
	return &Registry{defs: defs, index: index}, nil
}

// Definitions returns all filters in registry order.
func (r *Registry) Definitions() []Definition { return r.defs }

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Facets returns facet-eligible filters in registry order.
func (r *Registry) Facets() []Definition {
	var out []Definition
	for _, d := range r.defs {
		if d.IsFacet {
			out = append(out, d)
		}
	}
	return out
}

// Validate keeps registered keys whose values pass their validator and reports the rest.
func (r *Registry) Validate(sel Selection) (Validated, []Rejection) {
	values := make(map[string]any, len(sel))
	var rejected []Rejection
	for key, val := range sel {
		def, ok := r.Lookup(key)
		switch {
		case !ok:
			rejected = append(rejected, Rejection{Key: key, Reason: ReasonUnknown})
		case !def.Validate(val):
			rejected = append(rejected, Rejection{Key: key, Reason: ReasonInvalid})
		default:
			values[key] = normalize(val)
		}
	}
	return Validated{values: values}, rejected
}

func normalize(v any) any {
	if arr, ok := v.([]any); ok {
		out := make([]string, len(arr))
		for i, e := range arr {
			out[i], _ = e.(string)
		}
		return out
	}
	return v
}
