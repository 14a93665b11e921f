package query

import (
	"fmt"
	"strconv"
)

// Index field names shared by the compiler and the registry.
const (
	FieldTermID       = "class.termId"
	FieldClassIDSort  = "class.classId.keyword"
	FieldDocumentType = "type"
	TypeEmployee      = "employee"
)

// FieldBoost is a searched field with its relevance multiplier. Boost 1 is rendered bare.
type FieldBoost struct {
	Field string
	Boost int
}

// String renders the field in index syntax, e.g. "class.subject^4".
func (f FieldBoost) String() string {
	if f.Boost <= 1 {
		return f.Field
	}
	return f.Field + "^" + strconv.Itoa(f.Boost)
}

// Page is a half-open result window [Min, Max).
type Page struct {
	Min int
	Max int
}

// NewPage validates the window against maxSize.
func NewPage(minIdx, maxIdx, maxSize int) (Page, error) {
	if minIdx < 0 {
		return Page{}, fmt.Errorf("minIndex must be >= 0, got %d", minIdx)
	}
	if maxIdx <= minIdx {
		return Page{}, fmt.Errorf("maxIndex must be greater than minIndex (%d), got %d", minIdx, maxIdx)
	}
	if maxSize > 0 && maxIdx-minIdx > maxSize {
		return Page{}, fmt.Errorf("page size must be at most %d, got %d", maxSize, maxIdx-minIdx)
	}
	return Page{Min: minIdx, Max: maxIdx}, nil
}

// Size returns the number of hits in the window.
func (p Page) Size() int { return p.Max - p.Min }

// Query is one compiled index query.
type Query struct {
	Fields   []FieldBoost
	Text     string
	Filter   Clause
	Page     Page
	AggName  string
	AggField string
}

// Sort orders by relevance, breaking ties on ascending course number.
// The index applies it; results are parsed in the order returned and never re-sorted.
func Sort() []any {
	return []any{
		"_score",
		map[string]any{
			FieldClassIDSort: map[string]any{"order": "asc", "unmapped_type": "keyword"},
		},
	}
}

// TextClause is the fuzzy multi-field match on the query text.
func (q Query) TextClause() Clause {
	fields := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		fields[i] = f.String()
	}
	return Clause{"multi_match": map[string]any{
		"query":     q.Text,
		"type":      "most_fields",
		"fuzziness": "AUTO",
		"fields":    fields,
	}}
}

// FilterClause lets employee records through regardless of the course filter.
func (q Query) FilterClause() Clause {
	return Clause{"bool": map[string]any{
		"should": []any{q.Filter, Term(FieldDocumentType, TypeEmployee)},
	}}
}

// Source renders the query as an index request body.
func (q Query) Source() map[string]any {
	aggs := map[string]any{}
	if q.AggName != "" {
		aggs[q.AggName] = map[string]any{"terms": map[string]any{"field": q.AggField}}
	}
	return map[string]any{
		"from": q.Page.Min,
		"size": q.Page.Size(),
		"sort": Sort(),
		"query": map[string]any{
			"bool": map[string]any{
				"must":   q.TextClause(),
				"filter": q.FilterClause(),
			},
		},
		"aggregations": aggs,
	}
}

// FacetQuery is a leave-one-out variant carrying one facet aggregation.
type FacetQuery struct {
	Name  string
	Query Query
}

// Plan is the baseline query followed by facet variants in registry order.
type Plan struct {
	Baseline Query
	Facets   []FacetQuery
}

// Queries returns the batch in submission order.
func (p Plan) Queries() []Query {
	out := make([]Query, 0, 1+len(p.Facets))
	out = append(out, p.Baseline)
	for _, f := range p.Facets {
		out = append(out, f.Query)
	}
	return out
}

// FacetNames returns facet names aligned with Queries()[1:].
func (p Plan) FacetNames() []string {
	names := make([]string, len(p.Facets))
	for i, f := range p.Facets {
		names[i] = f.Name
	}
	return names
}

// Variant returns the facet query for name.
func (p Plan) Variant(name string) (Query, bool) {
	for _, f := range p.Facets {
		if f.Name == name {
			return f.Query, true
		}
	}
	return Query{}, false
}
