package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/domain/search/query"
)

// courseCodePattern matches a subject prefix with an optional course number, e.g. "CS 2500".
var courseCodePattern = regexp.MustCompile(`^\s*([a-zA-Z]{2,4})\s*(\d{4})?\s*$`)

var defaultFields = []query.FieldBoost{
	{Field: "class.name", Boost: 2},
	{Field: "class.name.autocomplete", Boost: 1},
	{Field: "class.subject", Boost: 4},
	{Field: "class.classId", Boost: 3},
	{Field: "sections.profs", Boost: 1},
	{Field: "class.crns", Boost: 1},
	{Field: "employee.name", Boost: 2},
	{Field: "employee.emails", Boost: 1},
	{Field: "employee.phone", Boost: 1},
}

// Once a known subject prefix is typed, other subjects sharing the number are noise.
var courseCodeFields = []query.FieldBoost{
	{Field: "class.subject", Boost: 10},
	{Field: "class.classId", Boost: 1},
}

// DefaultFields returns the full searched field set.
func DefaultFields() []query.FieldBoost { return clone(defaultFields) }

// CourseCodeFields returns the narrowed field set used for course-code queries.
func CourseCodeFields() []query.FieldBoost { return clone(courseCodeFields) }

// Compiler turns text, a term and validated filters into index queries.
type Compiler struct {
	registry *filter.Registry
	subjects SubjectProvider
}

// NewCompiler creates a query compiler.
func NewCompiler(registry *filter.Registry, subjects SubjectProvider) *Compiler {
	return &Compiler{registry: registry, subjects: subjects}
}

// Registry returns the filter table the compiler builds clauses from.
func (c *Compiler) Registry() *filter.Registry { return c.registry }

// SelectFields picks the searched fields for text. The subject set is only
// consulted when text looks like a course code.
func (c *Compiler) SelectFields(ctx context.Context, text string) ([]query.FieldBoost, error) {
	m := courseCodePattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultFields(), nil
	}
	subjects, err := c.subjects.Subjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("select fields: %w", err)
	}
	if subjects.Has(strings.ToLower(m[1])) {
		return CourseCodeFields(), nil
	}
	return DefaultFields(), nil
}

// BuildFilterClause ORs the clauses of every active filter except excluding,
// then ANDs the result with the term.
//
// Categories are ORed with each other, not ANDed: selecting a subject and an
// NUPath matches either. This mirrors the behavior clients already depend on.
// Filters that build no clause (an empty value list) are skipped, since a
// match-all member would cancel every other category in the OR.
func (c *Compiler) BuildFilterClause(termID string, v filter.Validated, excluding string) query.Clause {
	var clauses []query.Clause
	for _, def := range c.registry.Definitions() {
		if def.Name == excluding {
			continue
		}
		val, ok := v.Get(def.Name)
		if !ok {
			continue
		}
		if clause := def.Build(val); clause != nil {
			clauses = append(clauses, clause)
		}
	}
	return query.AllOf(query.Term(query.FieldTermID, termID), query.AnyOf(clauses...))
}

// BuildQuery compiles one query. facet, when non-nil, attaches its terms aggregation.
func (c *Compiler) BuildQuery(
	ctx context.Context, text string, filterClause query.Clause, page query.Page, facet *filter.Definition,
) (query.Query, error) {
	fields, err := c.SelectFields(ctx, text)
	if err != nil {
		return query.Query{}, err
	}
	return buildQuery(fields, text, filterClause, page, facet), nil
}

// BuildPlan compiles the baseline query and one leave-one-out variant per facet filter.
func (c *Compiler) BuildPlan(
	ctx context.Context, text, termID string, v filter.Validated, page query.Page,
) (query.Plan, error) {
	fields, err := c.SelectFields(ctx, text)
	if err != nil {
		return query.Plan{}, err
	}

	plan := query.Plan{
		Baseline: buildQuery(fields, text, c.BuildFilterClause(termID, v, ""), page, nil),
	}
	for _, def := range c.registry.Facets() {
		q := buildQuery(fields, text, c.BuildFilterClause(termID, v, def.Name), page, &def)
		plan.Facets = append(plan.Facets, query.FacetQuery{Name: def.Name, Query: q})
	}
	return plan, nil
}

func buildQuery(
	fields []query.FieldBoost, text string, filterClause query.Clause, page query.Page, facet *filter.Definition,
) query.Query {
	q := query.Query{
		Fields: fields,
		Text:   text,
		Filter: filterClause,
		Page:   page,
	}
	if facet != nil {
		q.AggName = facet.Name
		q.AggField = facet.AggField
	}
	return q
}

func clone(fields []query.FieldBoost) []query.FieldBoost {
	out := make([]query.FieldBoost, len(fields))
	copy(out, fields)
	return out
}
