// Package query holds the index query model and its request-body rendering.
package query

// Clause is a single node of the index query DSL.
type Clause map[string]any

// Term matches documents whose field equals value exactly.
func Term(field string, value any) Clause {
	return Clause{"term": map[string]any{field: value}}
}

// Match runs an analyzed match on field.
func Match(field, value string) Clause {
	return Clause{"match": map[string]any{field: value}}
}

// MatchPhrase runs an analyzed phrase match on field.
func MatchPhrase(field, value string) Clause {
	return Clause{"match_phrase": map[string]any{field: value}}
}

// Exists matches documents that have any value for field.
func Exists(field string) Clause {
	return Clause{"exists": map[string]any{"field": field}}
}

// AnyOf matches documents satisfying at least one clause.
// An empty list yields nil, which callers treat as "no constraint".
func AnyOf(clauses ...Clause) Clause {
	if len(clauses) == 0 {
		return nil
	}
	should := make([]any, len(clauses))
	for i, c := range clauses {
		should[i] = c
	}
	return Clause{"bool": map[string]any{
		"should":               should,
		"minimum_should_match": 1,
	}}
}

// AllOf matches documents satisfying every non-nil clause.
func AllOf(clauses ...Clause) Clause {
	must := make([]any, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			must = append(must, c)
		}
	}
	return Clause{"bool": map[string]any{"must": must}}
}
