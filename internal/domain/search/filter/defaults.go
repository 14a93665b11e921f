package filter

import "github.com/kailas-cloud/coursedex/internal/domain/search/query"

// Index fields targeted by the default filters.
const (
	fieldClassAttributes = "class.classAttributes"
	fieldSubject         = "class.subject"
	fieldScheduleType    = "class.scheduleType"
	fieldSectionsOnline  = "sections.online"
	fieldSections        = "sections"
)

// Default returns the course filter table. Registry order is facet order.
func Default() *Registry {
	r, err := NewRegistry(
		Definition{
			Name:     NUPath,
			Validate: IsStringArray,
			Build:    anyOf(query.MatchPhrase, fieldClassAttributes),
			IsFacet:  true,
			AggField: fieldClassAttributes + ".keyword",
		},
		Definition{
			Name:     Subject,
			Validate: IsStringArray,
			Build:    anyOf(query.Match, fieldSubject),
			IsFacet:  true,
			AggField: fieldSubject + ".keyword",
		},
		Definition{
			Name:     Online,
			Validate: IsTrue,
			Build:    func(any) query.Clause { return query.Term(fieldSectionsOnline, true) },
		},
		Definition{
			Name:     ClassType,
			Validate: IsStringArray,
			Build:    anyOf(query.Match, fieldScheduleType),
			IsFacet:  true,
			AggField: fieldScheduleType + ".keyword",
		},
		Definition{
			// Open seats only.
			Name:     SectionsAvailable,
			Validate: IsTrue,
			Build:    func(any) query.Clause { return query.Exists(fieldSections) },
		},
	)
	if err != nil {
		panic("default filter registry: " + err.Error())
	}
	return r
}

// IsString accepts any string.
func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// IsStringArray accepts a []string or a decoded JSON array whose elements are all strings.
func IsStringArray(v any) bool {
	switch arr := v.(type) {
	case []string:
		return true
	case []any:
		for _, e := range arr {
			if !IsString(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsTrue accepts only the boolean true, so "false" and "absent" are the same selection.
func IsTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func anyOf(build func(field, value string) query.Clause, field string) func(any) query.Clause {
	return func(v any) query.Clause {
		values := stringValues(v)
		if len(values) == 0 {
			// An empty should is match-all; selecting nothing constrains nothing.
			return nil
		}
		clauses := make([]query.Clause, len(values))
		for i, s := range values {
			clauses[i] = build(field, s)
		}
		return query.Clause{"bool": map[string]any{"should": toAny(clauses)}}
	}
}

func stringValues(v any) []string {
	switch arr := v.(type) {
	case []string:
		return arr
	case []any:
		out := make([]string, 0, len(arr))
		for _, e := range arr {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toAny(clauses []query.Clause) []any {
	out := make([]any, len(clauses))
	for i, c := range clauses {
		out[i] = c
	}
	return out
}
