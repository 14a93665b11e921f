package search

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kailas-cloud/coursedex/internal/domain"
)

// --- Mocks ---

type mockSubjectSource struct {
	mu     sync.Mutex
	codes  []string
	err    error
	calls  int
	fields []string
}

func (m *mockSubjectSource) Distinct(_ context.Context, field string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.fields = append(m.fields, field)
	return m.codes, m.err
}

func (m *mockSubjectSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSubjects struct {
	set    domain.SubjectSet
	err    error
	called bool
}

func (m *mockSubjects) Subjects(_ context.Context) (domain.SubjectSet, error) {
	m.called = true
	return m.set, m.err
}

type mockIndex struct {
	responses   []json.RawMessage
	err         error
	calls       int
	lastIndices []string
	lastBodies  []map[string]any
}

func (m *mockIndex) MultiSearch(
	_ context.Context, indices []string, bodies []map[string]any,
) ([]json.RawMessage, error) {
	m.calls++
	m.lastIndices = indices
	m.lastBodies = bodies
	return m.responses, m.err
}

type mockHydrator struct {
	err      error
	lastRefs []domain.DocumentRef
	short    bool
}

func (m *mockHydrator) Hydrate(_ context.Context, refs []domain.DocumentRef) ([]domain.SearchItem, error) {
	m.lastRefs = refs
	if m.err != nil {
		return nil, m.err
	}
	n := len(refs)
	if m.short && n > 0 {
		n--
	}
	items := make([]domain.SearchItem, n)
	for i := range items {
		switch refs[i].Kind {
		case domain.KindEmployee:
			items[i] = domain.SearchItem{Type: domain.KindEmployee, Employee: &domain.Employee{ID: refs[i].ID}}
		default:
			items[i] = domain.SearchItem{Type: domain.KindClass, Class: &domain.Course{ID: refs[i].ID}}
		}
	}
	return items, nil
}

// --- Fixtures ---

const baselineFixture = `{
  "took": 7,
  "hits": {
    "total": {"value": 42, "relation": "eq"},
    "hits": [
      {"_index": "classes", "_id": "neu.edu/202110/CS/2500", "_score": 9.5, "_source": {"type": "class"}},
      {"_index": "employees", "_id": "emp-1", "_score": 3.2, "_source": {"type": "employee"}}
    ]
  }
}`

func facetFixture(name string, buckets string) json.RawMessage {
	return json.RawMessage(`{"took": 3, "hits": {"total": {"value": 42}, "hits": []},
  "aggregations": {"` + name + `": {"buckets": ` + buckets + `}}}`)
}
