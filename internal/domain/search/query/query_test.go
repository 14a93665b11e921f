package query

import (
	"reflect"
	"testing"
)

func TestFieldBoost_String(t *testing.T) {
	tests := []struct {
		in   FieldBoost
		want string
	}{
		{FieldBoost{"class.subject", 10}, "class.subject^10"},
		{FieldBoost{"class.classId", 1}, "class.classId"},
		{FieldBoost{"class.name.autocomplete", 0}, "class.name.autocomplete"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	if _, err := NewPage(-1, 10, 100); err == nil {
		t.Error("expected error for negative min")
	}
	if _, err := NewPage(10, 10, 100); err == nil {
		t.Error("expected error for empty window")
	}
	if _, err := NewPage(0, 101, 100); err == nil {
		t.Error("expected error for oversize window")
	}
	p, err := NewPage(4, 14, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size() != 10 {
		t.Errorf("size = %d, want 10", p.Size())
	}
}

func TestAnyOf_Empty(t *testing.T) {
	if AnyOf() != nil {
		t.Error("AnyOf() should be nil")
	}
}

func TestAllOf_SkipsNil(t *testing.T) {
	got := AllOf(Term("a", 1), nil)
	must := got["bool"].(map[string]any)["must"].([]any)
	if len(must) != 1 {
		t.Errorf("expected 1 must clause, got %d", len(must))
	}
}

func TestSort_ScoreThenCourseNumber(t *testing.T) {
	s := Sort()
	if len(s) != 2 || s[0] != "_score" {
		t.Fatalf("primary sort must be _score, got %#v", s)
	}
	tiebreak := s[1].(map[string]any)[FieldClassIDSort].(map[string]any)
	if tiebreak["order"] != "asc" {
		t.Errorf("tiebreak order = %v, want asc", tiebreak["order"])
	}
}

func TestSource_Shape(t *testing.T) {
	q := Query{
		Fields:   []FieldBoost{{"class.subject", 10}, {"class.classId", 1}},
		Text:     "cs2500",
		Filter:   Term(FieldTermID, "202110"),
		Page:     Page{Min: 0, Max: 10},
		AggName:  "subject",
		AggField: "class.subject.keyword",
	}
	src := q.Source()

	if src["from"] != 0 || src["size"] != 10 {
		t.Errorf("from/size = %v/%v", src["from"], src["size"])
	}
	b := src["query"].(map[string]any)["bool"].(map[string]any)
	mm := b["must"].(Clause)["multi_match"].(map[string]any)
	if !reflect.DeepEqual(mm["fields"], []string{"class.subject^10", "class.classId"}) {
		t.Errorf("fields = %v", mm["fields"])
	}
	if mm["fuzziness"] != "AUTO" {
		t.Errorf("fuzziness = %v", mm["fuzziness"])
	}

	should := b["filter"].(Clause)["bool"].(map[string]any)["should"].([]any)
	if len(should) != 2 {
		t.Fatalf("expected filter should of 2, got %d", len(should))
	}
	if !reflect.DeepEqual(should[1], Term("type", "employee")) {
		t.Errorf("second should clause = %#v", should[1])
	}

	aggs := src["aggregations"].(map[string]any)
	want := map[string]any{"subject": map[string]any{"terms": map[string]any{"field": "class.subject.keyword"}}}
	if !reflect.DeepEqual(aggs, want) {
		t.Errorf("aggregations = %#v", aggs)
	}
}

func TestSource_NoAggregation(t *testing.T) {
	src := Query{Page: Page{Min: 0, Max: 5}}.Source()
	if len(src["aggregations"].(map[string]any)) != 0 {
		t.Error("expected empty aggregations")
	}
}

func TestPlan_Helpers(t *testing.T) {
	p := Plan{
		Baseline: Query{Text: "base"},
		Facets: []FacetQuery{
			{Name: "nupath", Query: Query{Text: "n"}},
			{Name: "subject", Query: Query{Text: "s"}},
		},
	}
	qs := p.Queries()
	if len(qs) != 3 || qs[0].Text != "base" || qs[2].Text != "s" {
		t.Errorf("queries out of order: %+v", qs)
	}
	if !reflect.DeepEqual(p.FacetNames(), []string{"nupath", "subject"}) {
		t.Errorf("facet names = %v", p.FacetNames())
	}
	if q, ok := p.Variant("subject"); !ok || q.Text != "s" {
		t.Errorf("Variant(subject) = %+v, %v", q, ok)
	}
	if _, ok := p.Variant("online"); ok {
		t.Error("unexpected variant for online")
	}
}
