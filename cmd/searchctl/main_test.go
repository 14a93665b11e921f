package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlan_WritesHeaderBodyPairs(t *testing.T) {
	out, err := runRoot(t, "plan", "fundies", "--term", "202110")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	want := 2 * (1 + len(filter.Default().Facets()))
	if len(lines) != want {
		t.Fatalf("expected %d lines, got %d:\n%s", want, len(lines), out)
	}
	for i := 0; i < len(lines); i += 2 {
		if lines[i] != "{}" {
			t.Errorf("line %d: expected empty header, got %s", i, lines[i])
		}
	}
	if !strings.Contains(lines[1], `"class.name^2"`) {
		t.Errorf("expected default field set in baseline, got %s", lines[1])
	}
}

func TestPlan_CourseCodeUsesSubjects(t *testing.T) {
	out, err := runRoot(t, "plan", "cs2500", "--term", "202110", "--subjects", "CS,MATH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"class.subject^10"`) {
		t.Errorf("expected narrowed course-code fields, got %s", out)
	}
	if strings.Contains(out, `"employee.name^2"`) {
		t.Error("course-code query should not search employee fields")
	}
}

func TestPlan_FiltersFlag(t *testing.T) {
	out, err := runRoot(t, "plan", "--term", "202110", "--filters", `{"subject":["CS"],"bogus":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"CS"`) {
		t.Errorf("expected subject filter in plan, got %s", out)
	}
	if strings.Contains(out, "bogus") {
		t.Error("unknown filter must be dropped")
	}
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing term", []string{"plan", "cs"}},
		{"short term", []string{"plan", "cs", "--term", "2021"}},
		{"bad filters", []string{"plan", "--term", "202110", "--filters", "{"}},
		{"inverted page", []string{"plan", "--term", "202110", "--min", "20", "--max", "10"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runRoot(t, tc.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type fakeWriter struct {
	migrated  bool
	courses   []string
	sections  int
	employees []string
	err       error
}

func (f *fakeWriter) Migrate(context.Context) error {
	f.migrated = true
	return nil
}

func (f *fakeWriter) SaveCourse(_ context.Context, c *domain.Course, sections []domain.Section) error {
	if f.err != nil {
		return f.err
	}
	f.courses = append(f.courses, c.ID)
	f.sections += len(sections)
	return nil
}

func (f *fakeWriter) SaveEmployee(_ context.Context, e *domain.Employee) error {
	if f.err != nil {
		return f.err
	}
	f.employees = append(f.employees, e.ID)
	return nil
}

func TestLoadItems(t *testing.T) {
	w := &fakeWriter{}
	items := []domain.SearchItem{
		{
			Type:     domain.KindClass,
			Class:    &domain.Course{ID: "neu.edu/202110/CS/2500", Subject: "CS", TermID: "202110"},
			Sections: []domain.Section{{CRN: "10001"}, {CRN: "10002"}},
		},
		{Type: domain.KindEmployee, Employee: &domain.Employee{ID: "e1", Name: "Ada"}},
	}

	courses, employees, err := loadItems(context.Background(), w, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.migrated {
		t.Error("expected migrations to run before writes")
	}
	if courses != 1 || employees != 1 || w.sections != 2 {
		t.Errorf("got courses=%d employees=%d sections=%d", courses, employees, w.sections)
	}
}

func TestLoadItems_RejectsUnknownType(t *testing.T) {
	items := []domain.SearchItem{{Type: "room"}}
	_, _, err := loadItems(context.Background(), &fakeWriter{}, items)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestLoadItems_StopsOnWriteError(t *testing.T) {
	boom := errors.New("disk full")
	items := []domain.SearchItem{
		{Type: domain.KindEmployee, Employee: &domain.Employee{ID: "e1"}},
		{Type: domain.KindEmployee, Employee: &domain.Employee{ID: "e2"}},
	}
	_, employees, err := loadItems(context.Background(), &fakeWriter{err: boom}, items)
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if employees != 0 {
		t.Errorf("expected no employees saved, got %d", employees)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runRoot(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "dev (commit unknown") {
		t.Errorf("unexpected version output: %s", out)
	}
}
