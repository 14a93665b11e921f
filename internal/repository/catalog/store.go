package catalog

import (
	"context"
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/coursedex/internal/db"
	"github.com/kailas-cloud/coursedex/internal/domain"
)

// distinctColumns whitelists the fields Distinct may enumerate.
var distinctColumns = map[string]string{
	"subject": "subject",
	"termId":  "term_id",
}

// Store implements usecase/search.SubjectSource and usecase/search.Hydrator.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Distinct returns the sorted non-empty values of a course field.
func (s *Store) Distinct(ctx context.Context, field string) ([]string, error) {
	col, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: distinct on unknown field %q", domain.ErrInvalidRequest, field)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT "+col+" FROM courses WHERE "+col+" <> '' ORDER BY "+col)
	if err != nil {
		return nil, &db.Error{Op: db.OpDistinct, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &db.Error{Op: db.OpDistinct, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpDistinct, Err: err}
	}
	return out, nil
}

// Hydrate loads full records for refs, preserving order. Courses come with their
// sections. A ref with no catalog row fails with domain.ErrDocumentNotFound.
func (s *Store) Hydrate(ctx context.Context, refs []domain.DocumentRef) ([]domain.SearchItem, error) {
	var courseIDs, employeeIDs []string
	for _, ref := range refs {
		if ref.Kind == domain.KindEmployee {
			employeeIDs = append(employeeIDs, ref.ID)
		} else {
			courseIDs = append(courseIDs, ref.ID)
		}
	}

	courses, err := s.loadCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	sections, err := s.loadSections(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	employees, err := s.loadEmployees(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SearchItem, 0, len(refs))
	for _, ref := range refs {
		if ref.Kind == domain.KindEmployee {
			e, ok := employees[ref.ID]
			if !ok {
				return nil, fmt.Errorf("%w: employee %q", domain.ErrDocumentNotFound, ref.ID)
			}
			items = append(items, domain.SearchItem{Type: domain.KindEmployee, Employee: e})
			continue
		}
		c, ok := courses[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%w: class %q", domain.ErrDocumentNotFound, ref.ID)
		}
		items = append(items, domain.SearchItem{Type: domain.KindClass, Class: c, Sections: sections[ref.ID]})
	}
	return items, nil
}

func (s *Store) loadCourses(ctx context.Context, ids []string) (map[string]*domain.Course, error) {
	out := make(map[string]*domain.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT id, host, term_id, subject, class_id, name, description, min_credits, max_credits,
		class_attributes, nupath, schedule_type, pretty_url
		FROM courses WHERE id IN (` + s.dialect.placeholders(1, len(ids)) + `)`

	rows, err := s.db.QueryContext(ctx, q, toArgs(ids)...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c           domain.Course
			attrs, path string
		)
		if err := rows.Scan(&c.ID, &c.Host, &c.TermID, &c.Subject, &c.ClassID, &c.Name, &c.Description,
			&c.MinCredits, &c.MaxCredits, &attrs, &path, &c.ScheduleType, &c.PrettyURL); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		if c.ClassAttributes, err = decodeList(attrs); err != nil {
			return nil, fmt.Errorf("course %s class_attributes: %w", c.ID, err)
		}
		if c.NUPath, err = decodeList(path); err != nil {
			return nil, fmt.Errorf("course %s nupath: %w", c.ID, err)
		}
		out[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

func (s *Store) loadSections(ctx context.Context, courseIDs []string) (map[string][]domain.Section, error) {
	out := make(map[string][]domain.Section, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := `SELECT course_id, crn, seats_capacity, seats_remaining, wait_capacity, wait_remaining, online, profs
		FROM sections WHERE course_id IN (` + s.dialect.placeholders(1, len(courseIDs)) + `)
		ORDER BY course_id, crn`

	rows, err := s.db.QueryContext(ctx, q, toArgs(courseIDs)...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			courseID string
			sec      domain.Section
			online   int64
			profs    string
		)
		if err := rows.Scan(&courseID, &sec.CRN, &sec.SeatsCapacity, &sec.SeatsRemaining,
			&sec.WaitCapacity, &sec.WaitRemaining, &online, &profs); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		sec.Online = online != 0
		if sec.Profs, err = decodeList(profs); err != nil {
			return nil, fmt.Errorf("section %s profs: %w", sec.CRN, err)
		}
		out[courseID] = append(out[courseID], sec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

func (s *Store) loadEmployees(ctx context.Context, ids []string) (map[string]*domain.Employee, error) {
	out := make(map[string]*domain.Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT id, name, first_name, last_name, emails, phone, primary_role, primary_department
		FROM employees WHERE id IN (` + s.dialect.placeholders(1, len(ids)) + `)`

	rows, err := s.db.QueryContext(ctx, q, toArgs(ids)...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e      domain.Employee
			emails string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.FirstName, &e.LastName, &emails,
			&e.Phone, &e.PrimaryRole, &e.PrimaryDepartment); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		if e.Emails, err = decodeList(emails); err != nil {
			return nil, fmt.Errorf("employee %s emails: %w", e.ID, err)
		}
		out[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(s, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(v)
}
