package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/coursedex/internal/db"
	"github.com/kailas-cloud/coursedex/internal/domain"
)

// SaveCourse inserts or replaces a course and its sections. Sections not in
// the list are removed.
func (s *Store) SaveCourse(ctx context.Context, c *domain.Course, sections []domain.Section) error {
	attrs, err := encodeList(c.ClassAttributes)
	if err != nil {
		return fmt.Errorf("encode class attributes: %w", err)
	}
	path, err := encodeList(c.NUPath)
	if err != nil {
		return fmt.Errorf("encode nupath: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO courses (id, host, term_id, subject, class_id, name, description,
		min_credits, max_credits, class_attributes, nupath, schedule_type, pretty_url)
		VALUES (`+s.dialect.placeholders(1, 13)+`)
		ON CONFLICT (id) DO UPDATE SET host = excluded.host, term_id = excluded.term_id,
		subject = excluded.subject, class_id = excluded.class_id, name = excluded.name,
		description = excluded.description, min_credits = excluded.min_credits,
		max_credits = excluded.max_credits, class_attributes = excluded.class_attributes,
		nupath = excluded.nupath, schedule_type = excluded.schedule_type, pretty_url = excluded.pretty_url`,
		c.ID, c.Host, c.TermID, c.Subject, c.ClassID, c.Name, c.Description,
		c.MinCredits, c.MaxCredits, attrs, path, c.ScheduleType, c.PrettyURL)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sections WHERE course_id = "+s.dialect.placeholders(1, 1), c.ID); err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	for _, sec := range sections {
		profs, err := encodeList(sec.Profs)
		if err != nil {
			return fmt.Errorf("encode profs: %w", err)
		}
		online := 0
		if sec.Online {
			online = 1
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sections (course_id, crn, seats_capacity, seats_remaining,
			wait_capacity, wait_remaining, online, profs) VALUES (`+s.dialect.placeholders(1, 8)+`)`,
			c.ID, sec.CRN, sec.SeatsCapacity, sec.SeatsRemaining,
			sec.WaitCapacity, sec.WaitRemaining, online, profs); err != nil {
			return &db.Error{Op: db.OpInsert, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// SaveEmployee inserts or replaces a staff entry.
func (s *Store) SaveEmployee(ctx context.Context, e *domain.Employee) error {
	emails, err := encodeList(e.Emails)
	if err != nil {
		return fmt.Errorf("encode emails: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO employees (id, name, first_name, last_name, emails, phone,
		primary_role, primary_department) VALUES (`+s.dialect.placeholders(1, 8)+`)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, first_name = excluded.first_name,
		last_name = excluded.last_name, emails = excluded.emails, phone = excluded.phone,
		primary_role = excluded.primary_role, primary_department = excluded.primary_department`,
		e.ID, e.Name, e.FirstName, e.LastName, emails, e.Phone, e.PrimaryRole, e.PrimaryDepartment)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}
