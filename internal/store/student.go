package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/drivedesk/internal/roster"
)

var studentCols = []string{
	"id", "first_name", "last_name", "email", "phone", "permit_number",
	"group_id", "completed_hours", "current_phase", "status", "created_at",
}

type studentRow struct {
	ID             string    `db:"id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	PermitNumber   string    `db:"permit_number"`
	GroupID        *string   `db:"group_id"`
	CompletedHours float64   `db:"completed_hours"`
	CurrentPhase   *int      `db:"current_phase"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r studentRow) toStudent() roster.Student {
	st := roster.Student{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		PermitNumber:   r.PermitNumber,
		CompletedHours: r.CompletedHours,
		CurrentPhase:   r.CurrentPhase,
		Status:         roster.StudentStatus(r.Status),
		CreatedAt:      r.CreatedAt,
	}
	if r.GroupID != nil {
		st.GroupID = *r.GroupID
	}
	return st
}

// studentRepo implements StudentRepo.
type studentRepo struct {
	s *Store
}

func (r *studentRepo) Create(ctx context.Context, st *roster.Student) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	if st.Status == "" {
		st.Status = roster.StudentActive
	}

	q := r.s.builder().Insert(studentsTable.Name).
		Columns(studentCols...).
		Values(st.ID, st.FirstName, st.LastName, st.Email, st.Phone, st.PermitNumber,
			nullable(st.GroupID), st.CompletedHours, nullableInt(st.CurrentPhase), string(st.Status), st.CreatedAt)
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *studentRepo) Get(ctx context.Context, id string) (*roster.Student, error) {
	var row studentRow
	q := r.s.builder().Select(studentCols...).
		From(entsql.Table(studentsTable.Name)).
		Where(entsql.EQ("id", id))
	if err := r.s.get(ctx, &row, q); err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	st := row.toStudent()
	return &st, nil
}

func (r *studentRepo) List(ctx context.Context, f StudentFilter) ([]roster.Student, error) {
	q := r.s.builder().Select(studentCols...).
		From(entsql.Table(studentsTable.Name)).
		OrderBy("last_name", "first_name")
	if f.GroupID != "" {
		q.Where(entsql.EQ("group_id", f.GroupID))
	}
	if f.Status != "" {
		q.Where(entsql.EQ("status", string(f.Status)))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q.Where(entsql.Or(
			entsql.ContainsFold("first_name", term),
			entsql.ContainsFold("last_name", term),
			entsql.ContainsFold("email", term),
			entsql.ContainsFold("permit_number", term),
		))
	}

	var rows []studentRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out := make([]roster.Student, len(rows))
	for i, row := range rows {
		out[i] = row.toStudent()
	}
	return out, nil
}

func (r *studentRepo) Update(ctx context.Context, st *roster.Student) error {
	q := r.s.builder().Update(studentsTable.Name).
		Set("first_name", st.FirstName).
		Set("last_name", st.LastName).
		Set("email", st.Email).
		Set("phone", st.Phone).
		Set("permit_number", st.PermitNumber).
		Set("group_id", nullable(st.GroupID)).
		Set("completed_hours", st.CompletedHours).
		Set("current_phase", nullableInt(st.CurrentPhase)).
		Set("status", string(st.Status)).
		Where(entsql.EQ("id", st.ID))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("update student %s: %w", st.ID, err)
	}
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	q := r.s.builder().Delete(studentsTable.Name).Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return nil
}

func (r *studentRepo) AddHours(ctx context.Context, delta float64, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := r.s.builder().Update(studentsTable.Name).
		Add("completed_hours", delta).
		Where(entsql.In("id", args...))
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("add student hours: %w", err)
	}
	return nil
}

func (r *studentRepo) SetHours(ctx context.Context, id string, hours float64) error {
	q := r.s.builder().Update(studentsTable.Name).
		Set("completed_hours", hours).
		Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("set student hours %s: %w", id, err)
	}
	return nil
}

// nullable maps an empty foreign key to NULL.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
