package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/drivedesk/internal/roster"
)

var instructorCols = []string{"id", "first_name", "last_name", "email", "phone", "active"}

type instructorRow struct {
	ID        string `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Active    bool   `db:"active"`
}

func (r instructorRow) toInstructor() roster.Instructor {
	return roster.Instructor(r)
}

type instructorRepo struct {
	s *Store
}

func (r *instructorRepo) Create(ctx context.Context, in *roster.Instructor) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	q := r.s.builder().Insert(instructorsTable.Name).
		Columns(instructorCols...).
		Values(in.ID, in.FirstName, in.LastName, in.Email, in.Phone, in.Active)
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

func (r *instructorRepo) Get(ctx context.Context, id string) (*roster.Instructor, error) {
	var row instructorRow
	q := r.s.builder().Select(instructorCols...).
		From(entsql.Table(instructorsTable.Name)).
		Where(entsql.EQ("id", id))
	if err := r.s.get(ctx, &row, q); err != nil {
		return nil, fmt.Errorf("get instructor %s: %w", id, err)
	}
	in := row.toInstructor()
	return &in, nil
}

func (r *instructorRepo) List(ctx context.Context, activeOnly bool) ([]roster.Instructor, error) {
	q := r.s.builder().Select(instructorCols...).
		From(entsql.Table(instructorsTable.Name)).
		OrderBy("last_name", "first_name")
	if activeOnly {
		q.Where(entsql.EQ("active", true))
	}

	var rows []instructorRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	out := make([]roster.Instructor, len(rows))
	for i, row := range rows {
		out[i] = row.toInstructor()
	}
	return out, nil
}

func (r *instructorRepo) Update(ctx context.Context, in *roster.Instructor) error {
	q := r.s.builder().Update(instructorsTable.Name).
		Set("first_name", in.FirstName).
		Set("last_name", in.LastName).
		Set("email", in.Email).
		Set("phone", in.Phone).
		Set("active", in.Active).
		Where(entsql.EQ("id", in.ID))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("update instructor %s: %w", in.ID, err)
	}
	return nil
}
