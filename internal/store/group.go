package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/drivedesk/internal/roster"
)

var groupCols = []string{"id", "name", "start_date"}

type groupRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	StartDate string `db:"start_date"`
}

type groupRepo struct {
	s *Store
}

func (r *groupRepo) Create(ctx context.Context, g *roster.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	q := r.s.builder().Insert(groupsTable.Name).
		Columns("id", "name", "start_date", "created_at").
		Values(g.ID, g.Name, g.StartDate, time.Now().UTC())
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *groupRepo) Get(ctx context.Context, id string) (*roster.Group, error) {
	var row groupRow
	q := r.s.builder().Select(groupCols...).
		From(entsql.Table(groupsTable.Name)).
		Where(entsql.EQ("id", id))
	if err := r.s.get(ctx, &row, q); err != nil {
		return nil, fmt.Errorf("get group %s: %w", id, err)
	}
	g := roster.Group(row)
	return &g, nil
}

func (r *groupRepo) List(ctx context.Context) ([]roster.Group, error) {
	q := r.s.builder().Select(groupCols...).
		From(entsql.Table(groupsTable.Name)).
		OrderBy(entsql.Desc("start_date"), "name")

	var rows []groupRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]roster.Group, len(rows))
	for i, row := range rows {
		out[i] = roster.Group(row)
	}
	return out, nil
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	q := r.s.builder().Delete(groupsTable.Name).Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	return nil
}
