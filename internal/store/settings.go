package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type settingRow struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

type settingsRepo struct {
	s *Store
}

func (r *settingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var row settingRow
	q := r.s.builder().Select("name", "value").
		From(entsql.Table(settingsTable.Name)).
		Where(entsql.EQ("name", key))
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	q := r.s.builder().Insert(settingsTable.Name).
		Columns("name", "value").
		Values(key, value).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues())
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (r *settingsRepo) All(ctx context.Context) (map[string]string, error) {
	q := r.s.builder().Select("name", "value").
		From(entsql.Table(settingsTable.Name)).
		OrderBy("name")

	var rows []settingRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Value
	}
	return out, nil
}
