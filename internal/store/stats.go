package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/drivedesk/internal/classes"
)

// Counts summarizes the size of the school's records.
type Counts struct {
	Students         int `json:"students"`
	Instructors      int `json:"instructors"`
	Groups           int `json:"groups"`
	Classes          int `json:"classes"`
	CompletedClasses int `json:"completed_classes"`
	ActivityEvents   int `json:"activity_events"`
}

// Counts returns row counts across the main tables.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		where *entsql.Predicate
		dst   *int
	}{
		{studentsTable.Name, nil, &c.Students},
		{instructorsTable.Name, nil, &c.Instructors},
		{groupsTable.Name, nil, &c.Groups},
		{classesTable.Name, nil, &c.Classes},
		{classesTable.Name, entsql.EQ("completion_status", string(classes.StatusCompleted)), &c.CompletedClasses},
		{activityTable.Name, nil, &c.ActivityEvents},
	}
	for _, t := range targets {
		q := s.builder().Select(entsql.Count("*")).From(entsql.Table(t.table))
		if t.where != nil {
			q.Where(t.where)
		}
		if err := s.get(ctx, t.dst, q); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", t.table, err)
		}
	}
	return c, nil
}

// Reset deletes every school record in a single transaction. The global
// sequence keeps counting so sequence numbers are never reused.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children before parents.
	for _, t := range []string{
		classesTable.Name,
		snapshotsTable.Name,
		activityTable.Name,
		studentsTable.Name,
		instructorsTable.Name,
		groupsTable.Name,
		settingsTable.Name,
	} {
		query, args := s.builder().Delete(t).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return tx.Commit()
}
