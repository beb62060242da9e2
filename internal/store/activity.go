package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var activityCols = []string{"sequence", "timestamp", "actor", "action", "entity_type", "entity_id", "detail"}

type activityRow struct {
	Sequence   int64     `db:"sequence"`
	Timestamp  time.Time `db:"timestamp"`
	Actor      string    `db:"actor"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Detail     string    `db:"detail"`
}

type activityRepo struct {
	s *Store
}

func (r *activityRepo) Append(ctx context.Context, ev *ActivityEvent) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ev.Sequence = seqNum
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	q := r.s.builder().Insert(activityTable.Name).
		Columns(activityCols...).
		Values(ev.Sequence, ev.Timestamp, ev.Actor, ev.Action, ev.EntityType, ev.EntityID, ev.Detail)
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("save activity event: %w", err)
	}
	return nil
}

func (r *activityRepo) Query(ctx context.Context, opts QueryOpts) ([]ActivityEvent, error) {
	q := r.s.builder().Select(activityCols...).
		From(entsql.Table(activityTable.Name)).
		OrderBy(entsql.Desc("sequence"))

	if opts.Limit > 0 {
		q.Limit(opts.Limit)
	}
	if opts.After > 0 {
		q.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		q.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		q.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		q.Where(entsql.LTE("timestamp", opts.To))
	}
	if opts.EntityType != "" {
		q.Where(entsql.EQ("entity_type", opts.EntityType))
	}
	if opts.EntityID != "" {
		q.Where(entsql.EQ("entity_id", opts.EntityID))
	}

	var rows []activityRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	events := make([]ActivityEvent, len(rows))
	for i, row := range rows {
		events[i] = ActivityEvent(row)
	}
	return events, nil
}
