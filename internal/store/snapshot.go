package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type snapshotRow struct {
	ID        int       `db:"id"`
	StudentID string    `db:"student_id"`
	Sequence  int64     `db:"sequence"`
	Timestamp time.Time `db:"timestamp"`
	Data      string    `db:"data"`
}

// snapshotRepo implements SnapshotRepo.
type snapshotRepo struct {
	s *Store
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.s.seq.Next(ctx); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	q := r.s.builder().Insert(snapshotsTable.Name).
		Columns("student_id", "sequence", "timestamp", "data").
		Values(snap.StudentID, snap.Sequence, snap.Timestamp, string(data))
	if err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, studentID string) (*Snapshot, error) {
	q := r.s.builder().Select("id", "student_id", "sequence", "timestamp", "data").
		From(entsql.Table(snapshotsTable.Name)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1)

	var row snapshotRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return rowToSnapshot(row)
}

func (r *snapshotRepo) Prune(ctx context.Context, studentID string, keep int) error {
	// Find the sequence threshold: the Nth most recent snapshot.
	q := r.s.builder().Select("sequence").
		From(entsql.Table(snapshotsTable.Name)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1)

	var threshold int64
	if err := r.s.get(ctx, &threshold, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	del := r.s.builder().Delete(snapshotsTable.Name).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.LTE("sequence", threshold),
		))
	if err := r.s.exec(ctx, del); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func rowToSnapshot(row snapshotRow) (*Snapshot, error) {
	var data SnapshotData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &Snapshot{
		ID:        row.ID,
		StudentID: row.StudentID,
		Sequence:  row.Sequence,
		Timestamp: row.Timestamp,
		Data:      data,
	}, nil
}
