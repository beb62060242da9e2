package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
)

var classCols = []string{
	"id", "title", "kind", "date", "start_time", "end_time", "notes",
	"attendance_status", "completion_status", "instructor_feedback",
	"created_at", "instructor_id", "group_id", "student_id",
}

type classRow struct {
	ID                 string    `db:"id"`
	Title              string    `db:"title"`
	Kind               string    `db:"kind"`
	Date               string    `db:"date"`
	StartTime          string    `db:"start_time"`
	EndTime            string    `db:"end_time"`
	Notes              string    `db:"notes"`
	AttendanceStatus   *string   `db:"attendance_status"`
	CompletionStatus   string    `db:"completion_status"`
	InstructorFeedback string    `db:"instructor_feedback"`
	CreatedAt          time.Time `db:"created_at"`
	InstructorID       *string   `db:"instructor_id"`
	GroupID            *string   `db:"group_id"`
	StudentID          *string   `db:"student_id"`
	InstructorFirst    *string   `db:"instructor_first_name"`
	InstructorLast     *string   `db:"instructor_last_name"`
}

func (r classRow) toRecord() classes.Record {
	rec := classes.Record{
		ID:                 r.ID,
		Title:              r.Title,
		Kind:               curriculum.ParseKind(r.Kind),
		Date:               r.Date,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		InstructorID:       deref(r.InstructorID),
		GroupID:            deref(r.GroupID),
		StudentID:          deref(r.StudentID),
		Notes:              r.Notes,
		CompletionStatus:   classes.CompletionStatus(r.CompletionStatus),
		InstructorFeedback: r.InstructorFeedback,
	}
	if r.AttendanceStatus != nil && *r.AttendanceStatus != "" {
		rec.AttendanceStatus = classes.Attendance(classes.AttendanceStatus(*r.AttendanceStatus))
	}
	rec.InstructorName = strings.TrimSpace(deref(r.InstructorFirst) + " " + deref(r.InstructorLast))
	return rec
}

type classRepo struct {
	s *Store
}

// selectClasses returns a selector over classes joined with the
// instructor's name, and the classes table for building predicates.
func (r *classRepo) selectClasses() (*entsql.Selector, *entsql.SelectTable) {
	t := entsql.Table(classesTable.Name)
	i := entsql.Table(instructorsTable.Name)
	sel := r.s.builder().Select().From(t)
	sel.LeftJoin(i).On(t.C("instructor_id"), i.C("id"))

	cols := make([]string, 0, len(classCols)+2)
	for _, c := range classCols {
		cols = append(cols, t.C(c))
	}
	cols = append(cols,
		entsql.As(i.C("first_name"), "instructor_first_name"),
		entsql.As(i.C("last_name"), "instructor_last_name"),
	)
	sel.Select(cols...).OrderBy(t.C("date"), t.C("start_time"), t.C("id"))
	return sel, t
}

func (r *classRepo) Create(ctx context.Context, recs []classes.Record) ([]classes.Record, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	out := make([]classes.Record, len(recs))
	now := time.Now().UTC()
	q := r.s.builder().Insert(classesTable.Name).Columns(classCols...)
	for i, rec := range recs {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CompletionStatus == "" {
			rec.CompletionStatus = classes.StatusScheduled
		}
		var attendance any
		if rec.AttendanceStatus != nil {
			attendance = string(*rec.AttendanceStatus)
		}
		q.Values(rec.ID, rec.Title, string(rec.Kind), rec.Date, rec.StartTime, rec.EndTime, rec.Notes,
			attendance, string(rec.CompletionStatus), rec.InstructorFeedback,
			now, nullable(rec.InstructorID), nullable(rec.GroupID), nullable(rec.StudentID))
		out[i] = rec
	}

	if err := r.s.exec(ctx, q); err != nil {
		return nil, fmt.Errorf("create classes: %w", err)
	}
	return out, nil
}

func (r *classRepo) Get(ctx context.Context, id string) (*classes.Record, error) {
	sel, t := r.selectClasses()
	sel.Where(entsql.EQ(t.C("id"), id))

	var row classRow
	if err := r.s.get(ctx, &row, sel); err != nil {
		return nil, fmt.Errorf("get class %s: %w", id, err)
	}
	rec := row.toRecord()
	return &rec, nil
}

func (r *classRepo) List(ctx context.Context, f ClassFilter) ([]classes.Record, error) {
	sel, t := r.selectClasses()
	if f.StudentID != "" {
		sel.Where(entsql.EQ(t.C("student_id"), f.StudentID))
	}
	if f.GroupID != "" {
		sel.Where(entsql.EQ(t.C("group_id"), f.GroupID))
	}
	if f.InstructorID != "" {
		sel.Where(entsql.EQ(t.C("instructor_id"), f.InstructorID))
	}
	if f.DateFrom != "" {
		sel.Where(entsql.GTE(t.C("date"), f.DateFrom))
	}
	if f.DateTo != "" {
		sel.Where(entsql.LTE(t.C("date"), f.DateTo))
	}
	if f.Kind != "" {
		sel.Where(entsql.EQ(t.C("kind"), f.Kind))
	}
	return r.scan(ctx, sel)
}

func (r *classRepo) ForStudent(ctx context.Context, studentID, groupID string) ([]classes.Record, error) {
	sel, t := r.selectClasses()
	own := entsql.EQ(t.C("student_id"), studentID)
	if groupID == "" {
		sel.Where(own)
	} else {
		sel.Where(entsql.Or(
			own,
			entsql.And(
				entsql.EQ(t.C("group_id"), groupID),
				entsql.EQ(t.C("kind"), string(curriculum.KindTheory)),
			),
		))
	}
	return r.scan(ctx, sel)
}

func (r *classRepo) scan(ctx context.Context, sel *entsql.Selector) ([]classes.Record, error) {
	var rows []classRow
	if err := r.s.selectAll(ctx, &rows, sel); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	out := make([]classes.Record, len(rows))
	for i, row := range rows {
		out[i] = row.toRecord()
	}
	return out, nil
}

func (r *classRepo) RecordAttendance(ctx context.Context, id string, status classes.AttendanceStatus, completion classes.CompletionStatus, feedback string) error {
	q := r.s.builder().Update(classesTable.Name).
		Set("attendance_status", string(status)).
		Set("completion_status", string(completion)).
		Set("instructor_feedback", feedback).
		Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("record attendance %s: %w", id, err)
	}
	return nil
}

func (r *classRepo) SetCompletion(ctx context.Context, id string, completion classes.CompletionStatus) error {
	q := r.s.builder().Update(classesTable.Name).
		Set("completion_status", string(completion)).
		Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("set completion %s: %w", id, err)
	}
	return nil
}

func (r *classRepo) Delete(ctx context.Context, id string) error {
	q := r.s.builder().Delete(classesTable.Name).Where(entsql.EQ("id", id))
	if err := r.s.execOne(ctx, q); err != nil {
		return fmt.Errorf("delete class %s: %w", id, err)
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
