package school

import (
	"context"
	"fmt"
	"slices"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/store"
)

// CheckIn records attendance for a class. A completed check-in marks the
// class completed and credits its hours to every affected student: the
// whole group for theory, the booked student for practical. Moving a
// completed class to another status reverses the credit.
func (s *Service) CheckIn(ctx context.Context, classID string, status classes.AttendanceStatus, feedback string) (*classes.Record, error) {
	if !slices.Contains(classes.AllAttendanceStatuses(), status) {
		return nil, fmt.Errorf("%w: attendance status %q", ErrInvalid, status)
	}
	rec, err := s.repos.Classes.Get(ctx, classID)
	if err != nil {
		return nil, notFound(err, ErrClassNotFound)
	}
	if rec.IsCancelled() {
		return nil, fmt.Errorf("%w: class %s is cancelled", ErrInvalid, classID)
	}

	wasDone := rec.IsCompleted()
	completion := rec.CompletionStatus
	switch {
	case status == classes.AttendanceCompleted:
		completion = classes.StatusCompleted
	case completion == classes.StatusCompleted:
		completion = classes.StatusScheduled
	}
	if err := s.repos.Classes.RecordAttendance(ctx, classID, status, completion, feedback); err != nil {
		return nil, notFound(err, ErrClassNotFound)
	}
	rec.AttendanceStatus = classes.Attendance(status)
	rec.CompletionStatus = completion
	rec.InstructorFeedback = feedback

	var delta float64
	switch nowDone := rec.IsCompleted(); {
	case nowDone && !wasDone:
		delta = rec.Kind.Hours()
	case !nowDone && wasDone:
		delta = -rec.Kind.Hours()
	}

	students, err := s.attendees(ctx, *rec)
	if err != nil {
		return nil, err
	}
	if delta != 0 && len(students) > 0 {
		if err := s.repos.Students.AddHours(ctx, delta, students...); err != nil {
			return nil, fmt.Errorf("credit hours: %w", err)
		}
	}
	for _, id := range students {
		if err := s.snapshot(ctx, id); err != nil {
			s.log.Warn("progress snapshot failed", err, map[string]any{"student_id": id})
		}
	}

	s.audit(ctx, "class.checked_in", "class", classID, string(status))
	return rec, nil
}

// attendees returns the IDs of the students a class counts towards.
func (s *Service) attendees(ctx context.Context, rec classes.Record) ([]string, error) {
	if rec.Kind != curriculum.KindTheory {
		if rec.StudentID == "" {
			return nil, nil
		}
		return []string{rec.StudentID}, nil
	}
	if rec.GroupID == "" {
		return nil, nil
	}
	sts, err := s.repos.Students.List(ctx, store.StudentFilter{GroupID: rec.GroupID})
	if err != nil {
		return nil, fmt.Errorf("list group students: %w", err)
	}
	ids := make([]string, len(sts))
	for i, st := range sts {
		ids[i] = st.ID
	}
	return ids, nil
}

// CancelClass marks a class cancelled. Hours credited for it are reversed.
func (s *Service) CancelClass(ctx context.Context, classID string) error {
	rec, err := s.repos.Classes.Get(ctx, classID)
	if err != nil {
		return notFound(err, ErrClassNotFound)
	}
	if rec.IsCompleted() {
		students, err := s.attendees(ctx, *rec)
		if err != nil {
			return err
		}
		if len(students) > 0 {
			if err := s.repos.Students.AddHours(ctx, -rec.Kind.Hours(), students...); err != nil {
				return fmt.Errorf("reverse hours: %w", err)
			}
		}
	}
	if err := s.repos.Classes.SetCompletion(ctx, classID, classes.StatusCancelled); err != nil {
		return notFound(err, ErrClassNotFound)
	}
	s.audit(ctx, "class.cancelled", "class", classID, rec.Title)
	return nil
}
