package school

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/store"
)

// Schedule books a slot: one class for a theory group, or one class per
// student for a practical session. It fails with *schedule.TitleTakenError
// when the unit is already booked for the group or a student, and with
// *schedule.ConflictError when the instructor is already booked.
func (s *Service) Schedule(ctx context.Context, slot schedule.Slot) ([]classes.Record, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	d := slot.Details()

	if _, err := s.repos.Instructors.Get(ctx, d.InstructorID); err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	switch sl := slot.(type) {
	case schedule.TheorySlot:
		if _, err := s.repos.Groups.Get(ctx, sl.GroupID); err != nil {
			return nil, notFound(err, ErrGroupNotFound)
		}
	case schedule.PracticalSlot:
		for _, id := range sl.StudentIDs {
			if _, err := s.repos.Students.Get(ctx, id); err != nil {
				return nil, notFound(err, ErrStudentNotFound)
			}
		}
	}

	if err := s.checkTitle(ctx, slot); err != nil {
		return nil, err
	}
	existing, err := s.CheckConflict(ctx, d.InstructorID, d.Date, d.StartTime, d.EndTime())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &schedule.ConflictError{Existing: *existing}
	}

	created, err := s.repos.Classes.Create(ctx, slot.ClassRecords())
	if err != nil {
		return nil, err
	}
	for _, c := range created {
		s.audit(ctx, "class.scheduled", "class", c.ID,
			fmt.Sprintf("%s %s %s-%s", c.Title, c.Date, c.StartTime, c.EndTime))
	}
	s.log.Info("class scheduled", d.Title, d.Date, d.StartTime)
	return created, nil
}

// checkTitle rejects a slot whose title is already booked for its owner.
func (s *Service) checkTitle(ctx context.Context, slot schedule.Slot) error {
	title := strings.TrimSpace(slot.Details().Title)
	switch sl := slot.(type) {
	case schedule.TheorySlot:
		recs, err := s.repos.Classes.List(ctx, store.ClassFilter{GroupID: sl.GroupID, Kind: string(curriculum.KindTheory)})
		if err != nil {
			return err
		}
		if titleIn(title, schedule.TakenTitles(recs, curriculum.KindTheory, sl.GroupID, nil)) {
			return &schedule.TitleTakenError{Title: title, Owner: "group " + sl.GroupID}
		}
	case schedule.PracticalSlot:
		byStudent, err := s.practicalClasses(ctx, sl.StudentIDs)
		if err != nil {
			return err
		}
		for _, id := range sl.StudentIDs {
			taken := schedule.TakenTitles(byStudent[id], curriculum.KindPractical, "", []string{id})
			if titleIn(title, taken) {
				return &schedule.TitleTakenError{Title: title, Owner: "student " + id}
			}
		}
	}
	return nil
}

// practicalClasses loads each student's practical classes concurrently.
func (s *Service) practicalClasses(ctx context.Context, studentIDs []string) (map[string][]classes.Record, error) {
	out := make(map[string][]classes.Record, len(studentIDs))
	results := make([][]classes.Record, len(studentIDs))
	loads := make([]schedule.Load, len(studentIDs))
	for i, id := range studentIDs {
		loads[i] = schedule.Load{Name: "student " + id, Run: func(ctx context.Context) error {
			recs, err := s.repos.Classes.List(ctx, store.ClassFilter{StudentID: id, Kind: string(curriculum.KindPractical)})
			results[i] = recs
			return err
		}}
	}
	if err := schedule.LoadAll(ctx, loads...); err != nil {
		return nil, err
	}
	for i, id := range studentIDs {
		out[id] = results[i]
	}
	return out, nil
}

func titleIn(title string, taken []string) bool {
	for _, t := range taken {
		if strings.EqualFold(strings.TrimSpace(t), title) {
			return true
		}
	}
	return false
}

// CheckConflict returns the instructor's existing class that clashes with
// the proposed time, using the configured overlap mode. Cancelled classes
// are ignored.
func (s *Service) CheckConflict(ctx context.Context, instructorID, date, start, end string) (*classes.Record, error) {
	mode, err := s.OverlapMode(ctx)
	if err != nil {
		return nil, err
	}
	day, err := s.repos.Classes.List(ctx, store.ClassFilter{InstructorID: instructorID, DateFrom: date, DateTo: date})
	if err != nil {
		return nil, err
	}
	return schedule.Check(mode, active(day), instructorID, date, start, end), nil
}

// TitleOptions partitions the curriculum titles of kind into those still
// bookable for the group (theory) or students (practical) and those taken.
func (s *Service) TitleOptions(ctx context.Context, kind curriculum.Kind, groupID string, studentIDs []string) (schedule.Partition, error) {
	var recs []classes.Record
	switch kind {
	case curriculum.KindTheory:
		if groupID != "" {
			var err error
			recs, err = s.repos.Classes.List(ctx, store.ClassFilter{GroupID: groupID, Kind: string(kind)})
			if err != nil {
				return schedule.Partition{}, err
			}
		}
	case curriculum.KindPractical:
		byStudent, err := s.practicalClasses(ctx, studentIDs)
		if err != nil {
			return schedule.Partition{}, err
		}
		for _, id := range studentIDs {
			recs = append(recs, byStudent[id]...)
		}
	default:
		return schedule.Partition{}, fmt.Errorf("%w: %s classes are not scheduled", ErrInvalid, kind)
	}
	return schedule.TitleOptions(recs, kind, groupID, studentIDs), nil
}

// Options holds the choices offered by the scheduling form.
type Options struct {
	Instructors []roster.Instructor `json:"instructors"`
	Groups      []roster.Group      `json:"groups"`
	Students    []roster.Student    `json:"students"`
}

// SchedulingOptions loads active instructors, groups and active students
// concurrently. On partial failure the loaded lists are returned together
// with a *schedule.LoadError naming the failed loads.
func (s *Service) SchedulingOptions(ctx context.Context) (*Options, error) {
	var o Options
	err := schedule.LoadAll(ctx,
		schedule.Load{Name: "instructors", Run: func(ctx context.Context) (err error) {
			o.Instructors, err = s.repos.Instructors.List(ctx, true)
			return err
		}},
		schedule.Load{Name: "groups", Run: func(ctx context.Context) (err error) {
			o.Groups, err = s.repos.Groups.List(ctx)
			return err
		}},
		schedule.Load{Name: "students", Run: func(ctx context.Context) (err error) {
			o.Students, err = s.repos.Students.List(ctx, store.StudentFilter{Status: roster.StudentActive})
			return err
		}},
	)
	if err != nil {
		s.log.Warn("scheduling options partially loaded", err)
	}
	return &o, err
}
