package schedule

import (
	"fmt"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/validate"
)

// Slot is a proposed class booking. It is either a TheorySlot for a group
// or a PracticalSlot for one or more students.
type Slot interface {
	Kind() curriculum.Kind
	Validate() error
	// ClassRecords expands the slot into the records to persist, without IDs.
	ClassRecords() []classes.Record
	Details() Timing
}

// Timing is the part of a slot shared by both kinds.
type Timing struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=15,max=480"`
	InstructorID    string `json:"instructor_id" validate:"notblank"`
	Title           string `json:"title" validate:"notblank"`
}

// EndTime is the computed end of the booking.
func (t Timing) EndTime() string {
	return EndTime(t.StartTime, t.DurationMinutes)
}

func (t Timing) record(kind curriculum.Kind) classes.Record {
	return classes.Record{
		Title:            t.Title,
		Kind:             kind,
		Date:             t.Date,
		StartTime:        t.StartTime,
		EndTime:          t.EndTime(),
		InstructorID:     t.InstructorID,
		CompletionStatus: classes.StatusScheduled,
	}
}

// TheorySlot books a classroom session for a whole group.
type TheorySlot struct {
	Timing
	GroupID string `json:"group_id" validate:"notblank"`
}

func (TheorySlot) Kind() curriculum.Kind { return curriculum.KindTheory }

func (s TheorySlot) Details() Timing { return s.Timing }

func (s TheorySlot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	return checkEnd(s.Timing.EndTime())
}

func (s TheorySlot) ClassRecords() []classes.Record {
	r := s.Timing.record(curriculum.KindTheory)
	r.GroupID = s.GroupID
	return []classes.Record{r}
}

// PracticalSlot books the same in-car session for each listed student.
type PracticalSlot struct {
	Timing
	StudentIDs []string `json:"student_ids" validate:"required,min=1,unique,dive,notblank"`
}

func (PracticalSlot) Kind() curriculum.Kind { return curriculum.KindPractical }

func (s PracticalSlot) Details() Timing { return s.Timing }

func (s PracticalSlot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	return checkEnd(s.Timing.EndTime())
}

func (s PracticalSlot) ClassRecords() []classes.Record {
	out := make([]classes.Record, 0, len(s.StudentIDs))
	for _, id := range s.StudentIDs {
		r := s.Timing.record(curriculum.KindPractical)
		r.StudentID = id
		out = append(out, r)
	}
	return out
}

func checkEnd(end string) error {
	if end == "" {
		return fmt.Errorf("class must end before midnight")
	}
	return nil
}

// SlotRequest is the flat wire form of a Slot.
type SlotRequest struct {
	Kind            string   `json:"kind"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	InstructorID    string   `json:"instructor_id"`
	Title           string   `json:"title"`
	GroupID         string   `json:"group_id,omitempty"`
	StudentIDs      []string `json:"student_ids,omitempty"`
}

// Slot converts the request into its typed form. Fields that do not belong
// to the requested kind are dropped.
func (r SlotRequest) Slot() (Slot, error) {
	t := Timing{
		Date:            r.Date,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		InstructorID:    r.InstructorID,
		Title:           r.Title,
	}
	switch curriculum.ParseKind(r.Kind) {
	case curriculum.KindTheory:
		return TheorySlot{Timing: t, GroupID: r.GroupID}, nil
	case curriculum.KindPractical:
		return PracticalSlot{Timing: t, StudentIDs: r.StudentIDs}, nil
	default:
		return nil, fmt.Errorf("unsupported class kind %q", r.Kind)
	}
}
