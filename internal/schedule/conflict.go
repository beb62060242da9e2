// Package schedule holds the pure scheduling rules used when booking
// classes: instructor conflict detection, week-grid layout, and the
// partition of curriculum titles into bookable and already-taken.
package schedule

import (
	"fmt"
	"strings"

	"github.com/abhisek/drivedesk/internal/classes"
)

// OverlapMode selects how instructor conflicts are detected.
type OverlapMode string

const (
	// ModeExact flags only classes with an identical start time.
	ModeExact OverlapMode = "exact"
	// ModeOverlap flags any intersecting time range.
	ModeOverlap OverlapMode = "overlap"
)

// ParseOverlapMode parses a settings value. Anything other than
// "overlap" yields ModeExact.
func ParseOverlapMode(s string) OverlapMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeOverlap)) {
		return ModeOverlap
	}
	return ModeExact
}

// FindConflict returns the first record booked for the same instructor,
// date and start time. Durations are not considered: a class ending at
// 10:00 does not conflict with one starting at 10:00, and neither does
// 09:00-11:00 with 10:00-11:00.
func FindConflict(existing []classes.Record, instructorID, date, startTime string) *classes.Record {
	for i := range existing {
		r := &existing[i]
		if r.InstructorID == instructorID && r.Date == date && r.StartTime == startTime {
			return r
		}
	}
	return nil
}

// FindOverlap returns the first record for the same instructor and date
// whose [start, end) range intersects the proposed one. Records with
// unparseable times fall back to the exact start-time comparison.
func FindOverlap(existing []classes.Record, instructorID, date, start, end string) *classes.Record {
	ps, okStart := ParseHour(start)
	pe, okEnd := ParseHour(end)
	for i := range existing {
		r := &existing[i]
		if r.InstructorID != instructorID || r.Date != date {
			continue
		}
		rs, ok1 := ParseHour(r.StartTime)
		re, ok2 := ParseHour(r.EndTime)
		if !okStart || !okEnd || !ok1 || !ok2 {
			if r.StartTime == start {
				return r
			}
			continue
		}
		if ps < re && rs < pe {
			return r
		}
	}
	return nil
}

// Check runs the conflict rule selected by mode.
func Check(mode OverlapMode, existing []classes.Record, instructorID, date, start, end string) *classes.Record {
	if mode == ModeOverlap {
		return FindOverlap(existing, instructorID, date, start, end)
	}
	return FindConflict(existing, instructorID, date, start)
}

// ConflictError reports an instructor double-booking.
type ConflictError struct {
	Existing classes.Record
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("instructor already booked on %s at %s (%q)", e.Existing.Date, e.Existing.StartTime, e.Existing.Title)
}

// TitleTakenError reports a curriculum unit already scheduled or completed
// for the same group or student.
type TitleTakenError struct {
	Title string
	Owner string
}

func (e *TitleTakenError) Error() string {
	return fmt.Sprintf("%q is already scheduled for %s", e.Title, e.Owner)
}
