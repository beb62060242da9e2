package classes

import (
	"time"

	"github.com/abhisek/drivedesk/internal/curriculum"
)

// AttendanceStatus is the check-in outcome recorded for a class.
type AttendanceStatus string

const (
	AttendanceCompleted AttendanceStatus = "completed"
	AttendanceAbsent    AttendanceStatus = "absent"
	AttendanceLate      AttendanceStatus = "late"
	AttendanceExcused   AttendanceStatus = "excused"
)

// AllAttendanceStatuses returns the statuses accepted at check-in.
func AllAttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{AttendanceCompleted, AttendanceAbsent, AttendanceLate, AttendanceExcused}
}

// CompletionStatus is the lifecycle state of a scheduled class.
type CompletionStatus string

const (
	StatusScheduled CompletionStatus = "scheduled"
	StatusCompleted CompletionStatus = "completed"
	StatusCancelled CompletionStatus = "cancelled"
)

// Record is a scheduled or completed class as stored by the scheduler.
// Date is "YYYY-MM-DD" and times are "HH:MM"; they stay strings so that
// malformed values sort first instead of failing.
type Record struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Kind               curriculum.Kind   `json:"kind"`
	Date               string            `json:"date,omitempty"`
	StartTime          string            `json:"start_time,omitempty"`
	EndTime            string            `json:"end_time,omitempty"`
	InstructorID       string            `json:"instructor_id,omitempty"`
	InstructorName     string            `json:"instructor_name,omitempty"`
	GroupID            string            `json:"group_id,omitempty"`
	StudentID          string            `json:"student_id,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	AttendanceStatus   *AttendanceStatus `json:"attendance_status,omitempty"`
	CompletionStatus   CompletionStatus  `json:"completion_status"`
	InstructorFeedback string            `json:"instructor_feedback,omitempty"`
}

// IsCompleted reports whether the class counts as done: the attendance
// status wins when recorded, otherwise the completion status decides.
func (r Record) IsCompleted() bool {
	if r.AttendanceStatus != nil {
		return *r.AttendanceStatus == AttendanceCompleted
	}
	return r.CompletionStatus == StatusCompleted
}

// IsCancelled reports whether the class was cancelled.
func (r Record) IsCancelled() bool {
	return r.CompletionStatus == StatusCancelled
}

// Less orders records by (date, start time). A date or time that does not
// parse compares as "", so malformed records sort first.
func Less(a, b Record) bool {
	ad, bd := dateKey(a.Date), dateKey(b.Date)
	if ad != bd {
		return ad < bd
	}
	return timeKey(a.StartTime) < timeKey(b.StartTime)
}

func dateKey(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func timeKey(s string) string {
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.TimeOnly)
		}
	}
	return ""
}

// Attendance returns a pointer to s, for building records.
func Attendance(s AttendanceStatus) *AttendanceStatus {
	return &s
}
