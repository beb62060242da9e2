// Package reconcile merges a student's class records into the fixed
// curriculum template, producing the ordered session list shown on the
// student profile.
package reconcile

import (
	"slices"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
)

// Session is one curriculum unit as seen for a particular student: either
// backed by a real class record or still a pending template placeholder.
type Session struct {
	Ordinal            int                       `json:"ordinal"`
	Phase              curriculum.Phase          `json:"phase"`
	Name               string                    `json:"name"`
	Kind               curriculum.Kind           `json:"kind"`
	Completed          bool                      `json:"completed"`
	Extra              bool                      `json:"extra,omitempty"`
	SourceClassID      string                    `json:"source_class_id,omitempty"`
	Date               string                    `json:"date,omitempty"`
	StartTime          string                    `json:"start_time,omitempty"`
	EndTime            string                    `json:"end_time,omitempty"`
	InstructorName     string                    `json:"instructor_name,omitempty"`
	Notes              string                    `json:"notes,omitempty"`
	InstructorFeedback string                    `json:"instructor_feedback,omitempty"`
	AttendanceStatus   *classes.AttendanceStatus `json:"attendance_status,omitempty"`
}

// Scheduled reports whether the session is backed by a class record.
func (s Session) Scheduled() bool {
	return s.SourceClassID != ""
}

// Reconcile maps records onto tmpl by normalized title. Each template slot
// claims the earliest unused record with the same key; records left over
// are appended in chronological order with ordinals continuing after the
// template. The inputs are not modified.
func Reconcile(records []classes.Record, tmpl []curriculum.Session) []Session {
	buckets := make(map[string][]int, len(records))
	for i, r := range records {
		key := curriculum.NormalizeKey(r.Title)
		buckets[key] = append(buckets[key], i)
	}
	for _, idx := range buckets {
		slices.SortStableFunc(idx, func(a, b int) int {
			return compareRecords(records[a], records[b])
		})
	}

	used := make([]bool, len(records))
	out := make([]Session, 0, len(tmpl)+len(records))

	for _, ts := range tmpl {
		s := Session{
			Ordinal: ts.Ordinal,
			Phase:   ts.Phase,
			Name:    ts.Name,
			Kind:    ts.Kind,
		}
		for _, i := range buckets[curriculum.NormalizeKey(ts.Name)] {
			if used[i] {
				continue
			}
			used[i] = true
			fill(&s, records[i])
			break
		}
		out = append(out, s)
	}

	var extras []int
	for i := range records {
		if !used[i] {
			extras = append(extras, i)
		}
	}
	slices.SortStableFunc(extras, func(a, b int) int {
		return compareRecords(records[a], records[b])
	})

	next := len(tmpl) + 1
	for _, i := range extras {
		r := records[i]
		s := Session{
			Ordinal: next,
			Phase:   curriculum.ClassifyPhase(r.Title, r.Kind),
			Name:    r.Title,
			Kind:    r.Kind,
			Extra:   true,
		}
		fill(&s, r)
		out = append(out, s)
		next++
	}

	return out
}

// ReconcileTemplate reconciles records against the built-in curriculum.
func ReconcileTemplate(records []classes.Record) []Session {
	return Reconcile(records, curriculum.Template())
}

func fill(s *Session, r classes.Record) {
	s.SourceClassID = r.ID
	s.Date = r.Date
	s.StartTime = r.StartTime
	s.EndTime = r.EndTime
	s.InstructorName = r.InstructorName
	s.Notes = r.Notes
	s.InstructorFeedback = r.InstructorFeedback
	if r.AttendanceStatus != nil {
		status := *r.AttendanceStatus
		s.AttendanceStatus = &status
	}
	s.Completed = r.IsCompleted()
}

func compareRecords(a, b classes.Record) int {
	switch {
	case classes.Less(a, b):
		return -1
	case classes.Less(b, a):
		return 1
	default:
		return 0
	}
}
