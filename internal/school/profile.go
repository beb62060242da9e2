package school

import (
	"context"
	"fmt"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/progress"
	"github.com/abhisek/drivedesk/internal/reconcile"
	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/store"
)

// Profile is a student's reconciled curriculum and progress.
type Profile struct {
	Student  roster.Student      `json:"student"`
	Sessions []reconcile.Session `json:"sessions"`
	Summary  progress.Summary    `json:"summary"`
}

// Profile loads a student with their classes, reconciles them against the
// curriculum template and computes progress. The student and their own
// classes load concurrently; group theory classes follow once the group is
// known.
func (s *Service) Profile(ctx context.Context, studentID string) (*Profile, error) {
	var (
		st  *roster.Student
		own []classes.Record
	)
	err := schedule.LoadAll(ctx,
		schedule.Load{Name: "student", Run: func(ctx context.Context) error {
			var err error
			st, err = s.repos.Students.Get(ctx, studentID)
			return err
		}},
		schedule.Load{Name: "classes", Run: func(ctx context.Context) error {
			var err error
			own, err = s.repos.Classes.List(ctx, store.ClassFilter{StudentID: studentID})
			return err
		}},
	)
	if ferr := schedule.Failed(err, "student"); ferr != nil {
		return nil, notFound(ferr, ErrStudentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	records := active(own)
	if st.GroupID != "" {
		group, err := s.repos.Classes.List(ctx, store.ClassFilter{
			GroupID: st.GroupID,
			Kind:    string(curriculum.KindTheory),
		})
		if err != nil {
			return nil, fmt.Errorf("load group classes: %w", err)
		}
		records = append(records, active(group)...)
	}

	sessions := reconcile.ReconcileTemplate(records)
	hours := st.CompletedHours
	if hours <= 0 {
		hours = progress.HoursFromSessions(sessions)
	}
	return &Profile{
		Student:  *st,
		Sessions: sessions,
		Summary:  progress.Compute(sessions, hours, st.PhaseOverride()),
	}, nil
}

// RecomputeHours replaces a student's stored hours with the hours earned by
// their completed template sessions.
func (s *Service) RecomputeHours(ctx context.Context, studentID string) (float64, error) {
	p, err := s.Profile(ctx, studentID)
	if err != nil {
		return 0, err
	}
	hours := progress.HoursFromSessions(p.Sessions)
	if err := s.repos.Students.SetHours(ctx, studentID, hours); err != nil {
		return 0, notFound(err, ErrStudentNotFound)
	}
	s.audit(ctx, "student.hours_recomputed", "student", studentID,
		fmt.Sprintf("%.1f -> %.1f", p.Student.CompletedHours, hours))
	return hours, nil
}

// snapshot stores the student's current progress.
func (s *Service) snapshot(ctx context.Context, studentID string) error {
	if s.repos.Snapshots == nil {
		return nil
	}
	p, err := s.Profile(ctx, studentID)
	if err != nil {
		return err
	}
	snap := &store.Snapshot{
		StudentID: studentID,
		Timestamp: s.now().UTC(),
		Data: store.SnapshotData{
			Version:               1,
			PercentComplete:       p.Summary.PercentComplete,
			CurrentPhase:          int(p.Summary.CurrentPhase),
			CompletedHours:        p.Summary.CompletedHours,
			CompletedSessionCount: p.Summary.CompletedSessionCount,
		},
	}
	if err := s.repos.Snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return s.repos.Snapshots.Prune(ctx, studentID, snapshotsKept)
}
