// Package school is the application layer of the console and API. It
// loads rows from the store, runs them through the reconciliation,
// progress and scheduling engines, and records every change in the
// activity log.
package school

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/drivedesk/internal/logging"
	"github.com/abhisek/drivedesk/internal/store"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrClassNotFound      = errors.New("class not found")

	// ErrInvalid is wrapped by errors caused by bad caller input that is
	// not covered by struct validation.
	ErrInvalid = errors.New("invalid input")
)

// snapshotsKept is the number of progress snapshots retained per student.
const snapshotsKept = 20

// Repos groups the persistence collaborators of the service.
type Repos struct {
	Students    store.StudentRepo
	Instructors store.InstructorRepo
	Groups      store.GroupRepo
	Classes     store.ClassRepo
	Activity    store.ActivityRepo
	Snapshots   store.SnapshotRepo
	Settings    store.SettingsRepo
}

// ReposFrom returns the repos backed by s.
func ReposFrom(s *store.Store) Repos {
	return Repos{
		Students:    s.StudentRepo(),
		Instructors: s.InstructorRepo(),
		Groups:      s.GroupRepo(),
		Classes:     s.ClassRepo(),
		Activity:    s.ActivityRepo(),
		Snapshots:   s.SnapshotRepo(),
		Settings:    s.SettingsRepo(),
	}
}

// Service implements the school operations.
type Service struct {
	repos Repos
	log   *logging.Logger
	actor string
	now   func() time.Time
}

// NewService creates a Service. A nil logger discards output.
func NewService(repos Repos, log *logging.Logger, actor string) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		repos: repos,
		log:   log,
		actor: actor,
		now:   time.Now,
	}
}

// Activity returns audit events, newest first.
func (s *Service) Activity(ctx context.Context, opts store.QueryOpts) ([]store.ActivityEvent, error) {
	evs, err := s.repos.Activity.Query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	return evs, nil
}

// audit appends an activity event. Failures are logged, never returned:
// the change itself has already been committed.
func (s *Service) audit(ctx context.Context, action, entityType, entityID, detail string) {
	s.log.Debug("activity", action, entityType, entityID)
	if s.repos.Activity == nil {
		return
	}
	ev := &store.ActivityEvent{
		Timestamp:  s.now().UTC(),
		Actor:      s.actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.repos.Activity.Append(ctx, ev); err != nil {
		s.log.Warn("append activity event failed", err, map[string]any{
			"action":    action,
			"entity_id": entityID,
		})
	}
}

// notFound maps store.ErrNotFound to the given domain error.
func notFound(err, target error) error {
	if errors.Is(err, store.ErrNotFound) {
		return target
	}
	return err
}
