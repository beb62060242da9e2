package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/roster"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	EntityType string
	EntityID   string
}

// StudentFilter narrows student listings. Zero values match everything.
type StudentFilter struct {
	GroupID string
	Status  roster.StudentStatus
	Search  string // case-insensitive match on name, email or permit
}

// StudentRepo persists students.
type StudentRepo interface {
	Create(ctx context.Context, st *roster.Student) error
	Get(ctx context.Context, id string) (*roster.Student, error)
	List(ctx context.Context, f StudentFilter) ([]roster.Student, error)
	Update(ctx context.Context, st *roster.Student) error
	Delete(ctx context.Context, id string) error

	// AddHours adds delta to the stored completed hours of each student.
	AddHours(ctx context.Context, delta float64, ids ...string) error
	// SetHours overwrites a student's completed hours.
	SetHours(ctx context.Context, id string, hours float64) error
}

// InstructorRepo persists instructors.
type InstructorRepo interface {
	Create(ctx context.Context, in *roster.Instructor) error
	Get(ctx context.Context, id string) (*roster.Instructor, error)
	List(ctx context.Context, activeOnly bool) ([]roster.Instructor, error)
	Update(ctx context.Context, in *roster.Instructor) error
}

// GroupRepo persists student groups.
type GroupRepo interface {
	Create(ctx context.Context, g *roster.Group) error
	Get(ctx context.Context, id string) (*roster.Group, error)
	List(ctx context.Context) ([]roster.Group, error)
	Delete(ctx context.Context, id string) error
}

// ClassFilter narrows class listings. Zero values match everything.
type ClassFilter struct {
	StudentID    string
	GroupID      string
	InstructorID string
	DateFrom     string // inclusive, YYYY-MM-DD
	DateTo       string // inclusive, YYYY-MM-DD
	Kind         string
}

// ClassRepo persists class records.
type ClassRepo interface {
	// Create inserts the records in a single statement, assigning IDs.
	Create(ctx context.Context, recs []classes.Record) ([]classes.Record, error)
	Get(ctx context.Context, id string) (*classes.Record, error)
	List(ctx context.Context, f ClassFilter) ([]classes.Record, error)

	// ForStudent returns the student's practical classes plus the theory
	// classes of groupID, when non-empty.
	ForStudent(ctx context.Context, studentID, groupID string) ([]classes.Record, error)

	// RecordAttendance stores attendance, completion and feedback.
	RecordAttendance(ctx context.Context, id string, status classes.AttendanceStatus, completion classes.CompletionStatus, feedback string) error
	SetCompletion(ctx context.Context, id string, completion classes.CompletionStatus) error
	Delete(ctx context.Context, id string) error
}

// ActivityEvent is one entry of the append-only audit trail.
type ActivityEvent struct {
	Sequence   int64     `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
}

// ActivityRepo provides append and query access to the audit trail.
type ActivityRepo interface {
	// Append assigns the next global sequence and a timestamp if unset.
	Append(ctx context.Context, ev *ActivityEvent) error
	// Query returns events newest first.
	Query(ctx context.Context, opts QueryOpts) ([]ActivityEvent, error)
}

// SnapshotData captures a student's derived progress at a point in time.
type SnapshotData struct {
	Version               int     `json:"version"`
	PercentComplete       int     `json:"percent_complete"`
	CurrentPhase          int     `json:"current_phase"`
	CompletedHours        float64 `json:"completed_hours"`
	CompletedSessionCount int     `json:"completed_session_count"`
}

// Snapshot is a point-in-time capture of a student's progress.
type Snapshot struct {
	ID        int
	StudentID string
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the student's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, studentID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots of a student.
	Prune(ctx context.Context, studentID string, keep int) error
}

// SettingsRepo stores string key/value settings.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}
