package school

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/store"
	"github.com/abhisek/drivedesk/internal/validate"
)

const monday = "2026-03-02"

type fixture struct {
	svc        *Service
	st         *store.Store
	instructor *roster.Instructor
	group      *roster.Group
	alice      *roster.Student
	bob        *roster.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		svc: NewService(ReposFrom(st), nil, "tester"),
		st:  st,
	}
	ctx := context.Background()
	f.instructor = &roster.Instructor{FirstName: "Marie", LastName: "Tremblay", Active: true}
	require.NoError(t, f.svc.AddInstructor(ctx, f.instructor))
	f.group = &roster.Group{Name: "Spring cohort", StartDate: monday}
	require.NoError(t, f.svc.AddGroup(ctx, f.group))
	f.alice = &roster.Student{FirstName: "Alice", LastName: "Roy", GroupID: f.group.ID}
	require.NoError(t, f.svc.AddStudent(ctx, f.alice))
	f.bob = &roster.Student{FirstName: "Bob", LastName: "Gagnon", GroupID: f.group.ID}
	require.NoError(t, f.svc.AddStudent(ctx, f.bob))
	return f
}

func (f *fixture) theory(title, date, start string) schedule.TheorySlot {
	return schedule.TheorySlot{
		Timing: schedule.Timing{
			Date: date, StartTime: start, DurationMinutes: 120,
			InstructorID: f.instructor.ID, Title: title,
		},
		GroupID: f.group.ID,
	}
}

func (f *fixture) practical(title, date, start string, students ...string) schedule.PracticalSlot {
	return schedule.PracticalSlot{
		Timing: schedule.Timing{
			Date: date, StartTime: start, DurationMinutes: 60,
			InstructorID: f.instructor.ID, Title: title,
		},
		StudentIDs: students,
	}
}

func TestProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestProfile_MergesGroupAndOwnClasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.theory("The Vehicle", monday, "09:00"))
	require.NoError(t, err)
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "14:00", f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, f.st.StudentRepo().SetHours(ctx, f.alice.ID, 10))

	p, err := f.svc.Profile(ctx, f.alice.ID)
	require.NoError(t, err)

	require.Len(t, p.Sessions, curriculum.Len())
	assert.True(t, p.Sessions[0].Scheduled())
	assert.False(t, p.Sessions[0].Completed)
	inCar, ok := curriculum.Lookup("In-Car Session 1")
	require.True(t, ok)
	assert.True(t, p.Sessions[inCar.Ordinal-1].Scheduled())
	assert.Equal(t, 26, p.Summary.PercentComplete)
	assert.Equal(t, curriculum.Phase1, p.Summary.CurrentPhase)

	// Bob shares the group theory class but not Alice's drive.
	p, err = f.svc.Profile(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, p.Sessions[0].Scheduled())
	assert.False(t, p.Sessions[inCar.Ordinal-1].Scheduled())
}

func TestProfile_RebookedClassClaimsSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Schedule(ctx, f.theory("The Vehicle", monday, "09:00"))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelClass(ctx, first[0].ID))

	rebooked, err := f.svc.Schedule(ctx, f.theory("The Vehicle", "2026-03-09", "09:00"))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, rebooked[0].ID, classes.AttendanceCompleted, "")
	require.NoError(t, err)
	require.NoError(t, f.st.StudentRepo().SetHours(ctx, f.alice.ID, 0))

	p, err := f.svc.Profile(ctx, f.alice.ID)
	require.NoError(t, err)

	require.Len(t, p.Sessions, curriculum.Len())
	for _, s := range p.Sessions {
		assert.False(t, s.Extra, "unexpected extra session %q", s.Name)
	}
	assert.Equal(t, rebooked[0].ID, p.Sessions[0].SourceClassID)
	assert.True(t, p.Sessions[0].Completed)
	assert.Equal(t, "2026-03-09", p.Sessions[0].Date)
	assert.InDelta(t, 2.0, p.Summary.CompletedHours, 1e-9)

	hours, err := f.svc.RecomputeHours(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, hours, 1e-9)
}

func TestSchedule_TheoryCreatesOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Schedule(ctx, f.theory("The Driver", monday, "09:00"))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
	assert.Equal(t, "11:00", created[0].EndTime)
	assert.Equal(t, f.group.ID, created[0].GroupID)
	assert.Equal(t, classes.StatusScheduled, created[0].CompletionStatus)

	evs, err := f.svc.Activity(ctx, store.QueryOpts{EntityType: "class"})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "class.scheduled", evs[0].Action)
	assert.Equal(t, "tester", evs[0].Actor)
}

func TestSchedule_PracticalOnePerStudent(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Schedule(context.Background(),
		f.practical("In-Car Session 2", monday, "10:00", f.alice.ID, f.bob.ID))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.ElementsMatch(t, []string{f.alice.ID, f.bob.ID}, []string{created[0].StudentID, created[1].StudentID})
}

func TestSchedule_TitleTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "10:00", f.alice.ID))
	require.NoError(t, err)

	_, err = f.svc.Schedule(ctx, f.practical("in-car session 1", "2026-03-03", "10:00", f.bob.ID, f.alice.ID))
	var taken *schedule.TitleTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "student "+f.alice.ID, taken.Owner)

	_, err = f.svc.Schedule(ctx, f.theory("Evaluation", monday, "18:00"))
	require.NoError(t, err)
	_, err = f.svc.Schedule(ctx, f.theory("Evaluation", "2026-03-04", "18:00"))
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "group "+f.group.ID, taken.Owner)
}

func TestSchedule_CancelledClassFreesTitleAndSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Schedule(ctx, f.practical("In-Car Session 3", monday, "10:00", f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelClass(ctx, created[0].ID))

	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 3", monday, "10:00", f.alice.ID))
	assert.NoError(t, err)
}

func TestSchedule_InstructorConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "10:00", f.alice.ID))
	require.NoError(t, err)

	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "10:00", f.bob.ID))
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, f.alice.ID, conflict.Existing.StudentID)

	// Exact mode ignores a partial overlap.
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 2", monday, "10:30", f.bob.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.SetSetting(ctx, SettingOverlapCheck, "overlap"))
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 4", monday, "09:30", f.alice.ID))
	require.ErrorAs(t, err, &conflict)

	// Back-to-back is never a conflict.
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 4", monday, "11:30", f.alice.ID))
	assert.NoError(t, err)
}

func TestSchedule_Validation(t *testing.T) {
	f := newFixture(t)
	slot := f.theory("The Vehicle", "", "9am")
	_, err := f.svc.Schedule(context.Background(), slot)
	require.Error(t, err)
	fields := validate.Fields(err)
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "start_time")
}

func TestSchedule_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.theory("The Vehicle", monday, "09:00")
	slot.InstructorID = "nobody"
	_, err := f.svc.Schedule(ctx, slot)
	assert.ErrorIs(t, err, ErrInstructorNotFound)

	slot = f.theory("The Vehicle", monday, "09:00")
	slot.GroupID = "nogroup"
	_, err = f.svc.Schedule(ctx, slot)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "09:00", "ghost"))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestCheckIn_TheoryCreditsGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Schedule(ctx, f.theory("The Vehicle", monday, "09:00"))
	require.NoError(t, err)
	id := created[0].ID

	rec, err := f.svc.CheckIn(ctx, id, classes.AttendanceCompleted, "good session")
	require.NoError(t, err)
	assert.Equal(t, classes.StatusCompleted, rec.CompletionStatus)

	for _, sid := range []string{f.alice.ID, f.bob.ID} {
		st, err := f.svc.Student(ctx, sid)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, st.CompletedHours, 1e-9)
	}

	// A repeated completed check-in does not credit twice.
	_, err = f.svc.CheckIn(ctx, id, classes.AttendanceCompleted, "")
	require.NoError(t, err)
	st, err := f.svc.Student(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, st.CompletedHours, 1e-9)

	// Correcting to absent reverses the credit.
	rec, err = f.svc.CheckIn(ctx, id, classes.AttendanceAbsent, "")
	require.NoError(t, err)
	assert.Equal(t, classes.StatusScheduled, rec.CompletionStatus)
	st, err = f.svc.Student(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, st.CompletedHours, 1e-9)
}

func TestCheckIn_PracticalSnapshotsProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "10:00", f.alice.ID))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, created[0].ID, classes.AttendanceCompleted, "")
	require.NoError(t, err)

	st, err := f.svc.Student(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, st.CompletedHours, 1e-9)

	snap, err := f.st.SnapshotRepo().Latest(ctx, f.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Data.PercentComplete)
	assert.Equal(t, 1, snap.Data.CompletedSessionCount)

	bob, err := f.svc.Student(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Zero(t, bob.CompletedHours)

	evs, err := f.svc.Activity(ctx, store.QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "class.checked_in", evs[0].Action)
}

func TestCheckIn_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "missing", classes.AttendanceCompleted, "")
	assert.ErrorIs(t, err, ErrClassNotFound)

	_, err = f.svc.CheckIn(ctx, "missing", classes.AttendanceStatus("present"), "")
	assert.ErrorIs(t, err, ErrInvalid)

	created, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "10:00", f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelClass(ctx, created[0].ID))
	_, err = f.svc.CheckIn(ctx, created[0].ID, classes.AttendanceCompleted, "")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAgenda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "09:00", f.alice.ID))
	require.NoError(t, err)
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 2", "2026-03-04", "21:30", f.alice.ID))
	require.NoError(t, err)
	cancelled, err := f.svc.Schedule(ctx, f.practical("In-Car Session 3", "2026-03-05", "10:00", f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelClass(ctx, cancelled[0].ID))
	_, err = f.svc.Schedule(ctx, f.practical("In-Car Session 4", "2026-03-09", "10:00", f.alice.ID))
	require.NoError(t, err)

	// Any day of the week resolves to the same grid.
	week, err := f.svc.Agenda(ctx, time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, monday, week.Days[0].Date)
	require.Len(t, week.Days[0].Classes, 1)
	assert.InDelta(t, 40.0, week.Days[0].Classes[0].Position.TopPx, 1e-9)
	assert.Empty(t, week.Days[3].Classes)
	require.Len(t, week.OutOfRange, 1)
	assert.Equal(t, "In-Car Session 2", week.OutOfRange[0].Title)

	day, err := f.svc.DayClasses(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Len(t, day, 1)
}

func TestAgenda_UsesConfiguredGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SetSetting(ctx, SettingGridStartHour, "7"))
	require.NoError(t, f.svc.SetSetting(ctx, SettingGridSlotHeight, "60"))

	_, err := f.svc.Schedule(ctx, f.practical("In-Car Session 1", monday, "09:00", f.alice.ID))
	require.NoError(t, err)

	week, err := f.svc.Agenda(ctx, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 7, week.Grid.StartHour)
	require.Len(t, week.Days[0].Classes, 1)
	assert.InDelta(t, 120.0, week.Days[0].Classes[0].Position.TopPx, 1e-9)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mode, err := f.svc.OverlapMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, schedule.ModeExact, mode)

	all, err := f.svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, SettingKeys(), sortedKeys(all))

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "theme", "dark"},
		{"bad mode", SettingOverlapCheck, "fuzzy"},
		{"not a number", SettingGridHours, "many"},
		{"out of range", SettingGridSlotHeight, "5"},
		{"past midnight", SettingGridStartHour, "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.svc.SetSetting(ctx, tt.key, tt.value), ErrInvalid)
		})
	}

	require.NoError(t, f.svc.SetSetting(ctx, SettingOverlapCheck, "overlap"))
	v, err := f.svc.Setting(ctx, SettingOverlapCheck)
	require.NoError(t, err)
	assert.Equal(t, "overlap", v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for _, k := range SettingKeys() {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestTitleOptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.theory("The Vehicle", monday, "09:00"))
	require.NoError(t, err)

	p, err := f.svc.TitleOptions(ctx, curriculum.KindTheory, f.group.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Vehicle"}, p.Unavailable)
	assert.NotContains(t, p.Available, "The Vehicle")
	assert.Len(t, p.Available, len(curriculum.Titles(curriculum.KindTheory))-1)

	_, err = f.svc.TitleOptions(ctx, curriculum.KindObservation, "", nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRecomputeHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Schedule(ctx, f.theory("The Vehicle", monday, "09:00"))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, created[0].ID, classes.AttendanceCompleted, "")
	require.NoError(t, err)
	require.NoError(t, f.st.StudentRepo().SetHours(ctx, f.alice.ID, 30))

	hours, err := f.svc.RecomputeHours(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, hours, 1e-9)

	_, err = f.svc.RecomputeHours(ctx, "missing")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAddStudent_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AddStudent(ctx, &roster.Student{FirstName: " "})
	require.Error(t, err)
	assert.Contains(t, validate.Fields(err), "first_name")

	err = f.svc.AddStudent(ctx, &roster.Student{FirstName: "Eve", LastName: "Côté", GroupID: "nope"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

// failingGroups fails every call.
type failingGroups struct{}

var errBoom = errors.New("boom")

func (failingGroups) Create(context.Context, *roster.Group) error { return errBoom }
func (failingGroups) Get(context.Context, string) (*roster.Group, error) {
	return nil, errBoom
}
func (failingGroups) List(context.Context) ([]roster.Group, error) { return nil, errBoom }
func (failingGroups) Delete(context.Context, string) error         { return errBoom }

func TestSchedulingOptions_PartialFailure(t *testing.T) {
	f := newFixture(t)
	repos := ReposFrom(f.st)
	repos.Groups = failingGroups{}
	svc := NewService(repos, nil, "tester")

	opts, err := svc.SchedulingOptions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, schedule.Failed(err, "groups"), errBoom)
	assert.NoError(t, schedule.Failed(err, "students"))

	require.NotNil(t, opts)
	assert.Len(t, opts.Instructors, 1)
	assert.Len(t, opts.Students, 2)
	assert.Empty(t, opts.Groups)
}

func TestSchedulingOptions(t *testing.T) {
	f := newFixture(t)
	opts, err := f.svc.SchedulingOptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts.Instructors, 1)
	assert.Len(t, opts.Groups, 1)
	assert.Len(t, opts.Students, 2)
}
