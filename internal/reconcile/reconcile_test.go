package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
)

func TestReconcile_EmptyReturnsTemplate(t *testing.T) {
	sessions := ReconcileTemplate(nil)

	require.Len(t, sessions, 27)
	for i, s := range sessions {
		assert.Equal(t, i+1, s.Ordinal)
		assert.False(t, s.Completed, "session %d", s.Ordinal)
		assert.False(t, s.Scheduled(), "session %d", s.Ordinal)
		assert.False(t, s.Extra)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Phase, sessions[i-1].Phase)
		}
	}
}

func TestReconcile_ExactMatchIsConsumed(t *testing.T) {
	records := []classes.Record{{
		ID:               "c1",
		Title:            "The Vehicle",
		Kind:             curriculum.KindTheory,
		Date:             "2024-01-03",
		StartTime:        "18:00",
		EndTime:          "20:00",
		InstructorName:   "Marie Tremblay",
		AttendanceStatus: classes.Attendance(classes.AttendanceCompleted),
		CompletionStatus: classes.StatusScheduled,
	}}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 27, "a matched record must not also become an extra")
	first := sessions[0]
	assert.True(t, first.Completed)
	assert.Equal(t, "c1", first.SourceClassID)
	assert.Equal(t, "2024-01-03", first.Date)
	assert.Equal(t, "18:00", first.StartTime)
	assert.Equal(t, "20:00", first.EndTime)
	assert.Equal(t, "Marie Tremblay", first.InstructorName)
}

func TestReconcile_DuplicatesBecomeExtras(t *testing.T) {
	records := []classes.Record{
		{ID: "late", Title: "In-Car Session 1", Kind: curriculum.KindPractical, Date: "2024-03-10", StartTime: "09:00", CompletionStatus: classes.StatusCompleted},
		{ID: "early", Title: "in-car session 1", Kind: curriculum.KindPractical, Date: "2024-03-02", StartTime: "09:00", CompletionStatus: classes.StatusCompleted},
	}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 28)
	slot, err := curriculum.ByOrdinal(7)
	require.NoError(t, err)
	require.Equal(t, "In-Car Session 1", slot.Name)

	assert.Equal(t, "early", sessions[6].SourceClassID)
	extra := sessions[27]
	assert.Equal(t, 28, extra.Ordinal)
	assert.Equal(t, "late", extra.SourceClassID)
	assert.True(t, extra.Extra)
	assert.Equal(t, curriculum.Phase2, extra.Phase)
}

func TestReconcile_CompletionRules(t *testing.T) {
	tests := []struct {
		name       string
		attendance *classes.AttendanceStatus
		completion classes.CompletionStatus
		want       bool
	}{
		{"attendance completed wins", classes.Attendance(classes.AttendanceCompleted), classes.StatusScheduled, true},
		{"attendance absent wins over completed", classes.Attendance(classes.AttendanceAbsent), classes.StatusCompleted, false},
		{"no attendance, completed", nil, classes.StatusCompleted, true},
		{"no attendance, scheduled", nil, classes.StatusScheduled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := ReconcileTemplate([]classes.Record{{
				ID: "c", Title: "Speed", Kind: curriculum.KindTheory,
				AttendanceStatus: tt.attendance, CompletionStatus: tt.completion,
			}})
			assert.Equal(t, tt.want, sessions[11].Completed)
			assert.Equal(t, "c", sessions[11].SourceClassID)
		})
	}
}

func TestReconcile_ExtrasSortedChronologically(t *testing.T) {
	records := []classes.Record{
		{ID: "b", Title: "Highway Refresher", Kind: curriculum.KindPractical, Date: "2024-05-02", StartTime: "10:00"},
		{ID: "c", Title: "Night Driving", Kind: curriculum.KindPractical, Date: "2024-05-02", StartTime: "08:00"},
		{ID: "undated", Title: "Collision Avoidance", Kind: curriculum.KindTheory},
		{ID: "a", Title: "Winter Tires", Kind: curriculum.KindTheory, Date: "2024-04-01"},
	}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 31)
	var ids []string
	for _, s := range sessions[27:] {
		ids = append(ids, s.SourceClassID)
	}
	assert.Equal(t, []string{"undated", "a", "c", "b"}, ids)
	assert.Equal(t, []int{28, 29, 30, 31}, []int{sessions[27].Ordinal, sessions[28].Ordinal, sessions[29].Ordinal, sessions[30].Ordinal})
	assert.Equal(t, curriculum.Phase3, sessions[27].Phase, "Collision Avoidance is a phase 3 title")
	assert.Equal(t, curriculum.Phase1, sessions[28].Phase, "unknown theory defaults to phase 1")
	assert.Equal(t, curriculum.Phase2, sessions[29].Phase, "unknown practical defaults to phase 2")
}

func TestReconcile_MalformedDatesDoNotPanic(t *testing.T) {
	records := []classes.Record{
		{ID: "x", Title: "The Driver", Date: "not-a-date", StartTime: "??"},
		{ID: "y", Title: "The Driver", Date: "2024-01-10", StartTime: "18:00"},
		{ID: "z", Title: "The Driver"},
	}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 29)
	assert.Equal(t, "x", sessions[1].SourceClassID, "unparseable and empty dates tie and keep input order")
	assert.Equal(t, "z", sessions[27].SourceClassID)
	assert.Equal(t, "y", sessions[28].SourceClassID)
}

func TestReconcile_UnparseableDateClaimsSlotFirst(t *testing.T) {
	records := []classes.Record{
		{ID: "good", Title: "In-Car Session 1", Kind: curriculum.KindPractical, Date: "2024-01-10", StartTime: "10:00"},
		{ID: "bad", Title: "In-Car Session 1", Kind: curriculum.KindPractical, Date: "next tuesday", StartTime: "10:00"},
	}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 28)
	assert.Equal(t, 7, sessions[6].Ordinal)
	assert.Equal(t, "bad", sessions[6].SourceClassID)
	assert.Equal(t, "good", sessions[27].SourceClassID)
	assert.True(t, sessions[27].Extra)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	tmpl := curriculum.Template()
	status := classes.AttendanceCompleted
	records := []classes.Record{{ID: "r", Title: "The Driver", AttendanceStatus: &status}}

	sessions := Reconcile(records, tmpl)
	*sessions[1].AttendanceStatus = classes.AttendanceAbsent

	assert.Equal(t, classes.AttendanceCompleted, status)
	assert.Equal(t, curriculum.Template(), tmpl)
}

func TestReconcile_E2EScenario(t *testing.T) {
	records := []classes.Record{{
		ID:               "drv",
		Title:            "The Driver",
		Kind:             curriculum.KindTheory,
		Date:             "2024-01-10",
		CompletionStatus: classes.StatusCompleted,
	}}

	sessions := ReconcileTemplate(records)

	require.Len(t, sessions, 27)
	assert.Equal(t, "The Driver", sessions[1].Name)
	assert.True(t, sessions[1].Completed)
	assert.Equal(t, "2024-01-10", sessions[1].Date)
	for i, s := range sessions {
		if i != 1 {
			assert.False(t, s.Completed, "session %d", s.Ordinal)
		}
	}
}
