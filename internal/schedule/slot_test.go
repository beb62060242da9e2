package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/validate"
)

func timing() Timing {
	return Timing{
		Date:            "2024-02-01",
		StartTime:       "18:00",
		DurationMinutes: 120,
		InstructorID:    "i1",
		Title:           "Speed",
	}
}

func TestTheorySlot(t *testing.T) {
	s := TheorySlot{Timing: timing(), GroupID: "g1"}

	require.NoError(t, s.Validate())
	assert.Equal(t, curriculum.KindTheory, s.Kind())

	recs := s.ClassRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, "g1", recs[0].GroupID)
	assert.Empty(t, recs[0].StudentID)
	assert.Equal(t, "20:00", recs[0].EndTime)
	assert.Equal(t, classes.StatusScheduled, recs[0].CompletionStatus)
	assert.Equal(t, curriculum.KindTheory, recs[0].Kind)
}

func TestPracticalSlot(t *testing.T) {
	tm := timing()
	tm.Title = "In-Car Session 5"
	tm.DurationMinutes = 60
	s := PracticalSlot{Timing: tm, StudentIDs: []string{"s1", "s2"}}

	require.NoError(t, s.Validate())

	recs := s.ClassRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, "s1", recs[0].StudentID)
	assert.Equal(t, "s2", recs[1].StudentID)
	assert.Equal(t, "19:00", recs[1].EndTime)
	assert.Empty(t, recs[0].GroupID)
}

func TestSlot_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		slot  Slot
		field string
	}{
		{"missing group", TheorySlot{Timing: timing()}, "group_id"},
		{"blank title", TheorySlot{Timing: Timing{Date: "2024-02-01", StartTime: "09:00", DurationMinutes: 60, InstructorID: "i1", Title: " "}, GroupID: "g"}, "title"},
		{"bad date", TheorySlot{Timing: Timing{Date: "01/02/2024", StartTime: "09:00", DurationMinutes: 60, InstructorID: "i1", Title: "Speed"}, GroupID: "g"}, "date"},
		{"bad time", TheorySlot{Timing: Timing{Date: "2024-02-01", StartTime: "9am", DurationMinutes: 60, InstructorID: "i1", Title: "Speed"}, GroupID: "g"}, "start_time"},
		{"too short", TheorySlot{Timing: Timing{Date: "2024-02-01", StartTime: "09:00", DurationMinutes: 5, InstructorID: "i1", Title: "Speed"}, GroupID: "g"}, "duration_minutes"},
		{"no students", PracticalSlot{Timing: timing()}, "student_ids"},
		{"duplicate students", PracticalSlot{Timing: timing(), StudentIDs: []string{"s1", "s1"}}, "student_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			require.Error(t, err)
			assert.Contains(t, validate.Fields(err), tt.field)
		})
	}
}

func TestSlot_PastMidnight(t *testing.T) {
	tm := timing()
	tm.StartTime = "23:30"
	tm.DurationMinutes = 60

	err := TheorySlot{Timing: tm, GroupID: "g1"}.Validate()
	require.Error(t, err)
	assert.Nil(t, validate.Fields(err))
}

func TestSlotRequest_Slot(t *testing.T) {
	req := SlotRequest{
		Kind: "in-car", Date: "2024-02-01", StartTime: "10:00", DurationMinutes: 60,
		InstructorID: "i1", Title: "In-Car Session 1", GroupID: "ignored", StudentIDs: []string{"s1"},
	}

	s, err := req.Slot()
	require.NoError(t, err)
	ps, ok := s.(PracticalSlot)
	require.True(t, ok)
	assert.Equal(t, []string{"s1"}, ps.StudentIDs)
	assert.Equal(t, "i1", ps.Details().InstructorID)

	req.Kind = "theory"
	s, err = req.Slot()
	require.NoError(t, err)
	ts, ok := s.(TheorySlot)
	require.True(t, ok)
	assert.Equal(t, "ignored", ts.GroupID)

	req.Kind = "observation"
	_, err = req.Slot()
	assert.Error(t, err)
}
