package progress

import (
	"math"
	"testing"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/reconcile"
)

func completeThrough(last int) []reconcile.Session {
	sessions := reconcile.ReconcileTemplate(nil)
	for i := range sessions {
		if sessions[i].Ordinal <= last {
			sessions[i].Completed = true
		}
	}
	return sessions
}

func phasePtr(p curriculum.Phase) *curriculum.Phase {
	return &p
}

func TestPercent(t *testing.T) {
	tests := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{-5, 0},
		{10, 26},
		{19.5, 50},
		{39, 100},
		{45, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.hours); got != tt.want {
			t.Errorf("Percent(%v) = %d, want %d", tt.hours, got, tt.want)
		}
	}
}

func TestPercent_Bounded(t *testing.T) {
	for h := -10.0; h <= 100; h += 0.5 {
		got := Percent(h)
		if got < 0 || got > 100 {
			t.Fatalf("Percent(%v) = %d, out of [0,100]", h, got)
		}
	}
	for _, h := range []float64{1e20, 1e300, math.MaxFloat64, math.Inf(1)} {
		if got := Percent(h); got != 100 {
			t.Errorf("Percent(%v) = %d, want 100", h, got)
		}
	}
	for _, h := range []float64{math.Inf(-1), math.NaN(), -1e300} {
		if got := Percent(h); got != 0 {
			t.Errorf("Percent(%v) = %d, want 0", h, got)
		}
	}
}

func TestDerivePhase(t *testing.T) {
	tests := []struct {
		name string
		last int
		want curriculum.Phase
	}{
		{"nothing done", 0, curriculum.Phase1},
		{"phase 1 partial", 4, curriculum.Phase1},
		{"phase 1 done", 5, curriculum.Phase2},
		{"phase 2 done", 11, curriculum.Phase3},
		{"phase 3 partial", 19, curriculum.Phase3},
		{"phase 3 done", 20, curriculum.Phase4},
		{"all done", 27, curriculum.Phase4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePhase(completeThrough(tt.last)); got != tt.want {
				t.Errorf("DerivePhase = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDerivePhase_GapKeepsEarlierPhase(t *testing.T) {
	sessions := completeThrough(20)
	sessions[2].Completed = false // The Environment

	if got := DerivePhase(sessions); got != curriculum.Phase1 {
		t.Errorf("DerivePhase = %d, want 1", got)
	}
}

func TestDerivePhase_ExtrasDoNotFillSlots(t *testing.T) {
	sessions := []reconcile.Session{
		{Ordinal: 1, Completed: true, Extra: true},
		{Ordinal: 2, Completed: true, Extra: true},
		{Ordinal: 3, Completed: true, Extra: true},
		{Ordinal: 4, Completed: true, Extra: true},
		{Ordinal: 5, Completed: true, Extra: true},
	}
	if got := DerivePhase(sessions); got != curriculum.Phase1 {
		t.Errorf("DerivePhase = %d, want 1", got)
	}
}

func TestCompute_OverrideWins(t *testing.T) {
	patterns := [][]reconcile.Session{
		completeThrough(0),
		completeThrough(11),
		completeThrough(27),
	}
	for _, sessions := range patterns {
		got := Compute(sessions, 12, phasePtr(curriculum.Phase3))
		if got.CurrentPhase != curriculum.Phase3 {
			t.Errorf("CurrentPhase = %d, want 3", got.CurrentPhase)
		}
	}
}

func TestCompute_InvalidOverrideIgnored(t *testing.T) {
	got := Compute(completeThrough(5), 10, phasePtr(curriculum.Phase(9)))
	if got.CurrentPhase != curriculum.Phase2 {
		t.Errorf("CurrentPhase = %d, want 2", got.CurrentPhase)
	}
}

func TestCompute_Counts(t *testing.T) {
	sessions := completeThrough(6)
	sessions = append(sessions, reconcile.Session{Ordinal: 28, Extra: true, Completed: true})

	got := Compute(sessions, 13, nil)

	if got.TotalSessionCount != 28 {
		t.Errorf("TotalSessionCount = %d, want 28", got.TotalSessionCount)
	}
	if got.CompletedSessionCount != 7 {
		t.Errorf("CompletedSessionCount = %d, want 7", got.CompletedSessionCount)
	}
	if got.RequiredHours != 39 {
		t.Errorf("RequiredHours = %v, want 39", got.RequiredHours)
	}
	if got.CompletedHours != 13 {
		t.Errorf("CompletedHours = %v, want 13", got.CompletedHours)
	}
	if got.PercentComplete != 33 {
		t.Errorf("PercentComplete = %d, want 33", got.PercentComplete)
	}
}

func TestCompute_E2EScenario(t *testing.T) {
	records := []classes.Record{{
		ID:               "c1",
		Title:            "The Driver",
		Kind:             curriculum.KindTheory,
		Date:             "2024-01-10",
		CompletionStatus: classes.StatusCompleted,
	}}

	got := Compute(reconcile.ReconcileTemplate(records), 10, nil)

	if got.CurrentPhase != curriculum.Phase1 {
		t.Errorf("CurrentPhase = %d, want 1", got.CurrentPhase)
	}
	if got.PercentComplete != 26 {
		t.Errorf("PercentComplete = %d, want 26", got.PercentComplete)
	}
	if got.CompletedSessionCount != 1 || got.TotalSessionCount != 27 {
		t.Errorf("counts = %d/%d, want 1/27", got.CompletedSessionCount, got.TotalSessionCount)
	}
}

func TestHoursFromSessions(t *testing.T) {
	// Ordinals 1-6 are theory, 7-8 practical.
	if got := HoursFromSessions(completeThrough(8)); got != 14 {
		t.Errorf("HoursFromSessions = %v, want 14", got)
	}
	if got := HoursFromSessions(completeThrough(27)); got != curriculum.RequiredHours {
		t.Errorf("HoursFromSessions(all) = %v, want %v", got, curriculum.RequiredHours)
	}

	extra := []reconcile.Session{{Ordinal: 28, Kind: curriculum.KindTheory, Completed: true, Extra: true}}
	if got := HoursFromSessions(extra); got != 0 {
		t.Errorf("HoursFromSessions(extra) = %v, want 0", got)
	}
}
