// Package progress summarizes a student's advancement through the
// curriculum from their reconciled sessions and credited hours.
package progress

import (
	"math"

	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/reconcile"
)

// Summary is the derived progress shown on a student profile.
type Summary struct {
	PercentComplete       int              `json:"percent_complete"`
	CurrentPhase          curriculum.Phase `json:"current_phase"`
	CompletedSessionCount int              `json:"completed_session_count"`
	TotalSessionCount     int              `json:"total_session_count"`
	CompletedHours        float64          `json:"completed_hours"`
	RequiredHours         float64          `json:"required_hours"`
}

// Compute derives a Summary. Percent complete is driven by hours rather
// than session count since theory and practical units differ in length.
// A valid override phase is used verbatim.
func Compute(sessions []reconcile.Session, completedHours float64, override *curriculum.Phase) Summary {
	s := Summary{
		TotalSessionCount: len(sessions),
		CompletedHours:    completedHours,
		RequiredHours:     curriculum.RequiredHours,
	}
	for _, sess := range sessions {
		if sess.Completed {
			s.CompletedSessionCount++
		}
	}

	s.PercentComplete = Percent(completedHours)

	if override != nil && override.Valid() {
		s.CurrentPhase = *override
	} else {
		s.CurrentPhase = DerivePhase(sessions)
	}
	return s
}

// Percent converts credited hours to a whole percentage in [0, 100].
func Percent(hours float64) int {
	switch {
	case math.IsNaN(hours) || hours <= 0:
		return 0
	case hours >= curriculum.RequiredHours:
		return 100
	}
	return int(math.Round(hours / curriculum.RequiredHours * 100))
}

// DerivePhase returns the first phase whose template sessions are not all
// completed, or phase 4 when phases 1 through 3 are done. Template
// ordinals missing from sessions count as incomplete.
func DerivePhase(sessions []reconcile.Session) curriculum.Phase {
	done := make(map[int]bool, len(sessions))
	for _, s := range sessions {
		if !s.Extra && s.Completed {
			done[s.Ordinal] = true
		}
	}

	for _, p := range []curriculum.Phase{curriculum.Phase1, curriculum.Phase2, curriculum.Phase3} {
		first, last := curriculum.PhaseBounds(p)
		for ord := first; ord <= last; ord++ {
			if !done[ord] {
				return p
			}
		}
	}
	return curriculum.Phase4
}

// HoursFromSessions credits each completed template session with its
// kind's hours. Extra sessions are not credited.
func HoursFromSessions(sessions []reconcile.Session) float64 {
	var total float64
	for _, s := range sessions {
		if s.Completed && !s.Extra {
			total += s.Kind.Hours()
		}
	}
	return total
}
