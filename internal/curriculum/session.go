package curriculum

import "strings"

// Kind is the delivery format of a curriculum unit or a scheduled class.
type Kind string

const (
	KindTheory      Kind = "theory"
	KindPractical   Kind = "practical"
	KindObservation Kind = "observation"
)

// AllKinds returns all kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindTheory, KindPractical, KindObservation}
}

// ParseKind parses a kind case-insensitively. Unknown values fall back to KindTheory.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "practical", "in-car", "in_car":
		return KindPractical
	case "observation":
		return KindObservation
	default:
		return KindTheory
	}
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindTheory:
		return "Theory"
	case KindPractical:
		return "Practical"
	case KindObservation:
		return "Observation"
	default:
		return string(k)
	}
}

// Hours is the credited duration of one completed unit of this kind.
func (k Kind) Hours() float64 {
	switch k {
	case KindTheory:
		return TheoryHours
	case KindPractical:
		return PracticalHours
	default:
		return 0
	}
}

// Phase is one of the four sequential curriculum stages.
type Phase int

const (
	Phase1 Phase = iota + 1
	Phase2
	Phase3
	Phase4
)

// AllPhases returns the phases in order.
func AllPhases() []Phase {
	return []Phase{Phase1, Phase2, Phase3, Phase4}
}

// Valid reports whether p is one of the four phases.
func (p Phase) Valid() bool {
	return p >= Phase1 && p <= Phase4
}

// Label returns the display label for a phase.
func (p Phase) Label() string {
	switch p {
	case Phase1:
		return "Phase 1 · Prerequisite"
	case Phase2:
		return "Phase 2 · Guided Driving"
	case Phase3:
		return "Phase 3 · Semi-Guided Driving"
	case Phase4:
		return "Phase 4 · Semi-Autonomous Driving"
	default:
		return "Unknown phase"
	}
}

// Session is one unit of the fixed curriculum template.
type Session struct {
	Ordinal int
	Phase   Phase
	Name    string
	Kind    Kind
}

// Hour credits and totals for the full programme.
const (
	TheoryHours    = 2.0
	PracticalHours = 1.0

	TheorySessions    = 12
	PracticalSessions = 15

	RequiredHours = TheorySessions*TheoryHours + PracticalSessions*PracticalHours // 39
)
