package curriculum

import (
	"slices"
	"strings"
)

// ClassifyPhase assigns a curriculum phase to a class from its title and
// kind. Known theory titles map to their phase, "In-Car Session N" maps by
// N, and anything unrecognized defaults to phase 1 for theory and phase 2
// otherwise.
func ClassifyPhase(title string, kind Kind) Phase {
	title = strings.TrimSpace(title)

	switch {
	case slices.Contains(phase1Theory, title):
		return Phase1
	case slices.Contains(phase2Theory, title):
		return Phase2
	case slices.Contains(phase3Theory, title):
		return Phase3
	case slices.Contains(phase4Theory, title):
		return Phase4
	}

	if kind == KindPractical {
		if n, ok := InCarNumber(title); ok {
			switch {
			case n >= 1 && n <= 4:
				return Phase2
			case n >= 5 && n <= 10:
				return Phase3
			case n >= 11 && n <= 15:
				return Phase4
			}
		}
	}

	if kind == KindTheory {
		return Phase1
	}
	return Phase2
}

// KnownTheoryTitles returns every recognized theory title, phase by phase.
func KnownTheoryTitles() []string {
	out := make([]string, 0, len(phase1Theory)+len(phase2Theory)+len(phase3Theory)+len(phase4Theory))
	out = append(out, phase1Theory...)
	out = append(out, phase2Theory...)
	out = append(out, phase3Theory...)
	out = append(out, phase4Theory...)
	return out
}
