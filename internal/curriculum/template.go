package curriculum

import (
	"fmt"
	"slices"
)

// template holds the curriculum with precomputed indices.
type template struct {
	sessions []Session
	byKey    map[string]int // normalized key -> index into sessions
	byPhase  map[Phase][]Session
	bounds   map[Phase][2]int // inclusive ordinal range per phase
}

// t is the package-level template, set by init() in seed.go.
var t *template

func buildTemplate(sessions []Session) *template {
	tp := &template{
		sessions: sessions,
		byKey:    make(map[string]int, len(sessions)),
		byPhase:  make(map[Phase][]Session),
		bounds:   make(map[Phase][2]int),
	}
	for i, s := range sessions {
		tp.byKey[NormalizeKey(s.Name)] = i
		tp.byPhase[s.Phase] = append(tp.byPhase[s.Phase], s)

		b, ok := tp.bounds[s.Phase]
		if !ok {
			b = [2]int{s.Ordinal, s.Ordinal}
		}
		if s.Ordinal < b[0] {
			b[0] = s.Ordinal
		}
		if s.Ordinal > b[1] {
			b[1] = s.Ordinal
		}
		tp.bounds[s.Phase] = b
	}
	return tp
}

// Template returns the 27 curriculum sessions in ordinal order.
func Template() []Session {
	return slices.Clone(t.sessions)
}

// Len returns the number of template sessions.
func Len() int {
	return len(t.sessions)
}

// ByOrdinal returns the template session with the given 1-based ordinal.
func ByOrdinal(ordinal int) (Session, error) {
	if ordinal < 1 || ordinal > len(t.sessions) {
		return Session{}, fmt.Errorf("curriculum session %d not found", ordinal)
	}
	return t.sessions[ordinal-1], nil
}

// Lookup finds the template session whose normalized title matches title.
func Lookup(title string) (Session, bool) {
	i, ok := t.byKey[NormalizeKey(title)]
	if !ok {
		return Session{}, false
	}
	return t.sessions[i], true
}

// ByPhase returns the template sessions of a phase in ordinal order.
func ByPhase(p Phase) []Session {
	return slices.Clone(t.byPhase[p])
}

// PhaseBounds returns the inclusive ordinal range covered by a phase.
func PhaseBounds(p Phase) (first, last int) {
	b := t.bounds[p]
	return b[0], b[1]
}

// Titles returns the template titles of the given kind in ordinal order.
func Titles(kind Kind) []string {
	var out []string
	for _, s := range t.sessions {
		if s.Kind == kind {
			out = append(out, s.Name)
		}
	}
	return out
}
