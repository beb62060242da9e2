package curriculum

import (
	"fmt"
	"strings"
)

// validateSessions performs all structural checks on a template.
// Returns a combined error describing all problems found, or nil if valid.
func validateSessions(sessions []Session) error {
	var errs []string

	keys := make(map[string]int, len(sessions))
	var theory, practical int

	for i, s := range sessions {
		if s.Ordinal != i+1 {
			errs = append(errs, fmt.Sprintf("session %q has ordinal %d, want %d", s.Name, s.Ordinal, i+1))
		}
		if !s.Phase.Valid() {
			errs = append(errs, fmt.Sprintf("session %d has invalid phase %d", s.Ordinal, s.Phase))
		}
		if i > 0 && s.Phase < sessions[i-1].Phase {
			errs = append(errs, fmt.Sprintf("session %d phase %d decreases from %d", s.Ordinal, s.Phase, sessions[i-1].Phase))
		}
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Sprintf("session %d has an empty name", s.Ordinal))
		}
		key := NormalizeKey(s.Name)
		if prev, ok := keys[key]; ok {
			errs = append(errs, fmt.Sprintf("session %d duplicates the title of session %d (%q)", s.Ordinal, prev, key))
		}
		keys[key] = s.Ordinal

		switch s.Kind {
		case KindTheory:
			theory++
		case KindPractical:
			practical++
		default:
			errs = append(errs, fmt.Sprintf("session %d has unsupported kind %q", s.Ordinal, s.Kind))
		}
	}

	if theory != TheorySessions {
		errs = append(errs, fmt.Sprintf("template has %d theory sessions, want %d", theory, TheorySessions))
	}
	if practical != PracticalSessions {
		errs = append(errs, fmt.Sprintf("template has %d practical sessions, want %d", practical, PracticalSessions))
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Validate checks the built-in template for structural issues.
func Validate() error {
	return validateSessions(t.sessions)
}
