package schedule

import (
	"slices"
	"strings"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
)

// Partition splits curriculum titles into those that can still be booked
// and those already taken.
type Partition struct {
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable"`
}

// AvailableTitles partitions all by case-insensitive membership in taken,
// preserving the order of all.
func AvailableTitles(all, taken []string) Partition {
	set := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	p := Partition{Available: []string{}, Unavailable: []string{}}
	for _, title := range all {
		if _, ok := set[strings.ToLower(strings.TrimSpace(title))]; ok {
			p.Unavailable = append(p.Unavailable, title)
		} else {
			p.Available = append(p.Available, title)
		}
	}
	return p
}

// TakenTitles returns the titles already booked for the owner of a slot:
// the group for theory, the given students for practical. Cancelled
// classes do not count.
func TakenTitles(records []classes.Record, kind curriculum.Kind, groupID string, studentIDs []string) []string {
	var out []string
	for _, r := range records {
		if r.IsCancelled() || r.Kind != kind {
			continue
		}
		switch kind {
		case curriculum.KindTheory:
			if groupID == "" || r.GroupID != groupID {
				continue
			}
		default:
			if !slices.Contains(studentIDs, r.StudentID) {
				continue
			}
		}
		if !slices.Contains(out, r.Title) {
			out = append(out, r.Title)
		}
	}
	return out
}

// TitleOptions partitions the template titles of kind for booking.
func TitleOptions(records []classes.Record, kind curriculum.Kind, groupID string, studentIDs []string) Partition {
	return AvailableTitles(curriculum.Titles(kind), TakenTitles(records, kind, groupID, studentIDs))
}

func sortRecords(rs []classes.Record) {
	slices.SortStableFunc(rs, func(a, b classes.Record) int {
		switch {
		case classes.Less(a, b):
			return -1
		case classes.Less(b, a):
			return 1
		}
		return 0
	})
}
