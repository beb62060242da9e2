package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/drivedesk/internal/classes"
)

// Grid describes the hour rows of the week view.
type Grid struct {
	StartHour    int
	SlotHeightPx int
	Hours        int
}

// DefaultGrid spans 08:00 to 21:00 in 40px hour rows.
var DefaultGrid = Grid{StartHour: 8, SlotHeightPx: 40, Hours: 13}

// EndHour is the exclusive upper bound of the grid.
func (g Grid) EndHour() int {
	return g.StartHour + g.Hours
}

// Position is the vertical placement of a class in the week view.
type Position struct {
	TopPx       float64 `json:"top_px"`
	HeightSlots float64 `json:"height_slots"`
}

// HeightPx is the rendered height of the block.
func (p Position) HeightPx(g Grid) float64 {
	return p.HeightSlots * float64(g.SlotHeightPx)
}

// ParseHour converts "HH:MM" (or "HH:MM:SS") to fractional hours.
func ParseHour(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

// FormatHour renders fractional hours back to "HH:MM".
func FormatHour(h float64) string {
	total := int(h*60 + 0.5)
	return time.Date(0, 1, 1, total/60, total%60, 0, 0, time.UTC).Format("15:04")
}

// EndTime adds durationMinutes to start, returning "" when start is
// malformed or the result crosses midnight.
func EndTime(start string, durationMinutes int) string {
	h, ok := ParseHour(start)
	if !ok || durationMinutes <= 0 {
		return ""
	}
	end := h + float64(durationMinutes)/60
	if end >= 24 {
		return ""
	}
	return FormatHour(end)
}

// LayoutPosition places a class on the grid. It reports false when either
// time is malformed, the range is empty, or it falls outside the grid.
func LayoutPosition(start, end string, g Grid) (Position, bool) {
	s, ok := ParseHour(start)
	if !ok {
		return Position{}, false
	}
	e, ok := ParseHour(end)
	if !ok {
		return Position{}, false
	}
	if e <= s || s < float64(g.StartHour) || e > float64(g.EndHour()) {
		return Position{}, false
	}
	return Position{
		TopPx:       (s - float64(g.StartHour)) * float64(g.SlotHeightPx),
		HeightSlots: e - s,
	}, true
}

// Placement is a class positioned in a day column.
type Placement struct {
	Record   classes.Record `json:"record"`
	Position Position       `json:"position"`
}

// Day is one column of the week view.
type Day struct {
	Date    string      `json:"date"`
	Classes []Placement `json:"classes"`
}

// Week is the week view starting at Days[0].
type Week struct {
	Grid       Grid             `json:"grid"`
	Days       [7]Day           `json:"days"`
	OutOfRange []classes.Record `json:"out_of_range,omitempty"`
}

// WeekGrid buckets records into the seven days starting at weekStart.
// Records that cannot be placed on the grid are returned in OutOfRange;
// records dated outside the week are ignored.
func WeekGrid(records []classes.Record, weekStart time.Time, g Grid) Week {
	w := Week{Grid: g}
	index := make(map[string]int, 7)
	for i := range w.Days {
		d := weekStart.AddDate(0, 0, i).Format(time.DateOnly)
		w.Days[i].Date = d
		index[d] = i
	}

	sorted := make([]classes.Record, len(records))
	copy(sorted, records)
	sortRecords(sorted)

	for _, r := range sorted {
		i, ok := index[r.Date]
		if !ok {
			continue
		}
		pos, ok := LayoutPosition(r.StartTime, r.EndTime, g)
		if !ok {
			w.OutOfRange = append(w.OutOfRange, r)
			continue
		}
		w.Days[i].Classes = append(w.Days[i].Classes, Placement{Record: r, Position: pos})
	}
	return w
}

// WeekStart returns the Monday on or before t, at midnight in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
