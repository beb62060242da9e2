package agenda

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/screen"
	"github.com/abhisek/drivedesk/internal/ui/layout"
	"github.com/abhisek/drivedesk/internal/ui/theme"
)

type weekLoadedMsg struct {
	gen  uint64
	week schedule.Week
	err  error
}

// AgendaScreen renders one week of classes as an hour-by-day grid.
type AgendaScreen struct {
	svc    *school.Service
	gen    schedule.Generation
	start  time.Time
	week   *schedule.Week
	errMsg string
}

var _ screen.Screen = (*AgendaScreen)(nil)
var _ screen.Refresher = (*AgendaScreen)(nil)

// New creates an AgendaScreen showing the current week.
func New(svc *school.Service) *AgendaScreen {
	return &AgendaScreen{svc: svc, start: schedule.WeekStart(time.Now())}
}

func (a *AgendaScreen) Init() tea.Cmd {
	return a.Refresh()
}

// Refresh loads the week currently in view. Switching weeks quickly
// leaves only the last load applied.
func (a *AgendaScreen) Refresh() tea.Cmd {
	gen := a.gen.Next()
	svc, start := a.svc, a.start
	return func() tea.Msg {
		w, err := svc.Agenda(context.Background(), start)
		return weekLoadedMsg{gen: gen, week: w, err: err}
	}
}

func (a *AgendaScreen) Title() string {
	return "Week of " + a.start.Format("Jan 2, 2006")
}

func (a *AgendaScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Week"},
		{Key: "t", Description: "Today"},
		{Key: "Esc", Description: "Back"},
	}
}

func (a *AgendaScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		if !a.gen.IsCurrent(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.errMsg = ""
		a.week = &msg.week
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return a, func() tea.Msg { return router.PopScreenMsg{} }
		case "left", "h":
			a.start = a.start.AddDate(0, 0, -7)
			return a, a.Refresh()
		case "right", "l":
			a.start = a.start.AddDate(0, 0, 7)
			return a, a.Refresh()
		case "t":
			a.start = schedule.WeekStart(time.Now())
			return a, a.Refresh()
		}
	}
	return a, nil
}

func (a *AgendaScreen) View(width, height int) string {
	if a.errMsg != "" {
		return layout.RenderMessage("Error: "+a.errMsg, width, true)
	}
	if a.week == nil {
		return layout.RenderMessage("Loading agenda...", width, false)
	}
	colWidth := max((width-8)/7, 6)
	out := "\n" + renderGrid(*a.week, colWidth)
	if len(a.week.OutOfRange) > 0 {
		out += "\n" + theme.Hint.Render("  Outside the grid:") + "\n"
		for _, r := range a.week.OutOfRange {
			out += fmt.Sprintf("  %s %s-%s  %s\n", r.Date, r.StartTime, r.EndTime, r.Title)
		}
	}
	return out
}

// renderGrid draws one row per grid hour and one column per day. A class
// fills every hour row its position touches; its title is printed on the
// first of them.
func renderGrid(w schedule.Week, colWidth int) string {
	g := w.Grid
	var b strings.Builder

	b.WriteString("      ")
	for _, d := range w.Days {
		label := d.Date
		if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
			label = t.Format("Mon 02")
		}
		b.WriteString(theme.Hint.Render(pad(label, colWidth)))
	}
	b.WriteString("\n")

	for row := range g.Hours {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%02d:00 ", g.StartHour+row)))
		for _, d := range w.Days {
			b.WriteString(cell(d, g, row, colWidth))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cell(d schedule.Day, g schedule.Grid, row, colWidth int) string {
	for _, p := range d.Classes {
		top, bottom := slotSpan(p.Position, g)
		if row < top || row >= bottom {
			continue
		}
		style := lipgloss.NewStyle().Foreground(kindColor(p.Record.Kind))
		if row == top {
			return style.Render(pad(p.Record.StartTime+" "+p.Record.Title, colWidth))
		}
		return style.Render(pad("│", colWidth))
	}
	return theme.Hint.Render(pad("·", colWidth))
}

// slotSpan returns the half-open range of hour rows a position covers.
func slotSpan(pos schedule.Position, g schedule.Grid) (top, bottom int) {
	start := pos.TopPx / float64(max(g.SlotHeightPx, 1))
	end := start + pos.HeightSlots
	top = int(math.Floor(start))
	bottom = int(math.Ceil(end))
	return top, max(bottom, top+1)
}

func kindColor(k curriculum.Kind) color.Color {
	if k == curriculum.KindTheory {
		return theme.Secondary
	}
	return theme.Accent
}

func pad(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w-1]) + " "
	}
	return s + strings.Repeat(" ", w-len(r))
}
