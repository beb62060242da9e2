package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/screen"
	"github.com/abhisek/drivedesk/internal/screens/activity"
	"github.com/abhisek/drivedesk/internal/screens/agenda"
	"github.com/abhisek/drivedesk/internal/screens/scheduleform"
	"github.com/abhisek/drivedesk/internal/screens/students"
	"github.com/abhisek/drivedesk/internal/store"
	"github.com/abhisek/drivedesk/internal/ui/components"
	"github.com/abhisek/drivedesk/internal/ui/theme"
)

// CountsFunc loads the dashboard totals.
type CountsFunc func(ctx context.Context) (store.Counts, error)

type countsLoadedMsg struct {
	gen    uint64
	counts store.Counts
	err    error
}

// HomeScreen is the console's landing menu with school totals.
type HomeScreen struct {
	menu   components.Menu
	load   CountsFunc
	gen    schedule.Generation
	counts store.Counts
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a HomeScreen. counts may be nil, in which case no totals
// are shown.
func New(svc *school.Service, counts CountsFunc) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}
	items := []components.MenuItem{
		{Label: "Students", Action: push(func() screen.Screen { return students.New(svc) })},
		{Label: "Weekly agenda", Action: push(func() screen.Screen { return agenda.New(svc) })},
		{Label: "Schedule a class", Action: push(func() screen.Screen { return scheduleform.New(svc) })},
		{Label: "Activity log", Action: push(func() screen.Screen { return activity.New(svc) })},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{
		menu: components.NewMenu(items),
		load: counts,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.Refresh()
}

// Refresh reloads the totals.
func (h *HomeScreen) Refresh() tea.Cmd {
	if h.load == nil {
		return nil
	}
	gen := h.gen.Next()
	load := h.load
	return func() tea.Msg {
		c, err := load(context.Background())
		return countsLoadedMsg{gen: gen, counts: c, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(countsLoadedMsg); ok {
		if !h.gen.IsCurrent(msg.gen) {
			return h, nil
		}
		h.loaded = true
		h.errMsg = ""
		if msg.err != nil {
			h.errMsg = msg.err.Error()
		} else {
			h.counts = msg.counts
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(max(width-6, 20), 60)

	title := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Title.Render("DRIVEDESK") + "\n" + theme.Subtitle.Render("driving school console"))

	var stats string
	switch {
	case h.errMsg != "":
		stats = lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg)
	case h.loaded:
		stats = fmt.Sprintf("%s  %s  %s  %s",
			statStyle.Render(fmt.Sprintf("%d students", h.counts.Students)),
			statStyle.Render(fmt.Sprintf("%d instructors", h.counts.Instructors)),
			statStyle.Render(fmt.Sprintf("%d classes", h.counts.Classes)),
			doneStyle.Render(fmt.Sprintf("%d completed", h.counts.CompletedClasses)),
		)
	default:
		stats = theme.Hint.Render("loading totals...")
	}
	statsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Render(stats)

	menu := lipgloss.NewStyle().Width(cw).Render(h.menu.View())

	content := strings.Join([]string{title, statsBox, menu}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

var (
	statStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	doneStyle = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
)
