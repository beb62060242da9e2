package activity

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
	"github.com/abhisek/drivedesk/internal/store"
	"github.com/abhisek/drivedesk/internal/ui/layout"
	"github.com/abhisek/drivedesk/internal/ui/theme"
)

const pageSize = 50

type activityLoadedMsg struct {
	gen    uint64
	events []store.ActivityEvent
	err    error
}

// ActivityScreen lists the audit trail, newest first.
type ActivityScreen struct {
	svc      *school.Service
	gen      schedule.Generation
	events   []store.ActivityEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen.
func New(svc *school.Service) *ActivityScreen {
	return &ActivityScreen{
		svc:      svc,
		expanded: make(map[int]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	gen := s.gen.Next()
	svc := s.svc
	return func() tea.Msg {
		evs, err := svc.Activity(context.Background(), store.QueryOpts{Limit: pageSize})
		return activityLoadedMsg{gen: gen, events: evs, err: err}
	}
}

func (s *ActivityScreen) Title() string {
	return "Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if !s.gen.IsCurrent(msg.gen) {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.events = msg.events
		s.selected = min(s.selected, max(len(s.events)-1, 0))
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "r":
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderMessage("Error: "+s.errMsg, width, true)
	}
	if !s.loaded {
		return layout.RenderMessage("Loading activity...", width, false)
	}
	if len(s.events) == 0 {
		return layout.RenderMessage("No activity recorded yet.", width, false)
	}

	// Keep the selection visible.
	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < len(s.events) && i < start+rows; i++ {
		ev := s.events[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s#%-5d %s  %-24s %-10s %s",
			prefix, ev.Sequence, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Action, ev.EntityType, shortID(ev.EntityID))
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := ev.Detail
			if detail == "" {
				detail = "(no detail)"
			}
			b.WriteString(theme.Hint.Render(fmt.Sprintf("      by %s: %s", actor(ev.Actor), detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func actor(a string) string {
	if a == "" {
		return "system"
	}
	return a
}
