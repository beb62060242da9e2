package students

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/screen"
	"github.com/abhisek/drivedesk/internal/screens/profile"
	"github.com/abhisek/drivedesk/internal/store"
	"github.com/abhisek/drivedesk/internal/ui/components"
	"github.com/abhisek/drivedesk/internal/ui/layout"
	"github.com/abhisek/drivedesk/internal/ui/theme"
)

type studentsLoadedMsg struct {
	gen      uint64
	students []roster.Student
	err      error
}

// StudentsScreen lists students and filters them by name.
type StudentsScreen struct {
	svc       *school.Service
	gen       schedule.Generation
	search    components.TextInput
	searching bool
	students  []roster.Student
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*StudentsScreen)(nil)
var _ screen.Refresher = (*StudentsScreen)(nil)
var _ screen.KeyHintProvider = (*StudentsScreen)(nil)

// New creates a StudentsScreen.
func New(svc *school.Service) *StudentsScreen {
	return &StudentsScreen{
		svc:    svc,
		search: components.NewTextInput("Search", "name, email or permit", 64),
	}
}

func (s *StudentsScreen) Init() tea.Cmd {
	return s.Refresh()
}

// Refresh queries students matching the current search text. Responses to
// older queries are ignored.
func (s *StudentsScreen) Refresh() tea.Cmd {
	gen := s.gen.Next()
	svc := s.svc
	f := store.StudentFilter{Search: strings.TrimSpace(s.search.Value())}
	return func() tea.Msg {
		list, err := svc.Students(context.Background(), f)
		return studentsLoadedMsg{gen: gen, students: list, err: err}
	}
}

func (s *StudentsScreen) Title() string {
	return "Students"
}

func (s *StudentsScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "/", Description: "Search"},
		{Key: "Enter", Description: "Profile"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentsLoadedMsg:
		if !s.gen.IsCurrent(msg.gen) {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.students = msg.students
		s.selected = min(s.selected, max(len(s.students)-1, 0))
		return s, nil

	case tea.KeyMsg:
		if s.searching {
			return s.updateSearch(msg)
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "/":
			s.searching = true
			return s, s.search.Focus()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.students)-1 {
				s.selected++
			}
		case "enter":
			if len(s.students) == 0 {
				return s, nil
			}
			next := profile.New(s.svc, s.students[s.selected].ID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *StudentsScreen) updateSearch(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.searching = false
		s.search.Blur()
		return s, nil
	case "esc":
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
		s.selected = 0
		return s, s.Refresh()
	}
	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() == before {
		return s, cmd
	}
	s.selected = 0
	return s, tea.Batch(cmd, s.Refresh())
}

func (s *StudentsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(s.search.View())
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  Error: " + s.errMsg))
		return b.String()
	case !s.loaded:
		b.WriteString(theme.Hint.Render("  Loading students..."))
		return b.String()
	case len(s.students) == 0:
		b.WriteString(theme.Hint.Render("  No students found."))
		return b.String()
	}

	rows := max(height-5, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	for i := start; i < len(s.students) && i < start+rows; i++ {
		st := s.students[i]
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%-28s %-10s %5.1fh  %s", prefix, st.FullName(), st.Status, st.CompletedHours, st.Email)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
