package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/reconcile"
	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/screen"
	"github.com/abhisek/drivedesk/internal/ui/components"
	"github.com/abhisek/drivedesk/internal/ui/layout"
	"github.com/abhisek/drivedesk/internal/ui/theme"
)

type profileLoadedMsg struct {
	gen     uint64
	profile *school.Profile
	err     error
}

// ProfileScreen shows a student's reconciled curriculum and progress.
type ProfileScreen struct {
	svc     *school.Service
	id      string
	gen     schedule.Generation
	profile *school.Profile
	lines   []string
	offset  int
	errMsg  string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.Refresher = (*ProfileScreen)(nil)

// New creates a ProfileScreen for the given student.
func New(svc *school.Service, studentID string) *ProfileScreen {
	return &ProfileScreen{svc: svc, id: studentID}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return p.Refresh()
}

func (p *ProfileScreen) Refresh() tea.Cmd {
	gen := p.gen.Next()
	svc, id := p.svc, p.id
	return func() tea.Msg {
		prof, err := svc.Profile(context.Background(), id)
		return profileLoadedMsg{gen: gen, profile: prof, err: err}
	}
}

func (p *ProfileScreen) Title() string {
	if p.profile != nil {
		return p.profile.Student.FullName()
	}
	return "Student"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if !p.gen.IsCurrent(msg.gen) {
			return p, nil
		}
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		p.errMsg = ""
		p.profile = msg.profile
		p.lines = sessionLines(msg.profile.Sessions)
		p.offset = min(p.offset, max(len(p.lines)-1, 0))
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if p.offset > 0 {
				p.offset--
			}
		case "down", "j":
			if p.offset < len(p.lines)-1 {
				p.offset++
			}
		case "r":
			return p, p.Refresh()
		}
	}
	return p, nil
}

// sessionLines renders sessions grouped under their phase headings.
func sessionLines(sessions []reconcile.Session) []string {
	var lines []string
	phase := curriculum.Phase(0)
	for _, s := range sessions {
		if s.Phase != phase {
			phase = s.Phase
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.PhaseColor(phase)).Bold(true).Render(phase.Label()))
		}
		mark := theme.Hint.Render("·")
		if s.Completed {
			mark = theme.Done.Render("✓")
		}
		line := fmt.Sprintf("  %s %2d. %-36s %-10s", mark, s.Ordinal, s.Name, s.Kind.DisplayName())
		if s.Extra {
			line = fmt.Sprintf("  %s     %-36s %-10s", mark, s.Name, s.Kind.DisplayName())
		}
		if s.Date != "" {
			line += theme.Hint.Render(fmt.Sprintf(" %s %s", s.Date, s.StartTime))
		}
		if s.AttendanceStatus != nil {
			line += theme.Hint.Render(" " + string(*s.AttendanceStatus))
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *ProfileScreen) View(width, height int) string {
	if p.errMsg != "" {
		return layout.RenderMessage("Error: "+p.errMsg, width, true)
	}
	if p.profile == nil {
		return layout.RenderMessage("Loading profile...", width, false)
	}

	sum := p.profile.Summary
	bar := components.NewProgressBar("Progress", sum.PercentComplete, true, min(width-4, 60))

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(bar.View())
	b.WriteString("\n  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.PhaseColor(sum.CurrentPhase)).Render(sum.CurrentPhase.Label()))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("   %.1f / %.0f h   %d of %d sessions",
		sum.CompletedHours, sum.RequiredHours, sum.CompletedSessionCount, sum.TotalSessionCount)))
	b.WriteString("\n\n")

	rows := max(height-5, 1)
	end := min(p.offset+rows, len(p.lines))
	for _, l := range p.lines[p.offset:end] {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
