// Package scheduleform is the console form for booking theory and
// practical classes.
package scheduleform

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/router"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/screen"
	"github.com/abhisek/drivedesk/internal/ui/components"
	"github.com/abhisek/drivedesk/internal/ui/layout"
	"github.com/abhisek/drivedesk/internal/ui/theme"
	"github.com/abhisek/drivedesk/internal/validate"
)

const (
	fieldKind = iota
	fieldInstructor
	fieldOwner
	fieldTitle
	fieldDate
	fieldStart
	fieldDuration
	fieldCount
)

type optionsLoadedMsg struct {
	opts *school.Options
	err  error
}

type titlesLoadedMsg struct {
	gen  uint64
	part schedule.Partition
	err  error
}

type scheduledMsg struct {
	records []classes.Record
	err     error
}

// FormScreen collects a slot and submits it to the scheduler.
type FormScreen struct {
	svc  *school.Service
	opts *school.Options

	kind       components.Picker
	instructor components.Picker
	owner      components.Picker
	title      components.Picker
	date       components.TextInput
	start      components.TextInput
	duration   components.TextInput

	focus      int
	titleGen   schedule.Generation
	submitting bool
	status     string
	errMsg     string
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// New creates a FormScreen with today's date prefilled.
func New(svc *school.Service) *FormScreen {
	f := &FormScreen{
		svc: svc,
		kind: components.NewPicker("Kind", []components.PickerOption{
			{Label: curriculum.KindTheory.DisplayName(), Value: string(curriculum.KindTheory)},
			{Label: curriculum.KindPractical.DisplayName(), Value: string(curriculum.KindPractical)},
		}),
		instructor: components.NewPicker("Instructor", nil),
		owner:      components.NewPicker("Group", nil),
		title:      components.NewPicker("Title", nil),
		date:       components.NewTextInput("Date", "YYYY-MM-DD", 10),
		start:      components.NewTextInput("Start", "HH:MM", 5),
		duration:   components.NewTextInput("Minutes", "60", 3),
	}
	f.date.SetValue(time.Now().Format(time.DateOnly))
	f.duration.SetValue("120")
	f.kind.Focused = true
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	svc := f.svc
	return func() tea.Msg {
		o, err := svc.SchedulingOptions(context.Background())
		return optionsLoadedMsg{opts: o, err: err}
	}
}

func (f *FormScreen) Title() string {
	return "Schedule a Class"
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Choose"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (f *FormScreen) currentKind() curriculum.Kind {
	return curriculum.ParseKind(f.kind.Value())
}

// ownerOptions lists groups for theory and active students for practical.
func (f *FormScreen) ownerOptions() []components.PickerOption {
	if f.opts == nil {
		return nil
	}
	var out []components.PickerOption
	if f.currentKind() == curriculum.KindTheory {
		for _, g := range f.opts.Groups {
			out = append(out, components.PickerOption{Label: g.Name, Value: g.ID})
		}
		return out
	}
	for _, s := range f.opts.Students {
		out = append(out, components.PickerOption{Label: s.FullName(), Value: s.ID})
	}
	return out
}

// loadTitles requests the title partition for the current kind and owner.
// Only the latest request is applied.
func (f *FormScreen) loadTitles() tea.Cmd {
	gen := f.titleGen.Next()
	owner := f.owner.Value()
	if owner == "" {
		f.title.SetOptions(nil)
		return nil
	}
	kind := f.currentKind()
	groupID, studentIDs := "", []string(nil)
	if kind == curriculum.KindTheory {
		groupID = owner
	} else {
		studentIDs = []string{owner}
	}
	svc := f.svc
	return func() tea.Msg {
		p, err := svc.TitleOptions(context.Background(), kind, groupID, studentIDs)
		return titlesLoadedMsg{gen: gen, part: p, err: err}
	}
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case optionsLoadedMsg:
		f.opts = msg.opts
		if msg.err != nil {
			f.errMsg = msg.err.Error()
		}
		if f.opts == nil {
			return f, nil
		}
		var ins []components.PickerOption
		for _, in := range f.opts.Instructors {
			ins = append(ins, components.PickerOption{Label: in.FullName(), Value: in.ID})
		}
		f.instructor.SetOptions(ins)
		f.owner.SetOptions(f.ownerOptions())
		return f, f.loadTitles()

	case titlesLoadedMsg:
		if !f.titleGen.IsCurrent(msg.gen) {
			return f, nil
		}
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			return f, nil
		}
		opts := make([]components.PickerOption, 0, len(msg.part.Available)+len(msg.part.Unavailable))
		for _, t := range msg.part.Available {
			opts = append(opts, components.PickerOption{Label: t, Value: t})
		}
		for _, t := range msg.part.Unavailable {
			opts = append(opts, components.PickerOption{Label: t, Value: t, Disabled: true})
		}
		f.title.SetOptions(opts)
		return f, nil

	case scheduledMsg:
		f.submitting = false
		if msg.err != nil {
			f.showError(msg.err)
			return f, nil
		}
		f.errMsg = ""
		if len(msg.records) == 0 {
			return f, nil
		}
		f.status = fmt.Sprintf("Scheduled %d class(es): %s on %s at %s",
			len(msg.records), msg.records[0].Title, msg.records[0].Date, msg.records[0].StartTime)
		return f, f.loadTitles()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "down":
			return f, f.setFocus((f.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		case "ctrl+s", "enter":
			return f, f.submit()
		}
		return f, f.updateField(msg)
	}
	return f, nil
}

func (f *FormScreen) updateField(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldKind:
		before := f.kind.Value()
		f.kind, _ = f.kind.Update(msg)
		if f.kind.Value() != before {
			if f.currentKind() == curriculum.KindTheory {
				f.owner.Label = "Group"
				f.duration.SetValue("120")
			} else {
				f.owner.Label = "Student"
				f.duration.SetValue("60")
			}
			f.owner.SetOptions(f.ownerOptions())
			cmd = f.loadTitles()
		}
	case fieldInstructor:
		f.instructor, _ = f.instructor.Update(msg)
	case fieldOwner:
		before := f.owner.Value()
		f.owner, _ = f.owner.Update(msg)
		if f.owner.Value() != before {
			cmd = f.loadTitles()
		}
	case fieldTitle:
		f.title, _ = f.title.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldStart:
		f.start, cmd = f.start.Update(msg)
	case fieldDuration:
		f.duration, cmd = f.duration.Update(msg)
	}
	return cmd
}

func (f *FormScreen) setFocus(i int) tea.Cmd {
	f.focus = i
	f.kind.Focused = i == fieldKind
	f.instructor.Focused = i == fieldInstructor
	f.owner.Focused = i == fieldOwner
	f.title.Focused = i == fieldTitle
	f.date.Blur()
	f.start.Blur()
	f.duration.Blur()
	switch i {
	case fieldDate:
		return f.date.Focus()
	case fieldStart:
		return f.start.Focus()
	case fieldDuration:
		return f.duration.Focus()
	}
	return nil
}

// request builds the wire form of the slot from the current fields.
func (f *FormScreen) request() schedule.SlotRequest {
	mins, _ := strconv.Atoi(strings.TrimSpace(f.duration.Value()))
	r := schedule.SlotRequest{
		Kind:            f.kind.Value(),
		Date:            strings.TrimSpace(f.date.Value()),
		StartTime:       strings.TrimSpace(f.start.Value()),
		DurationMinutes: mins,
		InstructorID:    f.instructor.Value(),
		Title:           f.title.Value(),
	}
	if f.currentKind() == curriculum.KindTheory {
		r.GroupID = f.owner.Value()
	} else if id := f.owner.Value(); id != "" {
		r.StudentIDs = []string{id}
	}
	return r
}

func (f *FormScreen) submit() tea.Cmd {
	if f.submitting {
		return nil
	}
	f.clearErrors()
	slot, err := f.request().Slot()
	if err != nil {
		f.showError(err)
		return nil
	}
	if err := slot.Validate(); err != nil {
		f.showError(err)
		return nil
	}
	f.submitting = true
	svc := f.svc
	return func() tea.Msg {
		recs, err := svc.Schedule(context.Background(), slot)
		return scheduledMsg{records: recs, err: err}
	}
}

func (f *FormScreen) clearErrors() {
	f.errMsg = ""
	f.status = ""
	f.date.Err = ""
	f.start.Err = ""
	f.duration.Err = ""
}

// showError routes field validation messages to their inputs and anything
// else to the form-level error line.
func (f *FormScreen) showError(err error) {
	f.status = ""
	fields := validate.Fields(err)
	if fields == nil {
		f.errMsg = err.Error()
		return
	}
	var rest []string
	for name, m := range fields {
		switch name {
		case "date":
			f.date.Err = m
		case "start_time":
			f.start.Err = m
		case "duration_minutes":
			f.duration.Err = m
		default:
			rest = append(rest, m)
		}
	}
	if len(rest) > 0 {
		slices.Sort(rest)
		f.errMsg = strings.Join(rest, "; ")
	}
}

func (f *FormScreen) View(width, height int) string {
	if f.opts == nil && f.errMsg == "" {
		return layout.RenderMessage("Loading scheduling options...", width, false)
	}
	rows := []string{
		f.kind.View(),
		f.instructor.View(),
		f.owner.View(),
		f.title.View(),
		f.date.View(),
		f.start.View(),
		f.duration.View(),
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, r := range rows {
		marker := "  "
		if i == f.focus {
			marker = theme.Selected.Render("▸ ")
		}
		b.WriteString("  " + marker + r + "\n")
	}
	if start, ok := schedule.ParseHour(f.start.Value()); ok {
		if mins, err := strconv.Atoi(strings.TrimSpace(f.duration.Value())); err == nil {
			if end := schedule.EndTime(schedule.FormatHour(start), mins); end != "" {
				b.WriteString(theme.Hint.Render("      ends at "+end) + "\n")
			}
		}
	}
	b.WriteString("\n")
	switch {
	case f.submitting:
		b.WriteString(theme.Hint.Render("    Saving..."))
	case f.errMsg != "":
		b.WriteString("    " + lipgloss.NewStyle().Foreground(theme.Error).Render(f.errMsg))
	case f.status != "":
		b.WriteString("    " + theme.Done.Render(f.status))
	}
	return b.String()
}
