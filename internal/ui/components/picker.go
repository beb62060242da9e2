package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivedesk/internal/ui/theme"
)

// PickerOption is one choice of a Picker. Disabled options are shown but
// cannot be chosen.
type PickerOption struct {
	Label    string
	Value    string
	Disabled bool
}

// Picker is a single-choice list that cycles with left/right when focused.
type Picker struct {
	Label    string
	Options  []PickerOption
	Selected int
	Focused  bool
}

// NewPicker creates a picker positioned on the first enabled option.
func NewPicker(label string, opts []PickerOption) Picker {
	p := Picker{Label: label, Options: opts, Selected: -1}
	p.step(1)
	return p
}

// Value returns the selected option's value, or "" when nothing is
// selectable.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected].Value
}

// SetOptions replaces the options, keeping the selected value when it is
// still enabled.
func (p *Picker) SetOptions(opts []PickerOption) {
	prev := p.Value()
	p.Options = opts
	p.Selected = -1
	for i, o := range opts {
		if o.Value == prev && !o.Disabled {
			p.Selected = i
			return
		}
	}
	p.step(1)
}

func (p *Picker) step(dir int) {
	n := len(p.Options)
	if n == 0 {
		p.Selected = -1
		return
	}
	i := p.Selected
	for range n {
		i = (i + dir + n) % n
		if !p.Options[i].Disabled {
			p.Selected = i
			return
		}
	}
	if p.Selected >= 0 && p.Options[p.Selected].Disabled {
		p.Selected = -1
	}
}

// Update handles left/right cycling.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.Focused {
		return p, nil
	}
	switch kmsg.String() {
	case "left", "h":
		p.step(-1)
	case "right", "l", "space":
		p.step(1)
	}
	return p, nil
}

// View renders the label and the selected option, plus a count of options
// that are unavailable.
func (p Picker) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14)
	if p.Focused {
		labelStyle = labelStyle.Foreground(theme.Primary).Bold(true)
	}
	value := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("(none available)")
	if p.Selected >= 0 {
		value = theme.Unselected.Render("◂ " + p.Options[p.Selected].Label + " ▸")
	}
	disabled := 0
	for _, o := range p.Options {
		if o.Disabled {
			disabled++
		}
	}
	out := labelStyle.Render(p.Label) + value
	if disabled > 0 {
		out += "  " + theme.Hint.Render(fmt.Sprintf("%d taken", disabled))
	}
	return out
}
