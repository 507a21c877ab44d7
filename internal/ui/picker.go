package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theogf/peeplab/internal/ui/styles"
)

// addMRDialog prompts for a merge request iid to start tracking.
type addMRDialog struct {
	input   textinput.Model
	errText string
}

func newAddMRDialog() addMRDialog {
	input := textinput.New()
	input.Prompt = "!"
	input.Placeholder = "merge request number"
	input.CharLimit = 10
	return addMRDialog{input: input}
}

func (d *addMRDialog) focus() tea.Cmd {
	return d.input.Focus()
}

func (d addMRDialog) value() string {
	return strings.TrimSpace(strings.TrimPrefix(d.input.Value(), "!"))
}

func (d addMRDialog) update(msg tea.Msg) (addMRDialog, tea.Cmd) {
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (a App) viewPicker() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorPurple).
		Padding(1, 2).
		Width(min(44, w-4))

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("track a merge request"))
	b.WriteString("\n\n")
	b.WriteString(a.picker.input.View())
	if a.picker.errText != "" {
		b.WriteString("\n" + a.styles.Error.Render(a.picker.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(a.styles.HelpKey.Render("enter") + a.styles.HelpDesc.Render(" add  ") +
		a.styles.HelpKey.Render("esc") + a.styles.HelpDesc.Render(" cancel"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
