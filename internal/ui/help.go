package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (a App) viewHelp() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"navigation", []key.Binding{
			a.keys.Left, a.keys.Right, a.keys.PrevPipeline, a.keys.NextPipeline,
			a.keys.Up, a.keys.Down,
		}},
		{"merge requests", []key.Binding{
			a.keys.AddMR, a.keys.Remove, a.keys.Comments, a.keys.Open, a.keys.Yank,
			a.keys.Refresh,
		}},
		{"log view", []key.Binding{
			a.keys.Enter, a.keys.Search, a.keys.SearchNext, a.keys.SearchPrev,
			a.keys.Timestamps, a.keys.Editor, a.keys.Top, a.keys.Bottom,
		}},
		{"general", []key.Binding{
			a.keys.Help, a.keys.Back, a.keys.Quit,
		}},
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("key bindings"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n" + a.styles.Branch.Render(s.title) + "\n")
		for _, binding := range s.bindings {
			help := binding.Help()
			b.WriteString("  " + a.styles.HelpKey.Render(padRight(help.Key, 8)) +
				a.styles.HelpDesc.Render(help.Desc) + "\n")
		}
	}
	b.WriteString("\n" + a.styles.Dimmed.Render("press esc to close"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, b.String())
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
