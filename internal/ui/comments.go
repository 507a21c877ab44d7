package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/theogf/peeplab/internal/types"
)

// userNotes returns the MR's discussion notes with system events
// (pushes, label changes) filtered out.
func (t *trackedMR) userNotes() []types.Note {
	var out []types.Note
	for _, n := range t.notes {
		if !n.System {
			out = append(out, n)
		}
	}
	return out
}

func (a App) viewComments() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	t := a.current()
	if t == nil {
		return a.styles.Dimmed.Render(" no merge request selected")
	}

	title := a.styles.Title.Render(fmt.Sprintf(" comments on !%d %s", t.mr.IID, t.mr.Title))
	footer := a.styles.HelpKey.Render("j/k") + a.styles.HelpDesc.Render(" scroll  ") +
		a.styles.HelpKey.Render("r") + a.styles.HelpDesc.Render(" reload  ") +
		a.styles.HelpKey.Render("esc") + a.styles.HelpDesc.Render(" back")

	notes := t.userNotes()
	var body string
	switch {
	case !t.notesLoaded:
		body = a.styles.Dimmed.Render(" " + a.spinner.View() + " loading comments...")
	case len(notes) == 0:
		body = a.styles.Dimmed.Render(" no comments")
	default:
		body = a.renderNotes(notes, t.noteIdx, w, h-2)
	}

	return ansi.Truncate(title, w, "…") + "\n" + body + "\n" + footer
}

// renderNotes renders notes from the cursor down, markdown through
// glamour, until the panel is full.
func (a App) renderNotes(notes []types.Note, cursor, width, height int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)

	var rows []string
	for i := cursor; i < len(notes) && len(rows) < height; i++ {
		n := notes[i]
		header := fmt.Sprintf("%s %s",
			a.styles.Author.Render("@"+n.Author.Username),
			a.styles.Dimmed.Render(n.CreatedAt.Format(timestampFormat)))
		if i == cursor {
			header = a.styles.Selected.Render(fmt.Sprintf("(%d/%d)", i+1, len(notes))) + " " + header
		}
		rows = append(rows, header)

		body := n.Body
		if err == nil {
			if md, rerr := renderer.Render(n.Body); rerr == nil {
				body = strings.TrimRight(md, "\n")
			}
		}
		for _, line := range strings.Split(body, "\n") {
			if len(rows) >= height {
				break
			}
			rows = append(rows, ansi.Truncate(line, width, "…"))
		}
		if len(rows) < height {
			rows = append(rows, "")
		}
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows[:height], "\n")
}
