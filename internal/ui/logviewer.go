package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theogf/peeplab/internal/logproc"
	"github.com/theogf/peeplab/internal/ui/keys"
	"github.com/theogf/peeplab/internal/ui/styles"
)

// LogViewer displays one job trace. The raw trace is processed once
// per load or timestamp-mode change and the lines cached; scrolling
// and match navigation only move cursors over the cache.
type LogViewer struct {
	styles styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	raw     string
	jobName string
	jobID   int64
	mode    logproc.TimestampMode
	lines   []logproc.Line

	offset int

	searching bool
	input     textinput.Model
	query     string
	matches   []logproc.Match
	matchIdx  int
}

func NewLogViewer(st styles.Styles) LogViewer {
	input := textinput.New()
	input.Prompt = "/"
	input.CharLimit = 256
	return LogViewer{
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		input:    input,
		matchIdx: -1,
	}
}

func (v *LogViewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = width - 4
}

// SetTrace loads a trace into the viewer. Reloading the same job with
// identical content keeps the scroll position and search state.
func (v *LogViewer) SetTrace(raw, jobName string, jobID int64) {
	if jobID == v.jobID && raw == v.raw {
		return
	}
	v.raw = raw
	v.jobName = jobName
	v.jobID = jobID
	v.lines = logproc.Process(raw, v.mode)
	v.offset = 0
	v.query = ""
	v.matches = nil
	v.matchIdx = -1
	v.searching = false
	v.input.SetValue("")
}

func (v LogViewer) Update(msg tea.Msg) (LogViewer, tea.Cmd) {
	if v.searching {
		return v.updateSearch(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	page := v.contentHeight()
	switch {
	case key.Matches(keyMsg, v.keys.Back), key.Matches(keyMsg, v.keys.Quit):
		return v, back

	case key.Matches(keyMsg, v.keys.Up):
		v.scroll(-1)
	case key.Matches(keyMsg, v.keys.Down):
		v.scroll(1)
	case key.Matches(keyMsg, v.keys.PageUp):
		v.scroll(-page)
	case key.Matches(keyMsg, v.keys.PageDown):
		v.scroll(page)
	case key.Matches(keyMsg, v.keys.HalfPageUp):
		v.scroll(-page / 2)
	case key.Matches(keyMsg, v.keys.HalfPageDown):
		v.scroll(page / 2)
	case key.Matches(keyMsg, v.keys.Top):
		v.offset = 0
	case key.Matches(keyMsg, v.keys.Bottom):
		v.offset = v.maxOffset()

	case key.Matches(keyMsg, v.keys.Timestamps):
		// Mode changes rebuild the line cache. Search matches index
		// into stripped text, which the mode does not affect, so they
		// stay valid as is.
		v.mode = v.mode.Next()
		v.lines = logproc.Process(v.raw, v.mode)

	case key.Matches(keyMsg, v.keys.Search):
		v.searching = true
		v.input.SetValue(v.query)
		return v, v.input.Focus()

	case key.Matches(keyMsg, v.keys.SearchNext):
		v.jumpMatch(1)
	case key.Matches(keyMsg, v.keys.SearchPrev):
		v.jumpMatch(-1)

	case key.Matches(keyMsg, v.keys.Editor):
		return v, openInEditor(v.raw, v.jobName)
	}
	return v, nil
}

func (v LogViewer) updateSearch(msg tea.Msg) (LogViewer, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			v.searching = false
			v.input.Blur()
			v.query = v.input.Value()
			v.matches = logproc.Search(v.lines, v.query)
			v.matchIdx = -1
			v.jumpMatch(1)
			return v, nil
		case "esc":
			v.searching = false
			v.input.Blur()
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *LogViewer) scroll(delta int) {
	v.offset += delta
	if v.offset < 0 {
		v.offset = 0
	}
	if max := v.maxOffset(); v.offset > max {
		v.offset = max
	}
}

func (v *LogViewer) maxOffset() int {
	max := len(v.lines) - v.contentHeight()
	if max < 0 {
		return 0
	}
	return max
}

func (v *LogViewer) contentHeight() int {
	h := v.height - 2 // title + footer
	if h < 1 {
		return 1
	}
	return h
}

// jumpMatch moves the match cursor and centers the view on it.
func (v *LogViewer) jumpMatch(dir int) {
	v.matchIdx = logproc.NextMatch(v.matchIdx, dir, len(v.matches))
	if v.matchIdx < 0 {
		return
	}
	line := v.matches[v.matchIdx].Line
	v.offset = line - v.contentHeight()/2
	if v.offset < 0 {
		v.offset = 0
	}
	if max := v.maxOffset(); v.offset > max {
		v.offset = max
	}
}

func (v LogViewer) View() string {
	w := v.width
	if w == 0 {
		w = 80
	}

	title := v.styles.Title.Render(" log: "+v.jobName) +
		v.styles.Dimmed.Render(fmt.Sprintf("  timestamps: %s", v.mode))
	if len(v.matches) > 0 {
		title += v.styles.Dimmed.Render(fmt.Sprintf("  match %d/%d", v.matchIdx+1, len(v.matches)))
	} else if v.query != "" {
		title += v.styles.Dimmed.Render("  no matches")
	}

	body := v.renderBody(w)

	var footer string
	if v.searching {
		footer = v.input.View()
	} else {
		footer = v.styles.HelpKey.Render("/") + v.styles.HelpDesc.Render(" search  ") +
			v.styles.HelpKey.Render("n/N") + v.styles.HelpDesc.Render(" match  ") +
			v.styles.HelpKey.Render("t") + v.styles.HelpDesc.Render(" timestamps  ") +
			v.styles.HelpKey.Render("e") + v.styles.HelpDesc.Render(" editor  ") +
			v.styles.HelpKey.Render("esc") + v.styles.HelpDesc.Render(" back")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		ansi.Truncate(title, w, "…"),
		body,
		ansi.Truncate(footer, w, "…"),
	)
}

func (v LogViewer) renderBody(width int) string {
	h := v.contentHeight()
	rows := make([]string, 0, h)
	for i := v.offset; i < len(v.lines) && i-v.offset < h; i++ {
		rows = append(rows, ansi.Truncate(v.renderLine(i, width), width, "…"))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (v LogViewer) renderLine(i, width int) string {
	line := v.lines[i]
	num := v.styles.LogLineNumber.Render(fmt.Sprintf("%d ", i+1))
	prefix := ""
	if line.Prefix != "" {
		prefix = v.styles.LogTimestamp.Render(line.Prefix)
	}
	return num + prefix + v.renderText(i, line)
}

// renderText applies the line's decoded spans, except on lines with
// search matches where the match highlight takes over.
func (v LogViewer) renderText(idx int, line logproc.Line) string {
	if v.query != "" {
		if s, ok := v.renderMatches(idx, line.Text); ok {
			return s
		}
	}
	if len(line.Spans) == 0 {
		return v.styles.LogLine.Render(line.Text)
	}
	var b strings.Builder
	pos := 0
	for _, span := range line.Spans {
		if span.Start > pos {
			b.WriteString(v.styles.LogLine.Render(line.Text[pos:span.Start]))
		}
		b.WriteString(spanStyle(span).Render(line.Text[span.Start:span.End]))
		pos = span.End
	}
	if pos < len(line.Text) {
		b.WriteString(v.styles.LogLine.Render(line.Text[pos:]))
	}
	return b.String()
}

func (v LogViewer) renderMatches(idx int, text string) (string, bool) {
	var b strings.Builder
	pos := 0
	found := false
	for _, m := range v.matches {
		if m.Line != idx {
			continue
		}
		found = true
		if m.Offset > pos {
			b.WriteString(v.styles.LogLine.Render(text[pos:m.Offset]))
		}
		b.WriteString(v.styles.SearchMatch.Render(text[m.Offset : m.Offset+m.Length]))
		pos = m.Offset + m.Length
	}
	if !found {
		return "", false
	}
	if pos < len(text) {
		b.WriteString(v.styles.LogLine.Render(text[pos:]))
	}
	return b.String(), true
}

func spanStyle(span logproc.Span) lipgloss.Style {
	st := lipgloss.NewStyle()
	if span.Fg != "" {
		st = st.Foreground(lipgloss.Color(span.Fg))
	}
	if span.Bg != "" {
		st = st.Background(lipgloss.Color(span.Bg))
	}
	if span.Bold {
		st = st.Bold(true)
	}
	if span.Faint {
		st = st.Faint(true)
	}
	if span.Italic {
		st = st.Italic(true)
	}
	if span.Underline {
		st = st.Underline(true)
	}
	return st
}
