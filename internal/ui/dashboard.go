package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theogf/peeplab/internal/types"
	"github.com/theogf/peeplab/internal/ui/styles"
)

const timestampFormat = "2006-01-02 15:04"

func (a App) viewDashboard() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	bodyH := h - 4 // title + tabs + pipeline line + help
	if bodyH < 5 {
		bodyH = 5
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTitle(w),
		a.renderTabs(w),
		a.renderPipelineLine(w),
		lipgloss.NewStyle().Width(w).Height(bodyH).Render(a.renderJobs(w, bodyH)),
		a.renderStatusBar(w),
	)
}

func (a App) renderTitle(width int) string {
	title := " peeplab"
	if a.projectPath != "" {
		title += "  " + a.projectPath
	}
	if a.branch != "" {
		title += "  " + a.styles.Branch.Render("["+a.branch+"]")
	}
	right := ""
	if !a.lastRefresh.IsZero() {
		right = a.styles.Dimmed.Render("updated " + a.lastRefresh.Format("15:04:05") + " ")
	}
	if a.busy() {
		right = a.spinner.View() + " " + right
	}
	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return a.styles.Title.Render(title) + strings.Repeat(" ", gap) + right
}

// renderTabs draws one tab per tracked MR, the selected one
// highlighted, each prefixed with the status icon of its latest
// pipeline.
func (a App) renderTabs(width int) string {
	if len(a.tracked) == 0 {
		return a.styles.Dimmed.Render(" no merge requests tracked (a to add, r to refresh)")
	}
	var tabs []string
	for i, t := range a.tracked {
		icon := "•"
		style := a.styles.StatusPending
		if len(t.pipelines) > 0 {
			icon = styles.StatusIcon(t.pipelines[0].Status)
			style = a.styles.StatusStyle(t.pipelines[0].Status)
		}
		label := fmt.Sprintf(" %s !%d %s ", style.Render(icon), t.mr.IID, ansi.Truncate(t.mr.Title, 24, "…"))
		if i == a.selected {
			tabs = append(tabs, a.styles.Selected.Render(label))
		} else {
			tabs = append(tabs, a.styles.Dimmed.Render(label))
		}
	}
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), width, "…")
}

// renderPipelineLine shows which pipeline of the selected MR is in
// view, plus the MR's branch and author for orientation.
func (a App) renderPipelineLine(width int) string {
	t := a.current()
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(a.styles.Branch.Render(t.mr.SourceBranch))
	b.WriteString("  ")
	b.WriteString(a.styles.Author.Render("@" + t.mr.Author.Username))
	b.WriteString("  ")

	p := t.selectedPipeline()
	switch {
	case t.loading && len(t.pipelines) == 0:
		b.WriteString(a.styles.Dimmed.Render("loading pipelines..."))
	case p == nil:
		b.WriteString(a.styles.Dimmed.Render("no pipelines"))
	default:
		style := a.styles.StatusStyle(p.Status)
		b.WriteString(style.Render(fmt.Sprintf("%s pipeline #%d %s", styles.StatusIcon(p.Status), p.ID, p.Status)))
		b.WriteString(a.styles.Dimmed.Render(fmt.Sprintf("  (%d/%d, [ ] to switch)", t.pipelineIdx+1, len(t.pipelines))))
		if !p.CreatedAt.IsZero() {
			b.WriteString("  " + a.styles.Dimmed.Render(p.CreatedAt.Format(timestampFormat)))
		}
	}
	return ansi.Truncate(b.String(), width, "…")
}

func (a App) renderJobs(width, height int) string {
	t := a.current()
	if t == nil {
		return ""
	}
	p := t.selectedPipeline()
	if p == nil {
		return ""
	}
	jobs, ok := t.jobs[p.ID]
	if !ok {
		return a.styles.Dimmed.Render(" loading jobs...")
	}
	if len(jobs) == 0 {
		return a.styles.Dimmed.Render(" pipeline has no jobs")
	}

	// Keep the cursor visible when the list is taller than the panel.
	start := 0
	if t.jobIdx >= height {
		start = t.jobIdx - height + 1
	}

	var rows []string
	for i := start; i < len(jobs) && i-start < height; i++ {
		rows = append(rows, a.renderJobRow(jobs[i], i == t.jobIdx, width))
	}
	return strings.Join(rows, "\n")
}

func (a App) renderJobRow(job types.Job, selected bool, width int) string {
	style := a.styles.StatusStyle(job.Status)
	icon := style.Render(styles.StatusIcon(job.Status))

	name := job.Name
	if job.Stage != "" {
		name = job.Stage + " / " + job.Name
	}

	dur := ""
	if d := job.Duration(); d > 0 {
		dur = a.styles.Duration.Render(formatDuration(d))
	}

	row := fmt.Sprintf("  %s %-9s %s  %s", icon, job.Status, name, dur)
	row = ansi.Truncate(row, width, "…")
	if selected {
		return a.styles.Selected.Render(ansi.Strip(row))
	}
	return row
}

func (a App) renderStatusBar(width int) string {
	if a.message != "" {
		if a.msgIsErr {
			return a.styles.Error.Render(" " + a.message)
		}
		return a.styles.Normal.Render(" " + a.message)
	}
	hints := []struct{ k, d string }{
		{"h/l", "MR"},
		{"[/]", "pipeline"},
		{"j/k", "job"},
		{"enter", "log"},
		{"c", "comments"},
		{"r", "refresh"},
		{"?", "help"},
		{"q", "quit"},
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, a.styles.HelpKey.Render(h.k)+" "+a.styles.HelpDesc.Render(h.d))
	}
	return ansi.Truncate(" "+strings.Join(parts, "  "), width, "…")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
