package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theogf/peeplab/internal/gitlab"
	"github.com/theogf/peeplab/internal/types"
)

// Commands are the asynchronous side of the app: each one runs on its
// own goroutine, performs exactly one API call (bounded by the
// client's timeout), and delivers exactly one result message back into
// the program's message stream. None of them touch the model.

func loadMRs(client *gitlab.Client, projectID int64, sourceBranch string) tea.Cmd {
	return func() tea.Msg {
		mrs, err := client.ListMergeRequests(context.Background(), projectID, sourceBranch)
		if err != nil {
			slog.Debug("load merge requests", "error", err)
			return mrsLoadedMsg{err: err}
		}
		return mrsLoadedMsg{mrs: mrs}
	}
}

func loadPipelines(client *gitlab.Client, projectID int64, idx int, iid int64) tea.Cmd {
	return func() tea.Msg {
		pipelines, err := client.ListPipelines(context.Background(), projectID, iid)
		if err != nil {
			return pipelinesLoadedMsg{idx: idx, iid: iid, err: err}
		}
		return pipelinesLoadedMsg{idx: idx, iid: iid, pipelines: pipelines}
	}
}

func loadJobs(client *gitlab.Client, projectID int64, idx int, iid, pipelineID int64) tea.Cmd {
	return func() tea.Msg {
		jobs, err := client.ListJobs(context.Background(), projectID, pipelineID)
		if err != nil {
			return jobsLoadedMsg{idx: idx, iid: iid, pipelineID: pipelineID, err: err}
		}
		return jobsLoadedMsg{idx: idx, iid: iid, pipelineID: pipelineID, jobs: jobs}
	}
}

func loadTrace(client *gitlab.Client, projectID int64, idx int, iid, jobID int64, jobName string) tea.Cmd {
	return func() tea.Msg {
		trace, err := client.GetJobTrace(context.Background(), projectID, jobID)
		if err != nil {
			return traceLoadedMsg{idx: idx, iid: iid, jobID: jobID, jobName: jobName, err: err}
		}
		return traceLoadedMsg{idx: idx, iid: iid, jobID: jobID, jobName: jobName, trace: trace}
	}
}

func loadNotes(client *gitlab.Client, projectID int64, idx int, iid int64) tea.Cmd {
	return func() tea.Msg {
		notes, err := client.ListNotes(context.Background(), projectID, iid)
		if err != nil {
			return notesLoadedMsg{idx: idx, iid: iid, err: err}
		}
		return notesLoadedMsg{idx: idx, iid: iid, notes: notes}
	}
}

func addMR(client *gitlab.Client, projectID, mrIID int64) tea.Cmd {
	return func() tea.Msg {
		mr, err := client.GetMergeRequest(context.Background(), projectID, mrIID)
		if err != nil {
			return mrAddedMsg{err: err}
		}
		return mrAddedMsg{mr: mr}
	}
}

func back() tea.Msg { return backMsg{} }

// tick re-arms the refresh timer for one interval. It is scheduled
// again by Update on every tickMsg, so the cadence is ordinary
// message flow rather than a recurring system timer.
func tick(interval int) tea.Cmd {
	return tea.Tick(time.Duration(interval)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearMsg(timeout int) tea.Cmd {
	return tea.Tick(time.Duration(timeout)*time.Second, func(time.Time) tea.Msg {
		return clearMsgMsg{}
	})
}

// openInEditor writes the raw trace to a temp file and suspends the
// TUI while $EDITOR runs; bubbletea restores the terminal around the
// child process.
func openInEditor(trace, jobName string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vim"
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("peeplab-%s.log", sanitizeFilename(jobName)))
	if err := os.WriteFile(path, []byte(trace), 0o600); err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}
	return tea.ExecProcess(exec.Command(editor, path), func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func sanitizeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', ' ':
			out[i] = '-'
		}
	}
	return string(out)
}

// openInBrowser launches the platform opener; failures only log.
func openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Start(); err != nil {
			slog.Warn("open browser", "url", url, "error", err)
		}
		return nil
	}
}

// sortJobs orders jobs failed-first so the job a user most likely
// wants is selected by default.
func sortJobs(jobs []types.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return types.StatusRank(jobs[i].Status) < types.StatusRank(jobs[j].Status)
	})
}
