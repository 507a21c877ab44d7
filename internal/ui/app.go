package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/theogf/peeplab/internal/config"
	"github.com/theogf/peeplab/internal/gitlab"
	"github.com/theogf/peeplab/internal/types"
	"github.com/theogf/peeplab/internal/ui/keys"
	"github.com/theogf/peeplab/internal/ui/styles"
)

type mode int

const (
	modeNormal mode = iota
	modeViewingLog
	modeViewingComments
	modeSelectingMR
	modeShowingHelp
)

// App is the whole TUI state. All mutation happens inside Update, one
// message at a time, so the fetch commands running in the background
// never race with it.
type App struct {
	cfg    *config.Config
	client *gitlab.Client
	keys   keys.KeyMap
	styles styles.Styles

	projectID   int64
	projectPath string
	branch      string

	mode     mode
	tracked  []*trackedMR
	selected int

	width  int
	height int

	message     string
	msgIsErr    bool
	loading     bool
	lastRefresh time.Time

	spinner spinner.Model
	logView LogViewer
	picker  addMRDialog
}

// New builds the app for one project. branch filters the MR list to a
// single source branch; empty tracks every open MR up to the
// configured cap.
func New(cfg *config.Config, client *gitlab.Client, projectID int64, projectPath, branch string) App {
	st := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Title
	return App{
		cfg:         cfg,
		client:      client,
		keys:        keys.DefaultKeyMap(),
		styles:      st,
		projectID:   projectID,
		projectPath: projectPath,
		branch:      branch,
		loading:     true,
		spinner:     sp,
		logView:     NewLogViewer(st),
		picker:      newAddMRDialog(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadMRs(a.client, a.projectID, a.branch),
		tick(a.cfg.RefreshInterval),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.logView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case mrsLoadedMsg:
		return a.onMRsLoaded(msg)

	case pipelinesLoadedMsg:
		return a.onPipelinesLoaded(msg)

	case jobsLoadedMsg:
		return a.onJobsLoaded(msg)

	case traceLoadedMsg:
		return a.onTraceLoaded(msg)

	case notesLoadedMsg:
		return a.onNotesLoaded(msg)

	case mrAddedMsg:
		return a.onMRAdded(msg)

	case editorFinishedMsg:
		if msg.err != nil {
			return a, a.setError(fmt.Errorf("editor: %w", msg.err))
		}
		return a, nil

	case tickMsg:
		a.loading = true
		return a, tea.Batch(
			loadMRs(a.client, a.projectID, a.branch),
			tick(a.cfg.RefreshInterval),
		)

	case clearMsgMsg:
		a.message = ""
		a.msgIsErr = false
		return a, nil

	case backMsg:
		a.mode = modeNormal
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Text inputs need the remaining messages for cursor blink.
	switch a.mode {
	case modeSelectingMR:
		var cmd tea.Cmd
		a.picker, cmd = a.picker.update(msg)
		return a, cmd
	case modeViewingLog:
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch a.mode {
	case modeViewingLog:
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return a, cmd
	case modeViewingComments:
		return a.handleCommentsKey(msg)
	case modeSelectingMR:
		return a.handlePickerKey(msg)
	case modeShowingHelp:
		switch {
		case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Quit):
			a.mode = modeNormal
		}
		return a, nil
	default:
		return a.handleNormalKey(msg)
	}
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := a.current()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = modeShowingHelp
		return a, nil

	case key.Matches(msg, a.keys.Left):
		a.selected = clamp(a.selected-1, len(a.tracked))
		return a, nil

	case key.Matches(msg, a.keys.Right):
		a.selected = clamp(a.selected+1, len(a.tracked))
		return a, nil

	case key.Matches(msg, a.keys.PrevPipeline):
		if t == nil {
			return a, nil
		}
		t.selectPipeline(-1)
		return a, a.ensureJobs(t)

	case key.Matches(msg, a.keys.NextPipeline):
		if t == nil {
			return a, nil
		}
		t.selectPipeline(1)
		return a, a.ensureJobs(t)

	case key.Matches(msg, a.keys.Up):
		if t != nil {
			t.selectJob(-1)
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if t != nil {
			t.selectJob(1)
		}
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		if t == nil {
			return a, nil
		}
		job := t.selectedJob()
		if job == nil {
			return a, nil
		}
		if trace, ok := t.traces[job.ID]; ok {
			a.logView.SetTrace(trace, job.Name, job.ID)
			a.mode = modeViewingLog
			return a, nil
		}
		return a, tea.Batch(
			a.setStatus(fmt.Sprintf("fetching log for %s...", job.Name)),
			loadTrace(a.client, a.projectID, a.selected, t.mr.IID, job.ID, job.Name),
		)

	case key.Matches(msg, a.keys.Comments):
		if t == nil {
			return a, nil
		}
		a.mode = modeViewingComments
		if !t.notesLoaded {
			return a, tea.Batch(
				a.setStatus("fetching comments..."),
				loadNotes(a.client, a.projectID, a.selected, t.mr.IID),
			)
		}
		return a, nil

	case key.Matches(msg, a.keys.AddMR):
		a.mode = modeSelectingMR
		a.picker = newAddMRDialog()
		return a, a.picker.focus()

	case key.Matches(msg, a.keys.Remove):
		if t == nil {
			return a, nil
		}
		a.tracked = append(a.tracked[:a.selected], a.tracked[a.selected+1:]...)
		a.selected = clamp(a.selected, len(a.tracked))
		return a, a.setStatus(fmt.Sprintf("stopped tracking !%d", t.mr.IID))

	case key.Matches(msg, a.keys.Refresh):
		// Manual refresh also invalidates the lazily fetched caches so
		// a retry actually refetches.
		for _, mr := range a.tracked {
			mr.traces = make(map[int64]string)
			mr.notesLoaded = false
		}
		a.loading = true
		return a, tea.Batch(
			a.setStatus("refreshing..."),
			loadMRs(a.client, a.projectID, a.branch),
		)

	case key.Matches(msg, a.keys.Open):
		if t == nil || t.mr.WebURL == "" {
			return a, nil
		}
		return a, openInBrowser(t.mr.WebURL)

	case key.Matches(msg, a.keys.Yank):
		if t == nil || t.mr.WebURL == "" {
			return a, nil
		}
		if err := clipboard.WriteAll(t.mr.WebURL); err != nil {
			return a, a.setError(fmt.Errorf("clipboard: %w", err))
		}
		return a, a.setStatus("copied MR URL")
	}
	return a, nil
}

func (a App) handleCommentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := a.current()
	switch {
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Comments), key.Matches(msg, a.keys.Quit):
		a.mode = modeNormal
	case key.Matches(msg, a.keys.Up):
		if t != nil {
			t.noteIdx = clamp(t.noteIdx-1, len(t.userNotes()))
		}
	case key.Matches(msg, a.keys.Down):
		if t != nil {
			t.noteIdx = clamp(t.noteIdx+1, len(t.userNotes()))
		}
	case key.Matches(msg, a.keys.Refresh):
		if t != nil {
			t.notesLoaded = false
			return a, tea.Batch(
				a.setStatus("fetching comments..."),
				loadNotes(a.client, a.projectID, a.selected, t.mr.IID),
			)
		}
	}
	return a, nil
}

func (a App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.mode = modeNormal
		return a, nil
	case key.Matches(msg, a.keys.Enter):
		iid, err := strconv.ParseInt(a.picker.value(), 10, 64)
		if err != nil || iid <= 0 {
			a.picker.errText = "enter a merge request number"
			return a, nil
		}
		a.mode = modeNormal
		return a, tea.Batch(
			a.setStatus(fmt.Sprintf("adding !%d...", iid)),
			addMR(a.client, a.projectID, iid),
		)
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.update(msg)
	return a, cmd
}

func (a App) onMRsLoaded(msg mrsLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		return a, a.setError(msg.err)
	}
	a.lastRefresh = time.Now()

	existing := make(map[int64]*trackedMR, len(a.tracked))
	for _, t := range a.tracked {
		existing[t.mr.IID] = t
	}

	var cmds []tea.Cmd
	if a.branch != "" {
		// Focused refresh replaces the tracked set with whatever is
		// open for the branch, carrying caches over by iid.
		next := make([]*trackedMR, 0, len(msg.mrs))
		for _, mr := range msg.mrs {
			if len(next) >= a.cfg.MaxTrackedMRs {
				break
			}
			if t, ok := existing[mr.IID]; ok {
				t.mr = mr
				next = append(next, t)
			} else {
				next = append(next, newTrackedMR(mr))
			}
		}
		a.tracked = next
	} else {
		for _, mr := range msg.mrs {
			if t, ok := existing[mr.IID]; ok {
				t.mr = mr
				continue
			}
			if len(a.tracked) >= a.cfg.MaxTrackedMRs {
				break
			}
			a.tracked = append(a.tracked, newTrackedMR(mr))
		}
	}
	a.selected = clamp(a.selected, len(a.tracked))

	for i, t := range a.tracked {
		t.loading = true
		cmds = append(cmds, loadPipelines(a.client, a.projectID, i, t.mr.IID))
	}
	cmds = append(cmds, a.setStatus(fmt.Sprintf("tracking %d merge requests", len(a.tracked))))
	return a, tea.Batch(cmds...)
}

func (a App) onPipelinesLoaded(msg pipelinesLoadedMsg) (tea.Model, tea.Cmd) {
	t := a.target(msg.idx, msg.iid)
	if t == nil {
		return a, nil
	}
	t.loading = false
	if msg.err != nil {
		return a, a.setError(msg.err)
	}
	t.pipelines = msg.pipelines
	t.clampCursors()
	return a, a.ensureJobs(t)
}

func (a App) onJobsLoaded(msg jobsLoadedMsg) (tea.Model, tea.Cmd) {
	t := a.target(msg.idx, msg.iid)
	if t == nil {
		return a, nil
	}
	if msg.err != nil {
		return a, a.setError(msg.err)
	}
	jobs := msg.jobs
	if jobs == nil {
		jobs = []types.Job{}
	}
	sortJobs(jobs)
	t.jobs[msg.pipelineID] = jobs
	t.clampCursors()
	a.lastRefresh = time.Now()
	return a, nil
}

func (a App) onTraceLoaded(msg traceLoadedMsg) (tea.Model, tea.Cmd) {
	t := a.target(msg.idx, msg.iid)
	if t == nil {
		return a, nil
	}
	if msg.err != nil {
		return a, a.setError(msg.err)
	}
	t.traces[msg.jobID] = msg.trace
	a.logView.SetTrace(msg.trace, msg.jobName, msg.jobID)
	a.mode = modeViewingLog
	a.message = ""
	return a, nil
}

func (a App) onNotesLoaded(msg notesLoadedMsg) (tea.Model, tea.Cmd) {
	t := a.target(msg.idx, msg.iid)
	if t == nil {
		return a, nil
	}
	if msg.err != nil {
		a.mode = modeNormal
		return a, a.setError(msg.err)
	}
	t.notes = msg.notes
	t.notesLoaded = true
	t.noteIdx = 0
	a.message = ""
	return a, nil
}

func (a App) onMRAdded(msg mrAddedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.setError(msg.err)
	}
	for i, t := range a.tracked {
		if t.mr.IID == msg.mr.IID {
			a.selected = i
			return a, a.setStatus(fmt.Sprintf("already tracking !%d", msg.mr.IID))
		}
	}
	if len(a.tracked) >= a.cfg.MaxTrackedMRs {
		return a, a.setError(fmt.Errorf("tracked list is full (%d)", a.cfg.MaxTrackedMRs))
	}
	a.tracked = append(a.tracked, newTrackedMR(*msg.mr))
	a.selected = len(a.tracked) - 1
	return a, tea.Batch(
		a.setStatus(fmt.Sprintf("added !%d", msg.mr.IID)),
		loadPipelines(a.client, a.projectID, a.selected, msg.mr.IID),
	)
}

// target resolves a result message back to the tracked MR it was
// issued for. Results that outlived their target are dropped.
func (a *App) target(idx int, iid int64) *trackedMR {
	if idx < 0 || idx >= len(a.tracked) || a.tracked[idx].mr.IID != iid {
		slog.Debug("dropping stale result", "idx", idx, "iid", iid)
		return nil
	}
	return a.tracked[idx]
}

func (a *App) current() *trackedMR {
	if a.selected < 0 || a.selected >= len(a.tracked) {
		return nil
	}
	return a.tracked[a.selected]
}

// ensureJobs fetches jobs for the selected pipeline unless they are
// already cached.
func (a *App) ensureJobs(t *trackedMR) tea.Cmd {
	p := t.selectedPipeline()
	if p == nil {
		return nil
	}
	if _, ok := t.jobs[p.ID]; ok {
		return nil
	}
	idx := a.indexOf(t)
	if idx < 0 {
		return nil
	}
	return loadJobs(a.client, a.projectID, idx, t.mr.IID, p.ID)
}

func (a *App) indexOf(t *trackedMR) int {
	for i, other := range a.tracked {
		if other == t {
			return i
		}
	}
	return -1
}

func (a *App) busy() bool {
	if a.loading {
		return true
	}
	for _, t := range a.tracked {
		if t.loading {
			return true
		}
	}
	return false
}

func (a *App) setStatus(text string) tea.Cmd {
	a.message = text
	a.msgIsErr = false
	return clearMsg(a.cfg.MsgTimeout)
}

func (a *App) setError(err error) tea.Cmd {
	slog.Warn("status error", "error", err)
	a.message = errorText(err)
	a.msgIsErr = true
	return clearMsg(a.cfg.MsgTimeout)
}

func errorText(err error) string {
	switch gitlab.Kind(err) {
	case gitlab.KindAuth:
		return "authentication failed: check your token"
	case gitlab.KindNotFound:
		return "not found: " + err.Error()
	case gitlab.KindNetwork:
		return "network error: " + err.Error()
	default:
		return err.Error()
	}
}

func (a App) View() string {
	switch a.mode {
	case modeViewingLog:
		return a.logView.View()
	case modeViewingComments:
		return a.viewComments()
	case modeSelectingMR:
		return a.viewPicker()
	case modeShowingHelp:
		return a.viewHelp()
	default:
		return a.viewDashboard()
	}
}
