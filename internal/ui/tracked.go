package ui

import "github.com/theogf/peeplab/internal/types"

// trackedMR is one merge request under observation together with
// everything fetched on its behalf. Jobs are cached per pipeline so
// switching between pipelines of the same MR never refetches.
type trackedMR struct {
	mr          types.MergeRequest
	pipelines   []types.Pipeline
	jobs        map[int64][]types.Job
	traces      map[int64]string
	notes       []types.Note
	notesLoaded bool
	pipelineIdx int
	jobIdx      int
	noteIdx     int
	loading     bool
}

func newTrackedMR(mr types.MergeRequest) *trackedMR {
	return &trackedMR{
		mr:      mr,
		jobs:    make(map[int64][]types.Job),
		traces:  make(map[int64]string),
		loading: true,
	}
}

// selectedPipeline returns the pipeline under the cursor, or nil when
// none have loaded yet.
func (t *trackedMR) selectedPipeline() *types.Pipeline {
	if t.pipelineIdx < 0 || t.pipelineIdx >= len(t.pipelines) {
		return nil
	}
	return &t.pipelines[t.pipelineIdx]
}

// selectedJobs returns the cached jobs of the selected pipeline. A nil
// slice means they have not been fetched yet.
func (t *trackedMR) selectedJobs() []types.Job {
	p := t.selectedPipeline()
	if p == nil {
		return nil
	}
	return t.jobs[p.ID]
}

func (t *trackedMR) selectedJob() *types.Job {
	jobs := t.selectedJobs()
	if t.jobIdx < 0 || t.jobIdx >= len(jobs) {
		return nil
	}
	return &jobs[t.jobIdx]
}

func (t *trackedMR) clampCursors() {
	t.pipelineIdx = clamp(t.pipelineIdx, len(t.pipelines))
	t.jobIdx = clamp(t.jobIdx, len(t.selectedJobs()))
	t.noteIdx = clamp(t.noteIdx, len(t.userNotes()))
}

// clamp keeps a cursor inside [0, n-1], falling back to 0 for empty
// collections.
func clamp(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func (t *trackedMR) selectPipeline(delta int) {
	t.pipelineIdx = clamp(t.pipelineIdx+delta, len(t.pipelines))
	t.jobIdx = 0
}

func (t *trackedMR) selectJob(delta int) {
	t.jobIdx = clamp(t.jobIdx+delta, len(t.selectedJobs()))
}
