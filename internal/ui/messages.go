package ui

import (
	"time"

	"github.com/theogf/peeplab/internal/types"
)

// Result messages delivered by completed commands. Messages that
// target one tracked MR carry both its index and its iid; Update drops
// results whose target no longer matches the live list.
type (
	mrsLoadedMsg struct {
		mrs []types.MergeRequest
		err error
	}
	pipelinesLoadedMsg struct {
		idx       int
		iid       int64
		pipelines []types.Pipeline
		err       error
	}
	jobsLoadedMsg struct {
		idx        int
		iid        int64
		pipelineID int64
		jobs       []types.Job
		err        error
	}
	traceLoadedMsg struct {
		idx     int
		iid     int64
		jobID   int64
		jobName string
		trace   string
		err     error
	}
	notesLoadedMsg struct {
		idx   int
		iid   int64
		notes []types.Note
		err   error
	}
	mrAddedMsg struct {
		mr  *types.MergeRequest
		err error
	}
	editorFinishedMsg struct {
		err error
	}
	tickMsg     time.Time
	clearMsgMsg struct{}
	backMsg     struct{}
)
