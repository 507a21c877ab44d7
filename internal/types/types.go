package types

import "time"

// Project is a GitLab project, as returned by /projects/:id.
type Project struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// User is the author of a merge request or note.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// MergeRequest is one open MR on the tracked project. IID is the
// project-local sequence number used by every nested endpoint.
type MergeRequest struct {
	ID           int64     `json:"id"`
	IID          int64     `json:"iid"`
	Title        string    `json:"title"`
	Author       User      `json:"author"`
	State        string    `json:"state"`
	SourceBranch string    `json:"source_branch"`
	WebURL       string    `json:"web_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Pipeline is one CI run attached to an MR. The API returns them
// newest first and the dashboard preserves that order.
type Pipeline struct {
	ID        int64     `json:"id"`
	IID       int64     `json:"iid"`
	Status    string    `json:"status"`
	Ref       string    `json:"ref"`
	SHA       string    `json:"sha"`
	WebURL    string    `json:"web_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job is one unit of work within a pipeline.
type Job struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Stage      string     `json:"stage"`
	WebURL     string     `json:"web_url"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	DurationS  *float64   `json:"duration"`
}

// Note is an MR comment. System notes are GitLab-generated events
// (label changes, pushes); the comments view filters them out.
type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    User      `json:"author"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pipeline and job statuses reported by GitLab.
const (
	StatusFailed   = "failed"
	StatusRunning  = "running"
	StatusPending  = "pending"
	StatusCanceled = "canceled"
	StatusCreated  = "created"
	StatusManual   = "manual"
	StatusSuccess  = "success"
	StatusSkipped  = "skipped"
)

var statusRank = map[string]int{
	StatusFailed:   0,
	StatusRunning:  1,
	StatusPending:  2,
	StatusCanceled: 3,
	StatusCreated:  4,
	StatusManual:   5,
	StatusSuccess:  6,
	StatusSkipped:  7,
}

// StatusRank orders statuses most-urgent first (failed before running
// before pending, …). Unknown statuses sort last.
func StatusRank(status string) int {
	if r, ok := statusRank[status]; ok {
		return r
	}
	return len(statusRank)
}

// Duration returns the job's runtime. Running jobs report elapsed time
// since start; jobs that never started report zero.
func (j *Job) Duration() time.Duration {
	if j.DurationS != nil {
		return time.Duration(*j.DurationS * float64(time.Second))
	}
	if j.StartedAt == nil {
		return 0
	}
	if j.FinishedAt != nil {
		return j.FinishedAt.Sub(*j.StartedAt)
	}
	return time.Since(*j.StartedAt)
}
