package entity

type ProgressStatus string

const (
	ProgressStatusQueued     ProgressStatus = "queued"
	ProgressStatusProcessing ProgressStatus = "processing"
	ProgressStatusCompleted  ProgressStatus = "completed"
	ProgressStatusError      ProgressStatus = "error"
)

// ProgressSnapshot is the progress record for a task. Each snapshot fully
// supersedes the previous one for the same task; within a single run progress
// is non-decreasing and status never leaves a terminal state.
type ProgressSnapshot struct {
	TaskID   string         `json:"task_id"`
	Progress int            `json:"progress"`
	Message  string         `json:"message"`
	Status   ProgressStatus `json:"status"`
}
