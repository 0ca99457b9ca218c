package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// RenderOptions controls subtitle styling for rendered clips.
type RenderOptions struct {
	FontFamily string
	FontSize   int
	FontColor  string
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		FontFamily: "TikTokSans-Regular",
		FontSize:   24,
		FontColor:  "#FFFFFF",
	}
}

// ClipJob is the durable record of one highlight-extraction run. The queue
// runtime owns the job while it is queued; the worker owns it only during
// active execution.
type ClipJob struct {
	ID           uuid.UUID
	URL          string
	SourceType   SourceType
	Title        string
	Options      RenderOptions
	Status       JobStatus
	SegmentCount int
	ClipCount    int
	Summary      string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func NewClipJob(id uuid.UUID, url string, sourceType SourceType, opts RenderOptions) *ClipJob {
	now := time.Now().UTC()
	return &ClipJob{
		ID:         id,
		URL:        url,
		SourceType: sourceType,
		Options:    opts,
		Status:     JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (j *ClipJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.UpdatedAt = time.Now().UTC()
}

func (j *ClipJob) MarkCompleted(title string, segmentCount, clipCount int, summary string) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.Title = title
	j.SegmentCount = segmentCount
	j.ClipCount = clipCount
	j.Summary = summary
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *ClipJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}
