package domain

import (
	"time"
)

type JobType string

const (
	JobTypeVideoTranscode JobType = "video_transcode"
)

// Valid reports whether t is a job kind the pipeline knows how to run.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeVideoTranscode:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// DefaultMaxAttempts is the retry budget given to a job when the caller does not set one.
const DefaultMaxAttempts = 3

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type Job struct {
	ID          string     `json:"id"`
	MediaID     string     `json:"media_id"`
	Type        JobType    `json:"type"`
	Status      JobStatus  `json:"status"`
	SourcePath  string     `json:"source_path"`
	TargetPath  string     `json:"target_path"`
	Error       string     `json:"error,omitempty"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CanRetry returns true while the job still has attempts left in its budget.
func (j *Job) CanRetry() bool {
	return j.Attempts < j.MaxAttempts
}

// NewJob carries what a caller supplies when enqueueing work.
type NewJob struct {
	MediaID     string
	Type        JobType
	SourcePath  string
	TargetPath  string
	MaxAttempts int
}

type JobStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
