package model

// Generation kinds
type GenerationKind string

const (
	KindAudio  GenerationKind = "audio"
	KindLyrics GenerationKind = "lyrics"
)

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether no further transitions can happen.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Result status
const StatusCompleted = "completed"
