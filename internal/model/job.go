package model

import "time"

// Job represents a background generation job
type Job struct {
	ID          string            `json:"id"`
	Kind        GenerationKind    `json:"kind"`
	Status      JobStatus         `json:"status"`
	Progress    int               `json:"progress"`
	CurrentStep string            `json:"currentStep,omitempty"`
	Error       *string           `json:"error,omitempty"`
	Result      *GenerationResult `json:"result,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	StartedAt   *time.Time        `json:"startedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// JobRequest represents the request body for POST /api/jobs
type JobRequest struct {
	Kind   GenerationKind `json:"kind" validate:"required,oneof=audio lyrics"`
	Prompt string         `json:"prompt" validate:"required,notblank"`
	Lyrics string         `json:"lyrics,omitempty"`
}

// JobStartResponse represents the response for a queued job
type JobStartResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobTaskPayload is the asynq task payload of a generation job
type JobTaskPayload struct {
	JobID  string         `json:"jobId"`
	Kind   GenerationKind `json:"kind"`
	Prompt string         `json:"prompt"`
	Lyrics string         `json:"lyrics,omitempty"`
}
