package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/musicmixer/api/internal/model"
)

const (
	TaskTypeGenerate = "generation:process"
	QueueGeneration  = "generation"
)

// JobStore persists job records
type JobStore interface {
	Save(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
}

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService handles asynchronous generation jobs
type JobService struct {
	store    JobStore
	enqueuer TaskEnqueuer
}

func NewJobService(store JobStore, enqueuer TaskEnqueuer) *JobService {
	return &JobService{
		store:    store,
		enqueuer: enqueuer,
	}
}

// Start records a queued job and enqueues its task
func (s *JobService) Start(ctx context.Context, req *model.JobRequest) (*model.JobStartResponse, error) {
	if isBlank(req.Prompt) {
		return nil, ErrPromptRequired
	}

	jobID := uuid.New().String()
	now := time.Now().UTC()

	job := &model.Job{
		ID:        jobID,
		Kind:      req.Kind,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: now,
	}

	if err := s.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newGenerationTask(&model.JobTaskPayload{
		JobID:  jobID,
		Kind:   req.Kind,
		Prompt: req.Prompt,
		Lyrics: req.Lyrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Generation is never retried.
	_, err = s.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(QueueGeneration),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.JobStartResponse{
		JobID:     jobID,
		Status:    model.JobStatusQueued,
		CreatedAt: now,
	}, nil
}

// GetStatus returns the current job record
func (s *JobService) GetStatus(ctx context.Context, jobID string) (*model.Job, error) {
	return s.store.Get(ctx, jobID)
}

// GetResult returns the result of a succeeded job
func (s *JobService) GetResult(ctx context.Context, jobID string) (*model.GenerationResult, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusSucceeded || job.Result == nil {
		return nil, ErrJobNotFinished
	}

	return job.Result, nil
}

// UpdateProgress updates job progress (called by worker)
func (s *JobService) UpdateProgress(ctx context.Context, jobID string, progress int, step string) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = progress
	job.CurrentStep = step

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now().UTC()
		job.StartedAt = &now
	}

	return s.store.Save(ctx, job)
}

// Complete marks job as succeeded (called by worker)
func (s *JobService) Complete(ctx context.Context, jobID string, result *model.GenerationResult) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.CurrentStep = ""
	job.Result = result
	now := time.Now().UTC()
	job.CompletedAt = &now

	return s.store.Save(ctx, job)
}

// Fail marks job as failed (called by worker)
func (s *JobService) Fail(ctx context.Context, jobID string, errMsg string) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	now := time.Now().UTC()
	job.CompletedAt = &now

	return s.store.Save(ctx, job)
}

func newGenerationTask(payload *model.JobTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGenerate, data), nil
}
