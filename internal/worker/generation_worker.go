package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/musicmixer/api/internal/model"
	"github.com/musicmixer/api/internal/service"
)

// JobTracker records job state transitions
type JobTracker interface {
	UpdateProgress(ctx context.Context, jobID string, progress int, step string) error
	Complete(ctx context.Context, jobID string, result *model.GenerationResult) error
	Fail(ctx context.Context, jobID string, errMsg string) error
}

// Notifier pushes job events to live subscribers
type Notifier interface {
	BroadcastProgress(jobID string, progress int, status model.JobStatus, step string)
	BroadcastComplete(jobID string, result *model.GenerationResult)
	BroadcastError(jobID string, code, message string)
}

// GenerationWorker processes queued generation jobs
type GenerationWorker struct {
	generator service.Generator
	jobs      JobTracker
	notifier  Notifier
}

func NewGenerationWorker(generator service.Generator, jobs JobTracker, notifier Notifier) *GenerationWorker {
	return &GenerationWorker{
		generator: generator,
		jobs:      jobs,
		notifier:  notifier,
	}
}

// ProcessTask handles a generation:process task
func (w *GenerationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.JobTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID := payload.JobID
	log.Printf("Starting generation job %s (%s)", jobID, payload.Kind)

	var (
		result *model.GenerationResult
		err    error
	)
	switch payload.Kind {
	case model.KindLyrics:
		w.updateProgress(ctx, jobID, 10, "Writing lyrics...")
		result, err = w.generator.GenerateLyrics(ctx, &model.LyricsRequest{Prompt: payload.Prompt})
	case model.KindAudio:
		w.updateProgress(ctx, jobID, 10, "Generating music...")
		result, err = w.generator.Generate(ctx, &model.GenerationRequest{Prompt: payload.Prompt, Lyrics: payload.Lyrics})
	default:
		err = fmt.Errorf("unknown generation kind %q", payload.Kind)
	}
	if err != nil {
		w.failJob(ctx, jobID, err.Error())
		return fmt.Errorf("generation job %s failed: %v: %w", jobID, err, asynq.SkipRetry)
	}

	w.updateProgress(ctx, jobID, 95, "Finalizing...")

	if err := w.jobs.Complete(ctx, jobID, result); err != nil {
		w.failJob(ctx, jobID, "Failed to save result")
		return err
	}

	w.notifier.BroadcastComplete(jobID, result)
	log.Printf("Generation job %s completed", jobID)
	return nil
}

func (w *GenerationWorker) updateProgress(ctx context.Context, jobID string, progress int, step string) {
	if err := w.jobs.UpdateProgress(ctx, jobID, progress, step); err != nil {
		log.Printf("Failed to update progress: %v", err)
	}
	w.notifier.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)
}

func (w *GenerationWorker) failJob(ctx context.Context, jobID, errMsg string) {
	if err := w.jobs.Fail(ctx, jobID, errMsg); err != nil {
		log.Printf("Failed to mark job as failed: %v", err)
	}
	w.notifier.BroadcastError(jobID, "GENERATION_FAILED", errMsg)
}
