package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicmixer/api/internal/model"
)

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) Generate(_ context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &model.GenerationResult{ID: "gen_audio", Kind: model.KindAudio, Lyrics: req.Lyrics}, nil
}

func (g *fakeGenerator) GenerateLyrics(_ context.Context, req *model.LyricsRequest) (*model.GenerationResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &model.GenerationResult{ID: "gen_lyrics", Kind: model.KindLyrics, Prompt: req.Prompt}, nil
}

type recorder struct {
	steps     []string
	completed *model.GenerationResult
	failed    string
	events    []string
}

func (r *recorder) UpdateProgress(_ context.Context, _ string, _ int, step string) error {
	r.steps = append(r.steps, step)
	return nil
}

func (r *recorder) Complete(_ context.Context, _ string, result *model.GenerationResult) error {
	r.completed = result
	return nil
}

func (r *recorder) Fail(_ context.Context, _ string, errMsg string) error {
	r.failed = errMsg
	return nil
}

func (r *recorder) BroadcastProgress(string, int, model.JobStatus, string) {
	r.events = append(r.events, model.WSMessageTypeProgress)
}

func (r *recorder) BroadcastComplete(string, *model.GenerationResult) {
	r.events = append(r.events, model.WSMessageTypeComplete)
}

func (r *recorder) BroadcastError(string, string, string) {
	r.events = append(r.events, model.WSMessageTypeError)
}

func task(t *testing.T, p model.JobTaskPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask("generation:process", data)
}

func TestProcessTask_Lyrics(t *testing.T) {
	rec := &recorder{}
	w := NewGenerationWorker(&fakeGenerator{}, rec, rec)

	err := w.ProcessTask(context.Background(), task(t, model.JobTaskPayload{JobID: "j1", Kind: model.KindLyrics, Prompt: "rain"}))
	require.NoError(t, err)

	require.NotNil(t, rec.completed)
	assert.Equal(t, "gen_lyrics", rec.completed.ID)
	assert.Equal(t, "rain", rec.completed.Prompt)
	assert.Equal(t, []string{"Writing lyrics...", "Finalizing..."}, rec.steps)
	assert.Equal(t, []string{"progress", "progress", "complete"}, rec.events)
}

func TestProcessTask_AudioCarriesLyrics(t *testing.T) {
	rec := &recorder{}
	w := NewGenerationWorker(&fakeGenerator{}, rec, rec)

	err := w.ProcessTask(context.Background(), task(t, model.JobTaskPayload{JobID: "j2", Kind: model.KindAudio, Prompt: "x", Lyrics: "la"}))
	require.NoError(t, err)
	assert.Equal(t, "la", rec.completed.Lyrics)
}

func TestProcessTask_FailureIsNotRetried(t *testing.T) {
	rec := &recorder{}
	w := NewGenerationWorker(&fakeGenerator{err: errors.New("upstream down")}, rec, rec)

	err := w.ProcessTask(context.Background(), task(t, model.JobTaskPayload{JobID: "j3", Kind: model.KindLyrics, Prompt: "x"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, "upstream down", rec.failed)
	assert.Nil(t, rec.completed)
	assert.Equal(t, model.WSMessageTypeError, rec.events[len(rec.events)-1])
}

func TestProcessTask_BadPayload(t *testing.T) {
	rec := &recorder{}
	w := NewGenerationWorker(&fakeGenerator{}, rec, rec)

	err := w.ProcessTask(context.Background(), asynq.NewTask("generation:process", []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, rec.events)
}
