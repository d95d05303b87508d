package service

import (
	"context"
	"errors"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/musicmixer/api/internal/model"
	"github.com/musicmixer/api/internal/store"
)

type fakeLLM struct {
	text  string
	err   error
	calls int
	sys   string
	user  string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.sys, f.user = system, user
	return f.text, f.err
}

func (f *fakeLLM) IsConfigured() bool { return true }

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (f *fakeArchive) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

type memJobStore struct {
	mu   sync.Mutex
	jobs map[string]model.Job
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[string]model.Job{}}
}

func (s *memJobStore) Save(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *memJobStore) Get(_ context.Context, id string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &job, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

var errBoom = errors.New("boom")
