// Package promptflow drives a single prompt submission at a time against a
// generation backend and tracks its Idle, Generating, Success and Failed
// states.
package promptflow

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/musicmixer/api/internal/model"
)

var (
	ErrBlankPrompt = errors.New("prompt is blank")
	ErrInFlight    = errors.New("a generation is already in progress")
)

type State int

const (
	Idle State = iota
	Generating
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Submitter sends a prompt to the backend
type Submitter func(ctx context.Context, prompt string) (*model.GenerationResult, error)

// Flow holds the prompt being edited and the outcome of the last submission.
// It is safe for concurrent use.
type Flow struct {
	submit Submitter

	mu        sync.Mutex
	prompt    string
	state     State
	result    *model.GenerationResult
	err       error
	observers []func(State)
}

func New(submit Submitter) *Flow {
	return &Flow{submit: submit}
}

func (f *Flow) SetPrompt(prompt string) {
	f.mu.Lock()
	f.prompt = prompt
	f.mu.Unlock()
}

func (f *Flow) Prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit is false while a request is outstanding or the prompt is blank.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != Generating && strings.TrimSpace(f.prompt) != ""
}

// Result returns the last successful result, or nil.
func (f *Flow) Result() *model.GenerationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Err returns the error of the last failed submission, or nil.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// OnChange registers fn to be called after every state transition.
func (f *Flow) OnChange(fn func(State)) {
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// Submit sends the current prompt. A blank prompt never reaches the backend.
func (f *Flow) Submit(ctx context.Context) (*model.GenerationResult, error) {
	f.mu.Lock()
	if f.state == Generating {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	prompt := f.prompt
	if strings.TrimSpace(prompt) == "" {
		f.mu.Unlock()
		return nil, ErrBlankPrompt
	}
	f.state = Generating
	f.result = nil
	f.err = nil
	f.mu.Unlock()
	f.notify(Generating)

	result, err := f.submit(ctx, prompt)

	f.mu.Lock()
	if err != nil {
		log.Printf("Error generating: %v", err)
		f.state = Failed
		f.err = err
	} else {
		f.state = Success
		f.result = result
	}
	state := f.state
	f.mu.Unlock()
	f.notify(state)

	return result, err
}

func (f *Flow) notify(state State) {
	f.mu.Lock()
	observers := append([]func(State){}, f.observers...)
	f.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
