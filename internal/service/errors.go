package service

import (
	"errors"

	"github.com/musicmixer/api/internal/store"
)

var (
	// ErrPromptRequired is returned for an absent, empty or whitespace-only prompt.
	ErrPromptRequired = errors.New("prompt required")
	// ErrUpstream wraps every failure of the text-generation API.
	ErrUpstream = errors.New("upstream generation failed")
	// ErrNotFound is returned for unknown generations and jobs.
	ErrNotFound = store.ErrNotFound
	// ErrJobNotFinished is returned when a job result is requested too early.
	ErrJobNotFinished = errors.New("job not finished")
)
