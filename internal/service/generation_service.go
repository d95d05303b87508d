package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/musicmixer/api/internal/client"
	"github.com/musicmixer/api/internal/config"
	"github.com/musicmixer/api/internal/model"
)

const songwriterSystemPrompt = `You are a professional songwriter with expertise in many music genres.
Write original, emotionally resonant song lyrics based on the user's description.
Use clear section labels such as [Verse], [Chorus] and [Bridge].
Respond with the lyrics only, without any introduction or commentary.`

// HistoryStore records finished generations
type HistoryStore interface {
	Save(ctx context.Context, result *model.GenerationResult) error
	Get(ctx context.Context, id string) (*model.GenerationResult, error)
	Recent(ctx context.Context, limit int) ([]*model.GenerationResult, error)
}

// Generator defines the interface for music and lyrics generation
type Generator interface {
	Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error)
	GenerateLyrics(ctx context.Context, req *model.LyricsRequest) (*model.GenerationResult, error)
}

// GenerationService produces mock audio results and, in delegated mode,
// lyrics from the upstream chat-completion API.
type GenerationService struct {
	cfg     config.GenerationConfig
	llm     client.TextGenerator
	history HistoryStore
	archive client.ArchiveStore
}

// NewGenerationService creates a new generation service. history and
// archive may be nil.
func NewGenerationService(cfg config.GenerationConfig, llm client.TextGenerator, history HistoryStore, archive client.ArchiveStore) *GenerationService {
	return &GenerationService{
		cfg:     cfg,
		llm:     llm,
		history: history,
		archive: archive,
	}
}

// Mode returns the configured generation mode
func (s *GenerationService) Mode() string {
	return s.cfg.Mode
}

// Generate simulates music generation: after the fixed delay it returns the
// sample audio URL under a fresh id.
func (s *GenerationService) Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	if isBlank(req.Prompt) {
		return nil, ErrPromptRequired
	}

	log.Printf("Received generation request with prompt: %q", req.Prompt)

	if err := sleepCtx(ctx, s.cfg.Delay); err != nil {
		return nil, err
	}

	result := &model.GenerationResult{
		ID:        newGenerationID(),
		Kind:      model.KindAudio,
		AudioURL:  s.cfg.AudioURL,
		Lyrics:    req.Lyrics,
		Status:    model.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}

	s.record(ctx, result)
	return result, nil
}

// GenerateLyrics forwards the prompt to the upstream API in delegated mode
// and returns canned lyrics in mock mode.
func (s *GenerationService) GenerateLyrics(ctx context.Context, req *model.LyricsRequest) (*model.GenerationResult, error) {
	if isBlank(req.Prompt) {
		return nil, ErrPromptRequired
	}

	log.Printf("Received lyrics request with prompt: %q", req.Prompt)

	var lyrics string
	if s.cfg.IsDelegated() && s.llm != nil {
		text, err := s.llm.Complete(ctx, songwriterSystemPrompt, req.Prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		lyrics = strings.TrimSpace(text)
	} else {
		if err := sleepCtx(ctx, s.cfg.Delay); err != nil {
			return nil, err
		}
		lyrics = mockLyrics
	}

	result := &model.GenerationResult{
		ID:        newGenerationID(),
		Kind:      model.KindLyrics,
		Lyrics:    lyrics,
		Prompt:    req.Prompt,
		Status:    model.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}

	s.record(ctx, result)
	return result, nil
}

// Get returns a previously generated result
func (s *GenerationService) Get(ctx context.Context, id string) (*model.GenerationResult, error) {
	if s.history == nil {
		return nil, ErrNotFound
	}
	return s.history.Get(ctx, id)
}

// Recent lists the latest generations, newest first
func (s *GenerationService) Recent(ctx context.Context, limit int) ([]*model.GenerationResult, error) {
	if s.history == nil {
		return []*model.GenerationResult{}, nil
	}
	return s.history.Recent(ctx, limit)
}

// record archives the result and keeps it in history. Failures are logged
// only; the caller already has its result.
func (s *GenerationService) record(ctx context.Context, result *model.GenerationResult) {
	if s.archive != nil {
		if data, err := json.Marshal(result); err != nil {
			log.Printf("Failed to marshal generation %s: %v", result.ID, err)
		} else {
			key := fmt.Sprintf("generations/%s.json", result.ID)
			url, err := s.archive.Put(ctx, key, data, "application/json")
			if err != nil {
				log.Printf("Failed to archive generation %s: %v", result.ID, err)
			} else {
				result.ArchiveURL = url
			}
		}
	}

	if s.history != nil {
		if err := s.history.Save(ctx, result); err != nil {
			log.Printf("Failed to record generation %s: %v", result.ID, err)
		}
	}
}

// newGenerationID returns a process-unique, time-ordered id.
func newGenerationID() string {
	return "gen_" + ulid.Make().String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

const mockLyrics = `[Verse]
Walking through the city lights
Feeling like we own the night
Nothing's gonna bring us down
We're the kings without a crown

[Chorus]
Stars are shining up above
This is what we're dreaming of
Every moment feels so right
Dancing till the morning light`
