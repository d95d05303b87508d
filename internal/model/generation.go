package model

import "time"

// GenerationRequest represents the request body for POST /api/generate
type GenerationRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
	Lyrics string `json:"lyrics,omitempty"`
}

// LyricsRequest represents the request body for POST /api/generate-lyrics
type LyricsRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// GenerationResult is returned by both generation endpoints. AudioURL is set
// for music generation, Lyrics and Prompt for lyric generation.
type GenerationResult struct {
	ID       string         `json:"id"`
	Kind     GenerationKind `json:"kind,omitempty"`
	AudioURL string         `json:"audioUrl,omitempty"`
	Lyrics   string         `json:"lyrics"`
	Prompt   string         `json:"prompt,omitempty"`
	Status   string         `json:"status,omitempty"`
	// ArchiveURL points at the archived JSON copy when an archive is configured.
	ArchiveURL string    `json:"archiveUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
