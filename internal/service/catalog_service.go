package service

import (
	"strings"

	"github.com/musicmixer/api/internal/model"
)

const placeholderImage = "/placeholder.jpg"

var catalogSeed = []model.CatalogEntry{
	{ID: 1, Title: "Ocean Breeze Chillwave", Creator: "SonicFlow", Tags: []string{"Chillwave", "Relaxing", "Ambient"}, ImagePath: placeholderImage},
	{ID: 2, Title: "Golden Hour Indie Jam", Creator: "IndieDreamer", Tags: []string{"Indie", "Rock", "Upbeat"}, ImagePath: placeholderImage},
	{ID: 3, Title: "Starlight Synth Pop", Creator: "NeonPulse", Tags: []string{"Synth Pop", "Retro", "Dance"}, ImagePath: placeholderImage},
	{ID: 4, Title: "Sunset Acoustic Ballad", Creator: "FolkVibes", Tags: []string{"Acoustic", "Folk", "Mellow"}, ImagePath: placeholderImage},
	{ID: 5, Title: "Deep Space Ambient", Creator: "GalacticBeats", Tags: []string{"Ambient", "Space", "Meditative"}, ImagePath: placeholderImage},
	{ID: 6, Title: "Tropical House Vibes", Creator: "IslandGrooves", Tags: []string{"House", "Tropical", "Chill"}, ImagePath: placeholderImage},
	{ID: 7, Title: "Funky Disco Revival", Creator: "RetroGroove", Tags: []string{"Disco", "Funk", "Groovy"}, ImagePath: placeholderImage},
	{ID: 8, Title: "Midnight Lo-Fi Beats", Creator: "ChillZone", Tags: []string{"Lo-Fi", "Chill", "Relaxing"}, ImagePath: placeholderImage},
	{ID: 9, Title: "Neo-Soul Serenade", Creator: "SmoothVibes", Tags: []string{"Soul", "Jazz", "R&B"}, ImagePath: placeholderImage},
	{ID: 10, Title: "Haunted Synth Experiment", Creator: "GhostlyWaves", Tags: []string{"Experimental", "Dark", "Ambient"}, ImagePath: placeholderImage},
	{ID: 11, Title: "Blazing EDM Drop", Creator: "BeatBlaster", Tags: []string{"EDM", "Bass", "Energetic"}, ImagePath: placeholderImage},
	{ID: 12, Title: "Soothing Nature Soundscape", Creator: "ZenAtmosphere", Tags: []string{"Nature", "Relaxing", "Peaceful"}, ImagePath: placeholderImage},
	{ID: 13, Title: "Techno Underground Rave", Creator: "DarkBeats", Tags: []string{"Techno", "Rave", "Industrial"}, ImagePath: placeholderImage},
	{ID: 14, Title: "Epic Cinematic Score", Creator: "FilmComposer", Tags: []string{"Cinematic", "Epic", "Orchestral"}, ImagePath: placeholderImage},
	{ID: 15, Title: "Smooth Latin Jazz", Creator: "SambaSoul", Tags: []string{"Latin", "Jazz", "Smooth"}, ImagePath: placeholderImage},
	{ID: 16, Title: "Hard Rock Anthem", Creator: "RiffMaster", Tags: []string{"Rock", "Heavy", "Anthemic"}, ImagePath: placeholderImage},
	{ID: 17, Title: "Melancholic Piano Solo", Creator: "SadKeys", Tags: []string{"Piano", "Solo", "Melancholy"}, ImagePath: placeholderImage},
	{ID: 18, Title: "Upbeat Electro Swing", Creator: "VintageGroove", Tags: []string{"Electro Swing", "Vintage", "Upbeat"}, ImagePath: placeholderImage},
}

// CatalogService serves the static catalog. Entries are never mutated.
type CatalogService struct {
	entries []model.CatalogEntry
}

func NewCatalogService() *CatalogService {
	return &CatalogService{entries: catalogSeed}
}

// Search returns entries whose title, creator or any tag contains the query,
// case-insensitively, in seed order. A blank query matches everything.
func (s *CatalogService) Search(query string) []model.CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))

	results := make([]model.CatalogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if q == "" || matches(e, q) {
			results = append(results, e)
		}
	}
	return results
}

// Get returns one entry by id
func (s *CatalogService) Get(id int) (*model.CatalogEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func matches(e model.CatalogEntry, q string) bool {
	if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Creator), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
