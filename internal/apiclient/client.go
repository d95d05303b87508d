package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/musicmixer/api/internal/model"
)

const DefaultBaseURL = "http://localhost:3001"

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Client talks to the MusicMixer HTTP API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a client. A zero timeout means none, matching the server's
// own upstream behaviour.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// WithToken sets a bearer token sent on every request
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// GenerateMusic calls POST /api/generate
func (c *Client) GenerateMusic(ctx context.Context, prompt, lyrics string) (*model.GenerationResult, error) {
	var result model.GenerationResult
	req := model.GenerationRequest{Prompt: prompt, Lyrics: lyrics}
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateLyrics calls POST /api/generate-lyrics
func (c *Client) GenerateLyrics(ctx context.Context, prompt string) (*model.GenerationResult, error) {
	var result model.GenerationResult
	if err := c.do(ctx, http.MethodPost, "/api/generate-lyrics", model.LyricsRequest{Prompt: prompt}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog searches the catalog; an empty query lists everything
func (c *Client) Catalog(ctx context.Context, query string) ([]model.CatalogEntry, error) {
	path := "/api/catalog"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var entries []model.CatalogEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Generations lists recent generations, newest first
func (c *Client) Generations(ctx context.Context, limit int) ([]model.GenerationResult, error) {
	path := "/api/generations"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var results []model.GenerationResult
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Generation fetches one generation by id
func (c *Client) Generation(ctx context.Context, id string) (*model.GenerationResult, error) {
	var result model.GenerationResult
	if err := c.do(ctx, http.MethodGet, "/api/generations/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends a request and decodes the envelope's data into result
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Reason: env.Error}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal data: %w", err)
		}
	}

	return nil
}
