package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/musicmixer/api/internal/auth"
	"github.com/musicmixer/api/internal/client"
	"github.com/musicmixer/api/internal/config"
	"github.com/musicmixer/api/internal/server"
	"github.com/musicmixer/api/internal/service"
	"github.com/musicmixer/api/internal/store"
)

const (
	testJWTSecret = "test-secret-for-e2e"
	testAudioURL  = "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"
	testDelay     = 50 * time.Millisecond
)

// testApp holds all components needed for testing
type testApp struct {
	app     *fiber.App
	history *store.MemoryHistory
}

// testConfig returns a mock-mode configuration with a short delay.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test", LogLevel: "info"},
		Generation: config.GenerationConfig{
			Mode:     config.ModeMock,
			Delay:    testDelay,
			AudioURL: testAudioURL,
		},
		LLM: config.LLMConfig{
			Model:       "test-model",
			Temperature: 0.7,
			MaxTokens:   256,
		},
		History: config.HistoryConfig{Backend: config.HistoryMemory, Capacity: 50},
	}
}

// setupApp creates the same Fiber app as main.go with in-memory history and
// no external services. mutate may adjust the config before wiring.
func setupApp(t *testing.T, mutate func(*config.Config)) *testApp {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	llmClient := client.NewLLMClient(&cfg.LLM)
	history := store.NewMemoryHistory(cfg.History.Capacity)

	app := server.NewApp(server.Options{
		Config:     cfg,
		Generation: service.NewGenerationService(cfg.Generation, llmClient, history, nil),
		Catalog:    service.NewCatalogService(),
		Services:   server.Services{LLM: llmClient.IsConfigured()},
	})

	return &testApp{app: app, history: history}
}

// setupJobsApp additionally wires the async job routes against a local Redis
// (DB 15). The test is skipped when Redis is not reachable.
func setupJobsApp(t *testing.T) *testApp {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: "localhost:6379",
		DB:   15,
	})
	t.Cleanup(func() { asynqClient.Close() })

	cfg := testConfig()
	cfg.Jobs.Enabled = true
	history := store.NewMemoryHistory(cfg.History.Capacity)

	app := server.NewApp(server.Options{
		Config:     cfg,
		Generation: service.NewGenerationService(cfg.Generation, nil, history, nil),
		Catalog:    service.NewCatalogService(),
		Jobs:       service.NewJobService(store.NewRedisJobStore(redisClient, time.Hour), asynqClient),
		Services:   server.Services{Redis: true, Jobs: true},
	})

	return &testApp{app: app, history: history}
}

// newUpstream starts a stub of the OpenAI-compatible chat completion API.
func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// delegatedTo switches the app to delegated mode against the given upstream.
func delegatedTo(upstream *httptest.Server) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Generation.Mode = config.ModeDelegated
		cfg.LLM.APIKey = "sk-test"
		cfg.LLM.BaseURL = upstream.URL
	}
}

// generateToken creates an HMAC JWT token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(testJWTSecret, "test-user-123", "test@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// dataOf returns the envelope's data object.
func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected 'data' object in response, got %v", body["data"])
	}
	return data
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// assertFailure checks a failed envelope and its message.
func assertFailure(t *testing.T, body map[string]interface{}, message string) {
	t.Helper()
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	if message != "" && body["message"] != message {
		t.Errorf("expected message %q, got %v", message, body["message"])
	}
}
