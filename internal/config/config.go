package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

const (
	ModeMock      = "mock"
	ModeDelegated = "delegated"

	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	LLM        LLMConfig
	Redis      RedisConfig
	History    HistoryConfig
	Jobs       JobsConfig
	RateLimit  RateLimitConfig
	Auth       AuthConfig
	R2         R2Config
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// GenerationConfig selects between the mock and delegated behavior of the
// generation endpoints.
type GenerationConfig struct {
	Mode     string // "mock" or "delegated"
	Delay    time.Duration
	AudioURL string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration // zero means no client-side timeout
	Temperature float64
	MaxTokens   int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type HistoryConfig struct {
	Backend  string // "memory" or "redis"
	TTL      time.Duration
	Capacity int
}

type JobsConfig struct {
	Enabled     bool
	Concurrency int
}

type RateLimitConfig struct {
	GeneratePerMin int // 0 disables the limiter
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and the process environment, in increasing precedence.
func Load() (*Config, error) {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("LLM_API_KEY")
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("generation.mode", "GENERATION_MODE")
	_ = v.BindEnv("generation.delay", "GENERATION_DELAY")
	_ = v.BindEnv("generation.audio_url", "GENERATION_AUDIO_URL")
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.base_url", "LLM_BASE_URL")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.timeout", "LLM_TIMEOUT")
	_ = v.BindEnv("llm.temperature", "LLM_TEMPERATURE")
	_ = v.BindEnv("llm.max_tokens", "LLM_MAX_TOKENS")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("history.backend", "HISTORY_BACKEND")
	_ = v.BindEnv("history.ttl", "HISTORY_TTL")
	_ = v.BindEnv("history.capacity", "HISTORY_CAPACITY")
	_ = v.BindEnv("jobs.enabled", "JOBS_ENABLED")
	_ = v.BindEnv("jobs.concurrency", "JOBS_CONCURRENCY")
	_ = v.BindEnv("ratelimit.generate_per_min", "RATELIMIT_GENERATE_PER_MIN")
	_ = v.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = v.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = v.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = v.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = v.BindEnv("r2.public_url", "R2_PUBLIC_URL")

	// Defaults
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("generation.mode", "mock")
	v.SetDefault("generation.delay", "2s")
	v.SetDefault("generation.audio_url", "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3")

	// Groq speaks the OpenAI chat-completion protocol
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.timeout", "0s")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.ttl", "24h")
	v.SetDefault("history.capacity", 50)

	v.SetDefault("jobs.enabled", false)
	v.SetDefault("jobs.concurrency", 10)

	v.SetDefault("ratelimit.generate_per_min", 0)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("jwt.secret", "")

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("server.port"),
			Env:      v.GetString("server.env"),
			LogLevel: v.GetString("server.log_level"),
		},
		Generation: GenerationConfig{
			Mode:     strings.ToLower(v.GetString("generation.mode")),
			Delay:    v.GetDuration("generation.delay"),
			AudioURL: v.GetString("generation.audio_url"),
		},
		LLM: LLMConfig{
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			Model:       v.GetString("llm.model"),
			Timeout:     v.GetDuration("llm.timeout"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		History: HistoryConfig{
			Backend:  strings.ToLower(v.GetString("history.backend")),
			TTL:      v.GetDuration("history.ttl"),
			Capacity: v.GetInt("history.capacity"),
		},
		Jobs: JobsConfig{
			Enabled:     v.GetBool("jobs.enabled"),
			Concurrency: v.GetInt("jobs.concurrency"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerMin: v.GetInt("ratelimit.generate_per_min"),
		},
		Auth: AuthConfig{
			Enabled:   v.GetBool("auth.enabled"),
			JWTSecret: v.GetString("jwt.secret"),
		},
		R2: R2Config{
			AccountID:       v.GetString("r2.account_id"),
			AccessKeyID:     v.GetString("r2.access_key_id"),
			SecretAccessKey: v.GetString("r2.secret_access_key"),
			BucketName:      v.GetString("r2.bucket_name"),
			PublicURL:       v.GetString("r2.public_url"),
		},
	}

	switch cfg.Generation.Mode {
	case ModeMock, ModeDelegated:
	default:
		return nil, fmt.Errorf("invalid generation.mode %q: want %q or %q", cfg.Generation.Mode, ModeMock, ModeDelegated)
	}

	switch cfg.History.Backend {
	case HistoryMemory, HistoryRedis:
	default:
		return nil, fmt.Errorf("invalid history.backend %q: want %q or %q", cfg.History.Backend, HistoryMemory, HistoryRedis)
	}

	return cfg, nil
}

// IsDelegated reports whether prompts are forwarded to the upstream LLM.
func (c GenerationConfig) IsDelegated() bool {
	return c.Mode == ModeDelegated
}
