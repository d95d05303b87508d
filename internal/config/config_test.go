package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, ModeMock, cfg.Generation.Mode)
	assert.Equal(t, 2*time.Second, cfg.Generation.Delay)
	assert.Equal(t, "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", cfg.Generation.AudioURL)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, HistoryMemory, cfg.History.Backend)
	assert.Equal(t, 50, cfg.History.Capacity)
	assert.False(t, cfg.Jobs.Enabled)
	assert.Zero(t, cfg.RateLimit.GeneratePerMin)
	assert.False(t, cfg.Generation.IsDelegated())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "4000")
	t.Setenv("GENERATION_MODE", "Delegated")
	t.Setenv("GENERATION_DELAY", "150ms")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.True(t, cfg.Generation.IsDelegated())
	assert.Equal(t, 150*time.Millisecond, cfg.Generation.Delay)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_DotEnvAndSecretFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	secret := filepath.Join(dir, "jwt_secret")
	require.NoError(t, os.WriteFile(secret, []byte("  from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_MODEL=from-dotenv\n"), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_FILE", secret)
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "from-dotenv", cfg.LLM.Model)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GENERATION_MODE", "sagemaker")

	_, err := Load()
	assert.Error(t, err)
}
