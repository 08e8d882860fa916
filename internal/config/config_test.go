package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMustLoad_ValidConfig(t *testing.T) {
	configContent := `
env: test
api_client:
  base_url: "https://api.example.com"
  timeout: 10s
token_storage:
  backend: redis
  namespace: realty_test
redis_connection:
  addressredis: "localhost:6379"
  password: "redis_pass"
  user: "redis_user"
  db: 1
  max_retries: 3
  dial_timeout: 5s
  timeoutredis: 10s
rate_limit:
  rps: 5
  burst: 10
`
	t.Setenv("CONFIG_PATH", writeConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, TokenBackendRedis, cfg.Backend)
	assert.Equal(t, "realty_test", cfg.TokenStorage.Namespace)
	assert.Equal(t, "localhost:6379", cfg.AddressRedis)
	assert.Equal(t, "redis_pass", cfg.Password)
	assert.Equal(t, "redis_user", cfg.User)
	assert.Equal(t, 1, cfg.DB)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 10*time.Second, cfg.TimeoutRedis)
	assert.Equal(t, float64(5), cfg.RPS)
	assert.Equal(t, 10, cfg.Burst)
}

func TestMustLoad_Defaults(t *testing.T) {
	configContent := `
api_client:
  base_url: "https://api.example.com"
`
	t.Setenv("CONFIG_PATH", writeConfig(t, configContent))

	cfg := MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, TokenBackendFile, cfg.Backend)
	assert.Equal(t, "realty", cfg.TokenStorage.Namespace)
	assert.Equal(t, float64(0), cfg.RPS)
	assert.Equal(t, 1, cfg.Burst)
}

func TestConfig_String_NoSecretsLeak(t *testing.T) {
	configContent := `
api_client:
  base_url: "https://api.example.com"
redis_connection:
  password: "very_secret"
`
	t.Setenv("CONFIG_PATH", writeConfig(t, configContent))

	cfg := MustLoad()

	assert.NotContains(t, cfg.String(), "very_secret")
	assert.Contains(t, cfg.String(), "https://api.example.com")
}
