package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nDmitry/technewsbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"NEWS_API_KEY", "X_API_KEY", "X_API_KEY_SECRET", "X_ACCESS_TOKEN",
		"X_ACCESS_TOKEN_SECRET", "X_BEARER_TOKEN", "TECHNEWS_CONFIG",
		"LOG_FILE", "REDIS_HOST", "NEWS_CACHE_TTL", "DRY_RUN",
		"PREVIEW_IMAGES",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "us", cfg.Country)
	assert.Equal(t, "technology", cfg.Category)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 5, cfg.MaxPage)
	assert.Equal(t, 200, cfg.SnippetLength)
	assert.Equal(t, 280, cfg.MaxPostLength)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryBackoff)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join(dir, config.LogFileName), cfg.LogFile)
	assert.False(t, cfg.Preview, "image-less articles are posted as text unless preview is enabled")
	assert.False(t, cfg.DryRun)
	assert.Len(t, config.Missing(cfg), 6)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	env := "NEWS_API_KEY=news\nX_API_KEY=key\nX_API_KEY_SECRET=secret\n" +
		"X_ACCESS_TOKEN=token\nX_ACCESS_TOKEN_SECRET=token-secret\nX_BEARER_TOKEN=bearer\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.EnvFileName), []byte(env), 0600))

	// godotenv does not override variables that are already set, even when empty
	for _, name := range []string{
		"NEWS_API_KEY", "X_API_KEY", "X_API_KEY_SECRET", "X_ACCESS_TOKEN",
		"X_ACCESS_TOKEN_SECRET", "X_BEARER_TOKEN",
	} {
		require.NoError(t, os.Unsetenv(name))
	}

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "news", cfg.NewsAPIKey)
	assert.Equal(t, "key", cfg.XAPIKey)
	assert.Equal(t, "secret", cfg.XAPIKeySecret)
	assert.Equal(t, "token", cfg.XAccessToken)
	assert.Equal(t, "token-secret", cfg.XAccessTokenSecret)
	assert.Equal(t, "bearer", cfg.XBearerToken)
	assert.Empty(t, config.Missing(cfg))
}

func TestLoad_ConfigFileAndOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	yaml := "country: gb\npageSize: 20\nretryBackoff: 2s\nlogFile: /var/log/technews.log\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	t.Setenv("TECHNEWS_CONFIG", path)
	t.Setenv("NEWS_CACHE_TTL", "30")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("PREVIEW_IMAGES", "1")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "gb", cfg.Country)
	assert.Equal(t, "technology", cfg.Category)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff)
	assert.Equal(t, "/var/log/technews.log", cfg.LogFile)
	assert.Equal(t, 30, cfg.CacheTTL)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.True(t, cfg.Preview)
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	clearEnv(t)

	t.Setenv("NEWS_CACHE_TTL", "soon")

	_, err := config.Load(t.TempDir())
	assert.ErrorContains(t, err, "NEWS_CACHE_TTL must be a valid integer")

	t.Setenv("NEWS_CACHE_TTL", "-1")

	_, err = config.Load(t.TempDir())
	assert.ErrorContains(t, err, "NEWS_CACHE_TTL must be non-negative")
}

func TestRead_MissingFile(t *testing.T) {
	_, err := config.Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "could not read config file")
}
