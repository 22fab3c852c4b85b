package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"GEMINI_API_KEY": "test-key",
		"JWT_SECRET":     "test-secret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 2, cfg.DailyFreeLimit)
	assert.False(t, cfg.FreeVideoInput)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 90*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, int64(8), cfg.MaxConcurrentGenerations)
	assert.Equal(t, "UTC", cfg.UsageTimezone.String())
	assert.Equal(t, "30-M", cfg.RateLimit)
}

func TestFromEnv_MissingAPIKey(t *testing.T) {
	env := baseEnv()
	delete(env, "GEMINI_API_KEY")

	_, err := FromEnv(envFrom(env))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestFromEnv_MissingJWTSecret(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")

	_, err := FromEnv(envFrom(env))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnv_RedisRequiresURL(t *testing.T) {
	env := baseEnv()
	env["STORE_BACKEND"] = "redis"

	_, err := FromEnv(envFrom(env))
	require.Error(t, err)

	env["REDIS_URL"] = "redis://localhost:6379/0"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
}

func TestFromEnv_MemoryStoreRejectedInProduction(t *testing.T) {
	env := baseEnv()
	env["ENVIRONMENT"] = "production"

	_, err := FromEnv(envFrom(env))

	require.Error(t, err)
}

func TestFromEnv_SQLiteDefaultsPath(t *testing.T) {
	env := baseEnv()
	env["STORE_BACKEND"] = "SQLite"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, "adcraft.db", cfg.SQLitePath)
}

func TestFromEnv_Overrides(t *testing.T) {
	env := baseEnv()
	env["DAILY_FREE_LIMIT"] = "5"
	env["FREE_VIDEO_INPUT"] = "true"
	env["GENERATION_TIMEOUT"] = "30s"
	env["USAGE_TIMEZONE"] = "Europe/Berlin"
	env["ALLOWED_ORIGINS"] = "https://adcraft.app, https://www.adcraft.app"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DailyFreeLimit)
	assert.True(t, cfg.FreeVideoInput)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, "Europe/Berlin", cfg.UsageTimezone.String())
	assert.Equal(t, []string{"https://adcraft.app", "https://www.adcraft.app"}, cfg.AllowedOrigins)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"DAILY_FREE_LIMIT":           "two",
		"FREE_VIDEO_INPUT":           "maybe",
		"GENERATION_TIMEOUT":         "-1s",
		"MAX_CONCURRENT_GENERATIONS": "0",
		"USAGE_TIMEZONE":             "Mars/Olympus",
		"STORE_BACKEND":              "dynamo",
	}

	for name, value := range cases {
		env := baseEnv()
		env[name] = value

		_, err := FromEnv(envFrom(env))
		assert.Error(t, err, name)
	}
}
