package config

import "time"

// supported persistence backends for usage state
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Environment string
	Port        string

	// provider
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTemperature float32
	GeminiRPS         float64

	// auth
	JWTSecret string

	// persistence
	StoreBackend string
	RedisURL     string
	DatabaseURL  string
	SQLitePath   string

	// usage gate
	DailyFreeLimit int
	FreeVideoInput bool
	UsageTimezone  *time.Location

	// generation
	MaxUploadBytes           int64
	GenerationTimeout        time.Duration
	MaxConcurrentGenerations int64

	// sessions and http
	WorkspaceTTL   time.Duration
	RateLimit      string
	AllowedOrigins []string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
