package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                     = "8080"
	defaultGeminiModel              = "gemini-2.5-flash"
	defaultGeminiTemperature        = 0.9
	defaultGeminiRPS                = 5
	defaultDailyFreeLimit           = 2
	defaultMaxUploadBytes           = 20 << 20 // inline media ceiling on the provider side
	defaultGenerationTimeout        = 90 * time.Second
	defaultMaxConcurrentGenerations = 8
	defaultWorkspaceTTL             = time.Hour
	defaultRateLimit                = "30-M"
	defaultSQLitePath               = "adcraft.db"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnv(os.Getenv)
}

// builds the configuration from a lookup function so tests can inject values
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:  getenv("ENVIRONMENT"),
		Port:         getenv("PORT"),
		GeminiAPIKey: getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL"),
		JWTSecret:    getenv("JWT_SECRET"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND")),
		RedisURL:     getenv("REDIS_URL"),
		DatabaseURL:  getenv("DATABASE_URL"),
		SQLitePath:   getenv("SQLITE_PATH"),
		RateLimit:    getenv("RATE_LIMIT"),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	if err := cfg.resolveStore(); err != nil {
		return nil, err
	}

	var err error

	if cfg.GeminiTemperature, err = float32Var(getenv, "GEMINI_TEMPERATURE", defaultGeminiTemperature); err != nil {
		return nil, err
	}

	if cfg.GeminiRPS, err = floatVar(getenv, "GEMINI_RPS", defaultGeminiRPS); err != nil {
		return nil, err
	}

	if cfg.DailyFreeLimit, err = intVar(getenv, "DAILY_FREE_LIMIT", defaultDailyFreeLimit); err != nil {
		return nil, err
	}

	if cfg.DailyFreeLimit < 0 {
		return nil, fmt.Errorf("DAILY_FREE_LIMIT must not be negative")
	}

	if cfg.FreeVideoInput, err = boolVar(getenv, "FREE_VIDEO_INPUT", false); err != nil {
		return nil, err
	}

	maxUpload, err := intVar(getenv, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	if maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.GenerationTimeout, err = durationVar(getenv, "GENERATION_TIMEOUT", defaultGenerationTimeout); err != nil {
		return nil, err
	}

	concurrency, err := intVar(getenv, "MAX_CONCURRENT_GENERATIONS", defaultMaxConcurrentGenerations)
	if err != nil {
		return nil, err
	}

	if concurrency < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_GENERATIONS must be at least 1")
	}

	cfg.MaxConcurrentGenerations = int64(concurrency)

	if cfg.WorkspaceTTL, err = durationVar(getenv, "WORKSPACE_TTL", defaultWorkspaceTTL); err != nil {
		return nil, err
	}

	tz := getenv("USAGE_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}

	if cfg.UsageTimezone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid USAGE_TIMEZONE %q: %w", tz, err)
	}

	cfg.AllowedOrigins = listVar(getenv, "ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})

	return cfg, nil
}

func (c *Config) resolveStore() error {
	if c.StoreBackend == "" {
		c.StoreBackend = StoreMemory
	}

	switch c.StoreBackend {
	case StoreMemory:
		if c.IsProduction() {
			return fmt.Errorf("STORE_BACKEND=memory is not allowed in production")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL environment variable is required for redis store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for postgres store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = defaultSQLitePath
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s", c.StoreBackend)
	}

	return nil
}

func intVar(getenv func(string) string, name string, fallback int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return val, nil
}

func floatVar(getenv func(string) string, name string, fallback float64) (float64, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return val, nil
}

func float32Var(getenv func(string) string, name string, fallback float32) (float32, error) {
	val, err := floatVar(getenv, name, float64(fallback))
	return float32(val), err
}

func boolVar(getenv func(string) string, name string, fallback bool) (bool, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}

	return val, nil
}

func durationVar(getenv func(string) string, name string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	if val <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}

	return val, nil
}

func listVar(getenv func(string) string, name string, fallback []string) []string {
	raw := getenv(name)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
