package llm

import (
	"context"
	"fmt"

	"codeberg.org/adcraft/server/internal/config"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultTemperature = float32(0.9)
	defaultRPS         = 5.0
)

type GeminiConfig struct {
	APIKey            string
	Model             string  // e.g., "gemini-2.5-flash"
	Temperature       float32 // 0.0 to 2.0
	RequestsPerSecond float64
}

func (c *GeminiConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = defaultGeminiModel
	}

	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}

	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRPS
	}
}

// builds the generator from the service configuration
func NewGeneratorFromConfig(ctx context.Context, cfg *config.Config) (ContentGenerator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return NewGeminiGenerator(ctx, GeminiConfig{
		APIKey:            cfg.GeminiAPIKey,
		Model:             cfg.GeminiModel,
		Temperature:       cfg.GeminiTemperature,
		RequestsPerSecond: cfg.GeminiRPS,
	})
}
