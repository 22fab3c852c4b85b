package main

import (
	"context"
	"fmt"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/config"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/llm"
	"codeberg.org/adcraft/server/internal/usage"
)

// creates and configures all service clients
func InitializeServices(ctx context.Context, cfg *config.Config, store kvstore.Store) (*Services, error) {
	llmClient, err := llm.NewGeneratorFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	adcopyClient := adcopy.NewClient(llmClient, adcopy.Config{
		Timeout:       cfg.GenerationTimeout,
		MaxConcurrent: cfg.MaxConcurrentGenerations,
	})

	agentClient := agent.New(store, adcopyClient, usage.Policy{
		DailyFreeLimit: cfg.DailyFreeLimit,
		FreeVideoInput: cfg.FreeVideoInput,
		Location:       cfg.UsageTimezone,
	})

	return &Services{
		Agent:  agentClient,
		AdCopy: adcopyClient,
		LLM:    llmClient,
	}, nil
}
