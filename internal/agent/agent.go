// Package agent runs the generate flow: quota gate, feature gates, prompt,
// generation and usage accounting.
package agent

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/logger"
	"codeberg.org/adcraft/server/internal/prompt"
	"codeberg.org/adcraft/server/internal/usage"
)

func New(store kvstore.Store, generator Generator, policy usage.Policy) *Agent {
	return &Agent{
		store:     store,
		generator: generator,
		policy:    policy,
		clock:     usage.SystemClock,
		inflight:  make(map[string]struct{}),
	}
}

// sets the clock used for day boundaries
func (a *Agent) SetClock(clock usage.Clock) {
	a.clock = clock
}

func (a *Agent) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Media == nil {
		return nil, adcopy.ErrNoMedia
	}

	// the quota check and the counter update must see the same flight
	if !a.begin(req.ClientID) {
		return nil, adcopy.ErrGenerationInProgress
	}
	defer a.end(req.ClientID)

	gate, err := a.Gate(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	if !gate.CanGenerate() {
		return nil, &QuotaExceededError{Usage: gate.Snapshot()}
	}

	if req.Media.IsVideo() && !gate.AllowsVideoInput() {
		return nil, &FeatureLockedError{Feature: FeatureVideoInput, Plan: gate.Plan()}
	}

	instructions := strings.TrimSpace(req.CustomInstructions)
	if instructions != "" && !gate.AllowsCustomInstructions() {
		return nil, &FeatureLockedError{Feature: FeatureCustomInstructions, Plan: gate.Plan()}
	}

	text, err := prompt.Build(prompt.Options{
		CustomInstructions: instructions,
		AllowCustom:        gate.AllowsCustomInstructions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	result, err := a.generator.Generate(ctx, req.ClientID, req.Media, text)
	if err != nil {
		return nil, err
	}

	if err := gate.RecordGeneration(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to record generation",
			"client_id", req.ClientID,
			"error", err,
		)
	}

	return &Response{
		Result: result,
		Usage:  gate.Snapshot(),
	}, nil
}

// loads the usage gate for a client
func (a *Agent) Gate(ctx context.Context, clientID string) (*usage.Gate, error) {
	gate, err := usage.Load(ctx, a.store, clientID, a.policy, a.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}

	return gate, nil
}

func (a *Agent) Usage(ctx context.Context, clientID string) (usage.Snapshot, error) {
	gate, err := a.Gate(ctx, clientID)
	if err != nil {
		return usage.Snapshot{}, err
	}

	return gate.Snapshot(), nil
}

func (a *Agent) SetPlan(ctx context.Context, clientID string, plan usage.Plan) (usage.Snapshot, error) {
	gate, err := a.Gate(ctx, clientID)
	if err != nil {
		return usage.Snapshot{}, err
	}

	if err := gate.SetPlan(ctx, plan); err != nil {
		return usage.Snapshot{}, err
	}

	return gate.Snapshot(), nil
}

// checks a plan-gated feature for a client, returning *FeatureLockedError when denied
func (a *Agent) RequireFeature(ctx context.Context, clientID string, feature Feature) error {
	gate, err := a.Gate(ctx, clientID)
	if err != nil {
		return err
	}

	var allowed bool

	switch feature {
	case FeatureCSVExport:
		allowed = gate.AllowsCSVExport()
	case FeatureVideoInput:
		allowed = gate.AllowsVideoInput()
	case FeatureCustomInstructions:
		allowed = gate.AllowsCustomInstructions()
	default:
		return fmt.Errorf("unknown feature %q", feature)
	}

	if !allowed {
		return &FeatureLockedError{Feature: feature, Plan: gate.Plan()}
	}

	return nil
}

func (a *Agent) begin(clientID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, busy := a.inflight[clientID]; busy {
		return false
	}

	a.inflight[clientID] = struct{}{}
	return true
}

func (a *Agent) end(clientID string) {
	a.mu.Lock()
	delete(a.inflight, clientID)
	a.mu.Unlock()
}
