package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/media"
	"codeberg.org/adcraft/server/internal/usage"
)

// produces validated ad copy for one creative
type Generator interface {
	Generate(ctx context.Context, key string, payload *media.Payload, instructions string) (*adcopy.Result, error)
}

// orchestrates quota checks, prompt composition and generation
type Agent struct {
	store     kvstore.Store
	generator Generator
	policy    usage.Policy
	clock     usage.Clock

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Feature string

const (
	FeatureVideoInput         Feature = "video_input"
	FeatureCustomInstructions Feature = "custom_instructions"
	FeatureCSVExport          Feature = "csv_export"
)

var ErrQuotaExceeded = errors.New("daily generation limit reached")

// returned instead of calling the provider when the free quota is spent
type QuotaExceededError struct {
	Usage usage.Snapshot
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%v: %d of %d used", ErrQuotaExceeded, e.Usage.GenerationCount, e.Usage.DailyLimit)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

type FeatureLockedError struct {
	Feature Feature
	Plan    usage.Plan
}

func (e *FeatureLockedError) Error() string {
	return fmt.Sprintf("%s is not available on the %s plan", e.Feature, e.Plan)
}

// contains all inputs for one generation
type Request struct {
	ClientID           string
	Media              *media.Payload
	CustomInstructions string
}

type Response struct {
	Result *adcopy.Result `json:"result"`
	Usage  usage.Snapshot `json:"usage"`
}
