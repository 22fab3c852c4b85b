// Package adcopy sends one creative plus instructions to the model and turns
// the structured reply into validated ad-copy variants.
package adcopy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"codeberg.org/adcraft/server/internal/llm"
	"codeberg.org/adcraft/server/internal/media"
)

type Client struct {
	generator llm.ContentGenerator
	timeout   time.Duration
	sem       *semaphore.Weighted
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewClient(generator llm.ContentGenerator, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}

	return &Client{
		generator: generator,
		timeout:   cfg.Timeout,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		now:       time.Now,
		inflight:  make(map[string]struct{}),
	}
}

// Generate runs one generation for key. A second call for the same key while
// the first is outstanding fails with ErrGenerationInProgress. Calls are never
// retried; provider and parsing failures are reported as *GenerationError.
func (c *Client) Generate(ctx context.Context, key string, payload *media.Payload, instructions string) (*Result, error) {
	if payload == nil {
		return nil, ErrNoMedia
	}

	if !c.begin(key) {
		return nil, ErrGenerationInProgress
	}
	defer c.end(key)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, contextError(ctx, err)
	}
	defer c.sem.Release(1)

	data, err := payload.Bytes()
	if err != nil {
		return nil, newGenerationError(KindTransport, false, "failed to prepare media: %w", err)
	}

	resp, err := c.generator.GenerateContent(ctx, llm.MultimodalRequest{
		MIMEType:       payload.MIMEType,
		Data:           data,
		Prompt:         instructions,
		ResponseSchema: ResponseSchema(),
	})
	if err != nil {
		return nil, classify(ctx, err)
	}

	if resp == nil {
		return nil, newGenerationError(KindEmptyResponse, true, "provider returned no response")
	}

	variants, err := parseVariants(resp.Text)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = c.generator.Model()
	}

	return &Result{
		Variants:    variants,
		Model:       model,
		GeneratedAt: c.now().UTC(),
	}, nil
}

// reports whether a generation for key is outstanding
func (c *Client) InFlight(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.inflight[key]
	return ok
}

func (c *Client) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[key]; busy {
		return false
	}

	c.inflight[key] = struct{}{}
	return true
}

func (c *Client) end(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func classify(ctx context.Context, err error) *GenerationError {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return contextError(ctx, err)
	}

	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		return &GenerationError{Kind: KindProvider, Retryable: providerErr.Retryable(), Err: err}
	}

	if errors.Is(err, llm.ErrNoCandidates) {
		return &GenerationError{Kind: KindEmptyResponse, Retryable: true, Err: err}
	}

	return &GenerationError{Kind: KindTransport, Retryable: true, Err: err}
}

func contextError(ctx context.Context, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &GenerationError{Kind: KindTimeout, Retryable: true, Err: fmt.Errorf("generation timed out: %w", err)}
	}

	return &GenerationError{Kind: KindCanceled, Retryable: false, Err: fmt.Errorf("generation canceled: %w", err)}
}
