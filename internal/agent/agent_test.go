package agent

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/media"
	"codeberg.org/adcraft/server/internal/usage"
)

// implements Generator for testing
type mockGenerator struct {
	generateFunc func(ctx context.Context, key string, payload *media.Payload, instructions string) (*adcopy.Result, error)
	calls        atomic.Int32
	lastPrompt   atomic.Value
}

func (m *mockGenerator) Generate(ctx context.Context, key string, payload *media.Payload, instructions string) (*adcopy.Result, error) {
	m.calls.Add(1)
	m.lastPrompt.Store(instructions)

	if m.generateFunc != nil {
		return m.generateFunc(ctx, key, payload, instructions)
	}

	return &adcopy.Result{
		Variants: []adcopy.Variant{{Tone: "Urgency/FOMO", Headline: "Ends Tonight", Description: "Only 3 left", PrimaryTextParagraph: "p", PrimaryTextBullets: "b"}},
		Model:    "mock-model",
	}, nil
}

// fails writes once armed
type flakyStore struct {
	kvstore.Store
	failWrites atomic.Bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.failWrites.Load() {
		return errors.New("write failed")
	}

	return s.Store.Set(ctx, key, value)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func imagePayload(t *testing.T) *media.Payload {
	t.Helper()

	payload, err := media.Encode(bytes.NewReader(pngBytes), "ad.png", "", 0)
	require.NoError(t, err)

	return payload
}

func videoPayload(t *testing.T) *media.Payload {
	t.Helper()

	payload, err := media.Encode(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03, 0xfe}), "ad.mp4", "video/mp4", 0)
	require.NoError(t, err)

	return payload
}

func newTestAgent(store kvstore.Store, gen Generator, policy usage.Policy) *Agent {
	a := New(store, gen, policy)
	a.SetClock(usage.ClockFunc(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}))

	return a
}

func TestGenerate_SuccessRecordsUsage(t *testing.T) {
	store := kvstore.NewMemoryStore()
	gen := &mockGenerator{}
	a := newTestAgent(store, gen, usage.DefaultPolicy())

	resp, err := a.Generate(context.Background(), Request{ClientID: "c1", Media: imagePayload(t)})

	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Variants, 1)
	assert.Equal(t, 1, resp.Usage.GenerationCount)
	assert.Equal(t, 1, resp.Usage.Remaining)
	assert.Contains(t, gen.lastPrompt.Load().(string), "elite direct-response copywriter")

	snap, err := a.Usage(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.GenerationCount)
}

func TestGenerate_FailureLeavesCounterUnchanged(t *testing.T) {
	store := kvstore.NewMemoryStore()
	genErr := &adcopy.GenerationError{Kind: adcopy.KindSchemaMismatch, Err: errors.New("missing headline")}
	gen := &mockGenerator{generateFunc: func(context.Context, string, *media.Payload, string) (*adcopy.Result, error) {
		return nil, genErr
	}}
	a := newTestAgent(store, gen, usage.DefaultPolicy())

	for range 3 {
		_, err := a.Generate(context.Background(), Request{ClientID: "c1", Media: imagePayload(t)})
		assert.ErrorIs(t, err, genErr)
	}

	snap, err := a.Usage(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.GenerationCount)
	assert.Equal(t, int32(3), gen.calls.Load())
}

func TestGenerate_QuotaDenialSkipsProvider(t *testing.T) {
	store := kvstore.NewMemoryStore()
	gen := &mockGenerator{}
	a := newTestAgent(store, gen, usage.DefaultPolicy())
	ctx := context.Background()

	for range 2 {
		_, err := a.Generate(ctx, Request{ClientID: "c1", Media: imagePayload(t)})
		require.NoError(t, err)
	}

	_, err := a.Generate(ctx, Request{ClientID: "c1", Media: imagePayload(t)})

	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 2, quotaErr.Usage.GenerationCount)
	assert.Equal(t, 0, quotaErr.Usage.Remaining)
	assert.Equal(t, int32(2), gen.calls.Load(), "denied request must not reach the provider")

	// upgrading lifts the limit without touching the count
	snap, err := a.SetPlan(ctx, "c1", usage.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.GenerationCount)

	resp, err := a.Generate(ctx, Request{ClientID: "c1", Media: imagePayload(t)})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Usage.GenerationCount)
	assert.True(t, resp.Usage.Unlimited)
}

func TestGenerate_FeatureLocks(t *testing.T) {
	tests := []struct {
		name    string
		plan    usage.Plan
		policy  func(*usage.Policy)
		request func(t *testing.T) Request
		locked  Feature
	}{
		{
			name: "video on free plan",
			plan: usage.PlanFree,
			request: func(t *testing.T) Request {
				return Request{ClientID: "c", Media: videoPayload(t)}
			},
			locked: FeatureVideoInput,
		},
		{
			name:   "video on free plan with free video policy",
			plan:   usage.PlanFree,
			policy: func(p *usage.Policy) { p.FreeVideoInput = true },
			request: func(t *testing.T) Request {
				return Request{ClientID: "c", Media: videoPayload(t)}
			},
		},
		{
			name: "custom instructions on free plan",
			plan: usage.PlanFree,
			request: func(t *testing.T) Request {
				return Request{ClientID: "c", Media: imagePayload(t), CustomInstructions: "mention free shipping"}
			},
			locked: FeatureCustomInstructions,
		},
		{
			name: "whitespace instructions on free plan",
			plan: usage.PlanFree,
			request: func(t *testing.T) Request {
				return Request{ClientID: "c", Media: imagePayload(t), CustomInstructions: "   "}
			},
		},
		{
			name: "video and instructions on pro plan",
			plan: usage.PlanPro,
			request: func(t *testing.T) Request {
				return Request{ClientID: "c", Media: videoPayload(t), CustomInstructions: "mention free shipping"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := usage.DefaultPolicy()
			if tt.policy != nil {
				tt.policy(&policy)
			}

			gen := &mockGenerator{}
			a := newTestAgent(kvstore.NewMemoryStore(), gen, policy)

			_, err := a.SetPlan(context.Background(), "c", tt.plan)
			require.NoError(t, err)

			_, err = a.Generate(context.Background(), tt.request(t))

			if tt.locked == "" {
				require.NoError(t, err)
				assert.Equal(t, int32(1), gen.calls.Load())
				return
			}

			var lockedErr *FeatureLockedError
			require.ErrorAs(t, err, &lockedErr)
			assert.Equal(t, tt.locked, lockedErr.Feature)
			assert.Equal(t, int32(0), gen.calls.Load())
		})
	}
}

func TestGenerate_CustomInstructionsReachPrompt(t *testing.T) {
	gen := &mockGenerator{}
	a := newTestAgent(kvstore.NewMemoryStore(), gen, usage.DefaultPolicy())

	_, err := a.SetPlan(context.Background(), "c", usage.PlanAgency)
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), Request{ClientID: "c", Media: imagePayload(t), CustomInstructions: "  Speak to new dads.  "})
	require.NoError(t, err)

	assert.Contains(t, gen.lastPrompt.Load().(string), "Speak to new dads.")
}

func TestGenerate_RecordFailureStillReturnsResult(t *testing.T) {
	store := &flakyStore{Store: kvstore.NewMemoryStore()}
	gen := &mockGenerator{}
	gen.generateFunc = func(context.Context, string, *media.Payload, string) (*adcopy.Result, error) {
		store.failWrites.Store(true)
		return &adcopy.Result{Variants: []adcopy.Variant{{Tone: "t", Headline: "h", Description: "d", PrimaryTextParagraph: "p", PrimaryTextBullets: "b"}}}, nil
	}
	a := newTestAgent(store, gen, usage.DefaultPolicy())

	resp, err := a.Generate(context.Background(), Request{ClientID: "c", Media: imagePayload(t)})

	require.NoError(t, err)
	assert.Len(t, resp.Result.Variants, 1)
}

func TestGenerate_RejectsOverlappingFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	gen := &mockGenerator{generateFunc: func(context.Context, string, *media.Payload, string) (*adcopy.Result, error) {
		close(started)
		<-release
		return &adcopy.Result{}, nil
	}}
	a := newTestAgent(kvstore.NewMemoryStore(), gen, usage.DefaultPolicy())
	payload := imagePayload(t)

	done := make(chan error, 1)
	go func() {
		_, err := a.Generate(context.Background(), Request{ClientID: "c", Media: payload})
		done <- err
	}()

	<-started

	_, err := a.Generate(context.Background(), Request{ClientID: "c", Media: payload})
	assert.ErrorIs(t, err, adcopy.ErrGenerationInProgress)

	close(release)
	require.NoError(t, <-done)

	snap, err := a.Usage(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.GenerationCount, "only the flight that ran is counted")
}

func TestGenerate_NoMedia(t *testing.T) {
	gen := &mockGenerator{}
	a := newTestAgent(kvstore.NewMemoryStore(), gen, usage.DefaultPolicy())

	_, err := a.Generate(context.Background(), Request{ClientID: "c"})

	assert.ErrorIs(t, err, adcopy.ErrNoMedia)
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestRequireFeature(t *testing.T) {
	a := newTestAgent(kvstore.NewMemoryStore(), &mockGenerator{}, usage.DefaultPolicy())
	ctx := context.Background()

	err := a.RequireFeature(ctx, "c", FeatureCSVExport)

	var lockedErr *FeatureLockedError
	require.ErrorAs(t, err, &lockedErr)
	assert.Equal(t, FeatureCSVExport, lockedErr.Feature)
	assert.Equal(t, usage.PlanFree, lockedErr.Plan)

	_, err = a.SetPlan(ctx, "c", usage.PlanPro)
	require.NoError(t, err)
	assert.NoError(t, a.RequireFeature(ctx, "c", FeatureCSVExport))

	assert.Error(t, a.RequireFeature(ctx, "c", Feature("teleport")))
}

func TestSetPlan_Invalid(t *testing.T) {
	a := newTestAgent(kvstore.NewMemoryStore(), &mockGenerator{}, usage.DefaultPolicy())

	_, err := a.SetPlan(context.Background(), "c", usage.Plan("gold"))
	assert.ErrorIs(t, err, usage.ErrInvalidPlan)
}
