// Package usage implements the daily generation quota and plan-based feature gates.
//
// A Gate is loaded per client from a kvstore.Store. Reads never fail: when the
// backing store is unavailable or holds values that cannot be trusted, the gate
// degrades to the free plan with a zero count instead of granting access.
package usage

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/logger"
)

const keyPrefix = "adcraft:usage:"

type keys struct {
	plan          string
	lastResetDate string
	count         string
	schemaVersion string
}

func keysFor(clientID string) keys {
	base := keyPrefix + clientID + ":"

	return keys{
		plan:          base + "plan",
		lastResetDate: base + "last_reset_date",
		count:         base + "generation_count",
		schemaVersion: base + "schema_version",
	}
}

type Gate struct {
	mu       sync.Mutex
	store    kvstore.Store
	clientID string
	keys     keys
	policy   Policy
	clock    Clock
	state    State
	degraded bool
}

// reads the persisted usage for clientID, applying the day boundary
func Load(ctx context.Context, store kvstore.Store, clientID string, policy Policy, clock Clock) (*Gate, error) {
	if store == nil {
		return nil, fmt.Errorf("usage store is required")
	}

	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	if policy.Location == nil {
		policy.Location = DefaultPolicy().Location
	}

	if policy.DailyFreeLimit < 0 {
		policy.DailyFreeLimit = 0
	}

	if clock == nil {
		clock = SystemClock
	}

	g := &Gate{
		store:    store,
		clientID: clientID,
		keys:     keysFor(clientID),
		policy:   policy,
		clock:    clock,
	}

	g.load(ctx)
	return g, nil
}

func (g *Gate) load(ctx context.Context) {
	log := logger.FromContext(ctx).With("client_id", g.clientID)
	today := g.today()

	g.state = State{Plan: PlanFree, LastResetDate: today}

	version, hasVersion, err := g.store.Get(ctx, g.keys.schemaVersion)
	if err != nil {
		log.Warn("usage store unavailable, falling back to free plan", "error", err)
		g.degraded = true
		return
	}

	// written by a different layout, nothing in it can be trusted
	if hasVersion && version != SchemaVersion {
		log.Warn("usage schema version mismatch, resetting", "version", version)
		g.reset(ctx)
		return
	}

	rawPlan, _, err := g.store.Get(ctx, g.keys.plan)
	if err != nil {
		log.Warn("failed to read plan, falling back to free plan", "error", err)
		g.degraded = true
		return
	}

	plan := Plan(rawPlan)
	if !plan.Valid() {
		plan = PlanFree
	}

	rawDate, hasDate, err := g.store.Get(ctx, g.keys.lastResetDate)
	if err != nil {
		log.Warn("failed to read last reset date, falling back to free plan", "error", err)
		g.degraded = true
		return
	}

	rawCount, hasCount, err := g.store.Get(ctx, g.keys.count)
	if err != nil {
		log.Warn("failed to read generation count, falling back to free plan", "error", err)
		g.degraded = true
		return
	}

	g.state.Plan = plan

	if !hasDate || rawDate != today {
		g.state.GenerationCount = 0

		if err := g.persistCounter(ctx); err != nil {
			log.Warn("failed to persist daily reset", "error", err)
		}

		return
	}

	count := 0
	if hasCount {
		count, err = strconv.Atoi(rawCount)
		if err != nil || count < 0 {
			log.Warn("corrupt generation count, resetting counter", "value", rawCount)
			g.resetCounter(ctx)
			return
		}
	}

	g.state.GenerationCount = count

	if !hasVersion {
		if err := g.store.Set(ctx, g.keys.schemaVersion, SchemaVersion); err != nil {
			log.Warn("failed to persist schema version", "error", err)
		}
	}
}

// rewrites every key with the most restrictive state
func (g *Gate) reset(ctx context.Context) {
	g.state = State{Plan: PlanFree, LastResetDate: g.today()}

	if err := g.store.Set(ctx, g.keys.plan, string(PlanFree)); err != nil {
		logger.FromContext(ctx).Warn("failed to persist usage reset", "client_id", g.clientID, "error", err)
		return
	}

	if err := g.persistCounter(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to persist usage reset", "client_id", g.clientID, "error", err)
	}
}

// free for this load only; the persisted plan is left as it was
func (g *Gate) resetCounter(ctx context.Context) {
	g.state = State{Plan: PlanFree, LastResetDate: g.today()}

	if err := g.persistCounter(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to persist counter reset", "client_id", g.clientID, "error", err)
	}
}

func (g *Gate) persistCounter(ctx context.Context) error {
	if err := g.store.Set(ctx, g.keys.lastResetDate, g.state.LastResetDate); err != nil {
		return fmt.Errorf("failed to persist last reset date: %w", err)
	}

	if err := g.store.Set(ctx, g.keys.count, strconv.Itoa(g.state.GenerationCount)); err != nil {
		return fmt.Errorf("failed to persist generation count: %w", err)
	}

	if err := g.store.Set(ctx, g.keys.schemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to persist schema version: %w", err)
	}

	return nil
}

func (g *Gate) today() string {
	return g.clock.Now().In(g.policy.Location).Format(dateLayout)
}

func (g *Gate) CanGenerate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.Plan != PlanFree || g.state.GenerationCount < g.policy.DailyFreeLimit
}

// counts one successful generation; must not be called after a failed one
func (g *Gate) RecordGeneration(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if today := g.today(); g.state.LastResetDate != today {
		g.state.LastResetDate = today
		g.state.GenerationCount = 0
	}

	g.state.GenerationCount++

	return g.persistCounter(ctx)
}

// changes the plan without touching the daily count
func (g *Gate) SetPlan(ctx context.Context, plan Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Set(ctx, g.keys.plan, string(plan)); err != nil {
		return fmt.Errorf("failed to persist plan: %w", err)
	}

	if err := g.store.Set(ctx, g.keys.schemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to persist schema version: %w", err)
	}

	g.state.Plan = plan
	g.degraded = false

	return nil
}

// -1 means unlimited
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.remaining()
}

func (g *Gate) remaining() int {
	if g.state.Plan != PlanFree {
		return -1
	}

	return max(0, g.policy.DailyFreeLimit-g.state.GenerationCount)
}

func (g *Gate) Plan() Plan {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.Plan
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Gate) DailyLimit() int {
	return g.policy.DailyFreeLimit
}

// true when the last load could not reach the store
func (g *Gate) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.degraded
}

func (g *Gate) AllowsCustomInstructions() bool {
	return g.Plan() != PlanFree
}

func (g *Gate) AllowsVideoInput() bool {
	return g.Plan() != PlanFree || g.policy.FreeVideoInput
}

func (g *Gate) AllowsCSVExport() bool {
	return g.Plan() != PlanFree
}

func (g *Gate) AllowsHistory() bool {
	return g.Plan() != PlanFree
}

func (g *Gate) Features() Features {
	return Features{
		CustomInstructions: g.AllowsCustomInstructions(),
		VideoInput:         g.AllowsVideoInput(),
		CSVExport:          g.AllowsCSVExport(),
		History:            g.AllowsHistory(),
	}
}

func (g *Gate) Snapshot() Snapshot {
	features := g.Features()

	g.mu.Lock()
	defer g.mu.Unlock()

	remaining := g.remaining()

	return Snapshot{
		Plan:            g.state.Plan,
		GenerationCount: g.state.GenerationCount,
		DailyLimit:      g.policy.DailyFreeLimit,
		Remaining:       remaining,
		Unlimited:       remaining < 0,
		LastResetDate:   g.state.LastResetDate,
		Features:        features,
	}
}
