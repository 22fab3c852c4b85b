package usage

import (
	"errors"
	"fmt"
	"time"
)

type Plan string

const (
	PlanFree   Plan = "free"
	PlanPro    Plan = "pro"
	PlanAgency Plan = "agency"
)

// bumped whenever the persisted key layout or value encoding changes
const SchemaVersion = "1"

const (
	DefaultDailyFreeLimit = 2
	dateLayout            = "2006-01-02"
)

var ErrInvalidPlan = errors.New("invalid plan")

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanAgency:
		return true
	}

	return false
}

func (p Plan) String() string {
	return string(p)
}

func ParsePlan(s string) (Plan, error) {
	plan := Plan(s)
	if !plan.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}

	return plan, nil
}

// persisted per-client usage
type State struct {
	Plan            Plan
	GenerationCount int
	LastResetDate   string
}

// tunables shared by every gate
type Policy struct {
	DailyFreeLimit int
	FreeVideoInput bool
	Location       *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		DailyFreeLimit: DefaultDailyFreeLimit,
		Location:       time.UTC,
	}
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)

type Features struct {
	CustomInstructions bool `json:"custom_instructions"`
	VideoInput         bool `json:"video_input"`
	CSVExport          bool `json:"csv_export"`
	History            bool `json:"history"`
}

// read-only view handed to presentation code
type Snapshot struct {
	Plan            Plan     `json:"plan"`
	GenerationCount int      `json:"generation_count"`
	DailyLimit      int      `json:"daily_limit"`
	Remaining       int      `json:"remaining"`
	Unlimited       bool     `json:"unlimited"`
	LastResetDate   string   `json:"last_reset_date"`
	Features        Features `json:"features"`
}

// the short line shown next to the generate button
func (s Snapshot) Summary() string {
	if s.Unlimited {
		return "Unlimited generations"
	}

	if s.Remaining == 1 {
		return "1 generation left"
	}

	return fmt.Sprintf("%d generations left", s.Remaining)
}
