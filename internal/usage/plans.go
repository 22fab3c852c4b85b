package usage

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var plansYAML []byte

type PlanInfo struct {
	ID              Plan     `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	PriceMonthlyUSD int      `yaml:"price_monthly_usd" json:"price_monthly_usd"`
	Badge           string   `yaml:"badge,omitempty" json:"badge,omitempty"`
	CTA             string   `yaml:"cta" json:"cta"`
	Highlights      []string `yaml:"highlights" json:"highlights"`
}

type catalogFile struct {
	Plans []PlanInfo `yaml:"plans"`
}

var loadCatalog = sync.OnceValues(func() ([]PlanInfo, error) {
	return parseCatalog(plansYAML)
})

func parseCatalog(data []byte) ([]PlanInfo, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}

	seen := make(map[Plan]bool, len(file.Plans))

	for _, p := range file.Plans {
		if !p.ID.Valid() {
			return nil, fmt.Errorf("plan catalog: %w: %q", ErrInvalidPlan, p.ID)
		}

		if seen[p.ID] {
			return nil, fmt.Errorf("plan catalog: duplicate plan %q", p.ID)
		}

		seen[p.ID] = true
	}

	for _, plan := range []Plan{PlanFree, PlanPro, PlanAgency} {
		if !seen[plan] {
			return nil, fmt.Errorf("plan catalog: missing plan %q", plan)
		}
	}

	return file.Plans, nil
}

// returns the pricing tiers in display order
func Catalog() []PlanInfo {
	plans, err := loadCatalog()
	if err != nil {
		// embedded at build time, a broken file is a programming error
		panic(err)
	}

	out := make([]PlanInfo, len(plans))
	for i, p := range plans {
		p.Highlights = slices.Clone(p.Highlights)
		out[i] = p
	}

	return out
}

// tiers that lift the daily limit
func UpgradeOptions() []PlanInfo {
	return slices.DeleteFunc(Catalog(), func(p PlanInfo) bool {
		return p.ID == PlanFree
	})
}

func LookupPlan(plan Plan) (PlanInfo, bool) {
	for _, p := range Catalog() {
		if p.ID == plan {
			return p, true
		}
	}

	return PlanInfo{}, false
}
