package usage

import "codeberg.org/adcraft/server/internal/usage"

type UsageResponse struct {
	Usage          usage.Snapshot   `json:"usage"`
	Message        string           `json:"message"`
	UpgradeOptions []usage.PlanInfo `json:"upgrade_options,omitempty"`
}

type SetPlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type PlansResponse struct {
	Plans []usage.PlanInfo `json:"plans"`
}
