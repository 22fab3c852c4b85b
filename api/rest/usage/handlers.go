package usage

import (
	"net/http"

	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/logger"
	"codeberg.org/adcraft/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// GetUsageHandler godoc
// @Summary Current usage
// @Description Returns the plan, today's generation count and the features the plan unlocks
// @Tags usage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UsageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/usage [get]
func GetUsageHandler(a *agent.Agent) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		snapshot, err := a.Usage(c.Request.Context(), clientID)
		if err != nil {
			errors.InternalError(c, "failed to load usage", err)
			return
		}

		c.JSON(http.StatusOK, newUsageResponse(snapshot))
	}
}

// SetPlanHandler godoc
// @Summary Change plan
// @Description Switches the client to another plan. The daily count is kept.
// @Tags usage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetPlanRequest true "Target plan"
// @Success 200 {object} UsageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/usage/plan [put]
func SetPlanHandler(a *agent.Agent) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req SetPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		plan, err := usage.ParsePlan(req.Plan)
		if err != nil {
			errors.BadRequest(c, "unknown plan", err)
			return
		}

		snapshot, err := a.SetPlan(c.Request.Context(), clientID, plan)
		if err != nil {
			errors.InternalError(c, "failed to change plan", err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("plan changed",
			"client_id", clientID,
			"plan", plan,
		)

		c.JSON(http.StatusOK, newUsageResponse(snapshot))
	}
}

// ListPlansHandler godoc
// @Summary Plan catalog
// @Tags usage
// @Produce json
// @Success 200 {object} PlansResponse
// @Router /api/v1/plans [get]
func ListPlansHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PlansResponse{Plans: usage.Catalog()})
}

func newUsageResponse(snapshot usage.Snapshot) UsageResponse {
	resp := UsageResponse{
		Usage:   snapshot,
		Message: snapshot.Summary(),
	}

	if snapshot.Plan == usage.PlanFree {
		resp.UpgradeOptions = usage.UpgradeOptions()
	}

	return resp
}
