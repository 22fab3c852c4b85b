package generate

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/agent"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/export"
	"codeberg.org/adcraft/server/internal/logger"
	"codeberg.org/adcraft/server/internal/media"
	"codeberg.org/adcraft/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// GenerateHandler godoc
// @Summary Generate ad copy
// @Description Generates tone variants for the selected creative and counts one generation on success
// @Tags generate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateRequest false "Optional advertiser instructions"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaExceededResponse
// @Failure 502 {object} errors.GenerationFailedResponse
// @Router /api/v1/generate [post]
func GenerateHandler(a *agent.Agent, manager *workspaces.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		// the body is optional
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
			errors.ValidationError(c, err)
			return
		}

		ws := manager.Get(clientID)

		payload, version := ws.Media()
		if payload == nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.CodeNoMedia,
				Message: "select an image or video first",
			})
			return
		}

		resp, err := a.Generate(c.Request.Context(), agent.Request{
			ClientID:           clientID,
			Media:              payload,
			CustomInstructions: req.CustomInstructions,
		})
		if err != nil {
			respondGenerateError(c, err)
			return
		}

		stored := ws.SetResult(version, resp.Result, manager.Now())

		logger.FromContext(c.Request.Context()).Info("ad copy generated",
			"client_id", clientID,
			"variants", len(resp.Result.Variants),
			"model", resp.Result.Model,
			"remaining", resp.Usage.Remaining,
			"stored", stored,
		)

		c.JSON(http.StatusOK, GenerateResponse{
			Result: resp.Result,
			Usage:  resp.Usage,
			Stored: stored,
		})
	}
}

// ExportCSVHandler godoc
// @Summary Download the last result as CSV
// @Tags generate
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/export/csv [get]
func ExportCSVHandler(a *agent.Agent, manager *workspaces.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := auth.GetClientID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		if err := a.RequireFeature(c.Request.Context(), clientID, agent.FeatureCSVExport); err != nil {
			respondGenerateError(c, err)
			return
		}

		var result *adcopy.Result
		if ws, exists := manager.Lookup(clientID); exists {
			result = ws.Result()
		}

		if result == nil || len(result.Variants) == 0 {
			c.JSON(http.StatusNotFound, errors.ErrorResponse{
				Error:   errors.CodeNoResult,
				Message: "generate ad copy before exporting",
			})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.CSVFilename))
		c.Header("Content-Type", export.CSVContentType)
		c.Status(http.StatusOK)

		if err := export.WriteCSV(c.Writer, result.Variants); err != nil {
			logger.FromContext(c.Request.Context()).Warn("csv export interrupted", "client_id", clientID, "error", err)
		}
	}
}

func respondGenerateError(c *gin.Context, err error) {
	var (
		encErr   *media.EncodingError
		quotaErr *agent.QuotaExceededError
		lockErr  *agent.FeatureLockedError
		genErr   *adcopy.GenerationError
	)

	switch {
	case stderrors.As(err, &encErr):
		errors.EncodingFailed(c, err)
	case stderrors.As(err, &quotaErr):
		errors.QuotaExceeded(c,
			quotaErr.Usage.Plan.String(),
			quotaErr.Usage.DailyLimit,
			quotaErr.Usage.GenerationCount,
			upgradeOptionIDs(),
		)
	case stderrors.As(err, &lockErr):
		errors.FeatureLocked(c, string(lockErr.Feature))
	case stderrors.Is(err, adcopy.ErrGenerationInProgress):
		errors.Conflict(c, errors.CodeGenerationInProgress, "a generation is already running")
	case stderrors.Is(err, adcopy.ErrNoMedia):
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.CodeNoMedia,
			Message: "select an image or video first",
		})
	case stderrors.As(err, &genErr):
		errors.GenerationFailed(c, genErr.Retryable, err)
	default:
		errors.InternalError(c, "generation failed", err)
	}
}

func upgradeOptionIDs() []string {
	options := usage.UpgradeOptions()
	ids := make([]string, 0, len(options))

	for _, p := range options {
		ids = append(ids, p.ID.String())
	}

	return ids
}
