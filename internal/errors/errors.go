package errors

import (
	"net/http"

	"codeberg.org/adcraft/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/stores/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// user-facing copy for any failed generation
const GenerationFailedMessage = "Failed to generate ad copy. Please check your file size (videos < 20MB recommended) or try again."

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: "request validation failed",
		Details: sanitizeError(err),
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.FromContext(c.Request.Context()).Error(message,
		"error", err,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_id", c.GetString("client_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, code, message string) {
	if code == "" {
		code = CodeConflict
	}

	if message == "" {
		message = "resource conflict"
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 429 with the upgrade path when the free allowance is used up
func QuotaExceeded(c *gin.Context, plan string, limit, used int, upgradeOptions []string) {
	c.JSON(http.StatusTooManyRequests, QuotaExceededResponse{
		ErrorResponse: ErrorResponse{
			Error:   CodeQuotaExceeded,
			Message: "daily free generations used up. upgrade to keep generating today",
		},
		Plan:           plan,
		DailyLimit:     limit,
		Used:           used,
		UpgradeOptions: upgradeOptions,
	})
}

// returns a 403 for features the current plan does not include
func FeatureLocked(c *gin.Context, feature string) {
	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeFeatureLocked,
		Message: "upgrade your plan to use " + feature,
		Details: feature,
	})
}

// returns a 400 when an uploaded creative cannot be read
func EncodingFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeEncodingFailed,
		Message: "cannot read file",
		Details: sanitizeError(err),
	})
}

// returns a 502 with a single generic message for every upstream failure
func GenerationFailed(c *gin.Context, retryable bool, err error) {
	logger.FromContext(c.Request.Context()).Error("generation failed",
		"error", err,
		"retryable", retryable,
		"client_id", c.GetString("client_id"),
	)

	c.JSON(http.StatusBadGateway, GenerationFailedResponse{
		ErrorResponse: ErrorResponse{
			Error:   CodeGenerationFailed,
			Message: GenerationFailedMessage,
			Details: sanitizeError(err),
		},
		Retryable: retryable,
	})
}
