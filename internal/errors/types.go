package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "quota_exceeded", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// returned when a generation is refused because the daily allowance is used up
type QuotaExceededResponse struct {
	ErrorResponse
	Plan           string   `json:"plan"`
	DailyLimit     int      `json:"daily_limit"`
	Used           int      `json:"used"`
	UpgradeOptions []string `json:"upgrade_options"`
}

// returned when a generation call fails upstream
type GenerationFailedResponse struct {
	ErrorResponse
	Retryable bool `json:"retryable"`
}

// standard error codes
const (
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "not_found"
	CodeValidationError      = "validation_error"
	CodeServerError          = "server_error"
	CodeBadRequest           = "bad_request"
	CodeConflict             = "conflict"
	CodeTooManyRequests      = "too_many_requests"
	CodeQuotaExceeded        = "quota_exceeded"
	CodeFeatureLocked        = "feature_locked"
	CodeEncodingFailed       = "encoding_failed"
	CodeGenerationFailed     = "generation_failed"
	CodeGenerationInProgress = "generation_in_progress"
	CodeNoMedia              = "no_media"
	CodeNoResult             = "no_result"
)

// error categories for classification
const (
	CategoryDatabase   = "database"
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryAuth       = "auth"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryUnknown    = "unknown"
)

type ErrorInfo struct {
	category  string
	sanitized string
}
