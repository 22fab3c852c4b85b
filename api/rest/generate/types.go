package generate

import (
	"codeberg.org/adcraft/server/internal/adcopy"
	"codeberg.org/adcraft/server/internal/usage"
)

type GenerateRequest struct {
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

type GenerateResponse struct {
	Result *adcopy.Result `json:"result"`
	Usage  usage.Snapshot `json:"usage"`
	// false when the creative changed while the request was running
	Stored bool `json:"stored"`
}
