package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// represents different LLM providers
type Provider string

const (
	ProviderGemini Provider = "gemini"
)

var ErrNoCandidates = errors.New("provider returned no candidates")

// sends one media part plus one text part and returns the raw text reply
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req MultimodalRequest) (*ContentResponse, error)
	Model() string
}

type MultimodalRequest struct {
	MIMEType string
	Data     []byte
	Prompt   string
	// when set the provider is asked for application/json matching this shape
	ResponseSchema *Schema
}

type ContentResponse struct {
	Text         string
	Model        string
	FinishReason string
}

type SchemaType string

const (
	TypeString SchemaType = "string"
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
)

// provider-neutral subset of a JSON schema
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// order the provider should emit properties in
	PropertyOrdering []string
	Required         []string
	Items            *Schema
}

// non-2xx answer from the provider API
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d (%s): %s", e.Provider, e.StatusCode, e.Status, e.Message)
}

// rate limits and server-side failures are worth another try
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
