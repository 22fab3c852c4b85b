package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type GeminiGenerator struct {
	config  GeminiConfig
	models  *genai.Models
	limiter *rate.Limiter
}

func NewGeminiGenerator(ctx context.Context, config GeminiConfig) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	config.applyDefaults()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	burst := max(1, int(math.Ceil(config.RequestsPerSecond)))

	return &GeminiGenerator{
		config:  config,
		models:  client.Models,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst),
	}, nil
}

func (g *GeminiGenerator) Model() string {
	return g.config.Model
}

func (g *GeminiGenerator) GenerateContent(ctx context.Context, req MultimodalRequest) (*ContentResponse, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("media data is required")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Data, req.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.models.GenerateContent(ctx, g.config.Model, contents, g.generationConfig(req))
	if err != nil {
		return nil, translateError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	model := resp.ModelVersion
	if model == "" {
		model = g.config.Model
	}

	return &ContentResponse{
		Text:         resp.Text(),
		Model:        model,
		FinishReason: string(resp.Candidates[0].FinishReason),
	}, nil
}

func (g *GeminiGenerator) generationConfig(req MultimodalRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.config.Temperature),
	}

	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	return cfg
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		Items:            toGenaiSchema(s.Items),
	}

	switch s.Type {
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeObject:
		out.Type = genai.TypeObject
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}

	return out
}

// maps SDK API errors onto ProviderError, leaving transport errors untouched
func translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   ProviderGemini,
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
		}
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ProviderError{
			Provider:   ProviderGemini,
			StatusCode: apiErrPtr.Code,
			Status:     apiErrPtr.Status,
			Message:    apiErrPtr.Message,
		}
	}

	return fmt.Errorf("failed to send request: %w", err)
}
