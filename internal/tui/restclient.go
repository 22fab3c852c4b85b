package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/adcraft/server/api/rest/generate"
	"codeberg.org/adcraft/server/api/rest/media"
	"codeberg.org/adcraft/server/api/rest/usage"
	apierrors "codeberg.org/adcraft/server/internal/errors"
)

const (
	DefaultEndpoint = "http://localhost:8080"

	// a generation may take as long as the server-side timeout
	requestTimeout = 2 * time.Minute
)

// manages HTTP requests to the adcraft REST API
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// error body returned by the API, with the fields of every error shape
type APIError struct {
	StatusCode     int      `json:"-"`
	Code           string   `json:"error"`
	Message        string   `json:"message"`
	Details        string   `json:"details,omitempty"`
	Retryable      bool     `json:"retryable,omitempty"`
	Plan           string   `json:"plan,omitempty"`
	UpgradeOptions []string `json:"upgrade_options,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	return e.Message
}

func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	ErrQuotaExceeded = &APIError{Code: apierrors.CodeQuotaExceeded}
	ErrFeatureLocked = &APIError{Code: apierrors.CodeFeatureLocked}
)

// creates a new REST client, an empty token is fetched on first use
func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *Client) Token() string {
	return c.token
}

// requests an anonymous token unless one is already set
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}

	var resp struct {
		ClientID string `json:"client_id"`
		Token    string `json:"token"`
	}

	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/anonymous", nil, "", &resp); err != nil {
		return "", err
	}

	c.token = resp.Token

	return c.token, nil
}

// uploads a local file as the current creative
func (c *Client) SelectMedia(ctx context.Context, path string) (*media.MediaResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to create upload: %w", err)
	}

	var resp media.MediaResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/media", &body, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) ClearMedia(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/media", nil, "", nil)
}

func (c *Client) Generate(ctx context.Context, instructions string) (*generate.GenerateResponse, error) {
	payload, err := json.Marshal(generate.GenerateRequest{CustomInstructions: instructions})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp generate.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/generate", bytes.NewReader(payload), "application/json", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Usage(ctx context.Context) (*usage.UsageResponse, error) {
	var resp usage.UsageResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/usage", nil, "", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) SetPlan(ctx context.Context, plan string) (*usage.UsageResponse, error) {
	payload, err := json.Marshal(usage.SetPlanRequest{Plan: plan})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp usage.UsageResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/usage/plan", bytes.NewReader(payload), "application/json", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// downloads the last result as CSV
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/export/csv", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}

	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d: %s", status, bytes.TrimSpace(body))
	}

	return apiErr
}
