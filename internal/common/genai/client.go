// internal/common/genai/client.go
// Package genai wraps the external text-generation service behind a
// single-call, stateless client. The orchestration layer does not know or
// care which concrete model serves this contract.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	commonerrors "labelforge/internal/common/errors"
)

// Request carries one rendered prompt plus the model configuration for a
// single attempt.
type Request struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Model       string  `json:"model"`
}

// Client is the single-call generative contract. Implementations must be
// safe for concurrent use across fan-out sub-tasks.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// HTTPClient talks to the generation API over HTTP. The per-attempt timeout
// comes from the caller's context; cancellation closes the connection.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		// No transport-level timeout - attempts are bounded by context.
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Generate performs exactly one generation call. Faults map to the
// machine-readable categories: service-unavailable (network error or
// non-2xx status), malformed-response (undecodable body), no-content
// (empty text).
func (c *HTTPClient) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", commonerrors.NewInternalError(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", commonerrors.NewInternalError(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", commonerrors.NewGenerationUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", commonerrors.NewGenerationUnavailableError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", commonerrors.NewOutputMalformedError(fmt.Errorf("decode response: %w", err))
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		return "", commonerrors.NewGenerationNoContentError()
	}

	return apiResponse.Text, nil
}
