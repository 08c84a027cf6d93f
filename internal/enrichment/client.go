// internal/enrichment/client.go
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"listing-monitor/internal/common/errors"
)

// Client is the transport to the external generative-AI service. Every
// operation is a single attempt: no retries, no backoff. The caller decides
// what to do with a classified failure.
type Client struct {
	httpClient *http.Client
	config     Config
}

func NewClient(config Config) *Client {
	return &Client{
		// No client-level timeout; requests are bounded by context.
		httpClient: &http.Client{},
		config:     config,
	}
}

type generateRequest struct {
	Model            string          `json:"model"`
	Prompt           string          `json:"prompt"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens"`
	ResponseMimeType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// apiError mirrors the error envelope the AI service returns on failure.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Generate issues one text/JSON completion request. When schema is non-nil
// the service is asked for strictly schema-shaped JSON. Failures come back as
// *errors.TransportError so they can be classified.
func (c *Client) Generate(ctx context.Context, model, prompt string, schema json.RawMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	reqBody := generateRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if schema != nil {
		reqBody.ResponseMimeType = "application/json"
		reqBody.ResponseSchema = schema
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &errors.TransportError{Message: fmt.Sprintf("encode request: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", &errors.TransportError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.transportError(resp)
	}

	var apiResponse generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", &errors.TransportError{Message: fmt.Sprintf("decode error: %v", err)}
	}

	return apiResponse.Text, nil
}

// transportError builds a classifiable error from a non-OK response,
// preserving the service's message/status/code when the body carries them.
func (c *Client) transportError(resp *http.Response) *errors.TransportError {
	te := &errors.TransportError{
		Message: fmt.Sprintf("status %d", resp.StatusCode),
		Code:    resp.StatusCode,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return te
	}

	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		te.Message = envelope.Error.Message
		te.Status = envelope.Error.Status
		if envelope.Error.Code != 0 {
			te.Code = envelope.Error.Code
		}
	}
	return te
}
