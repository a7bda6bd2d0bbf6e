// Package openai implements the model boundary against the OpenAI
// Responses API.
//
// The computer-use client speaks raw HTTP to the /responses endpoint:
// the item wire format is assembled directly from the transcript types,
// which keeps the serialization under this package's control and works
// against any OpenAI-compatible gateway. A separate one-shot chat helper
// (chat.go) uses the typed openai-go client for vision completions.
//
// Example:
//
//	client, err := openai.NewClient(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("computer-use-preview"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.CreateResponse(ctx, &llm.Request{
//	    Input: transcript,
//	    Tools: toolSchemas,
//	})
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/entrhq/surf/pkg/llm"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the hosted computer-use model.
	DefaultModel = "computer-use-preview"
)

// Client implements llm.Client against the Responses API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel sets the model to use for responses.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Responses API client.
//
// If apiKey is empty it falls back to the OPENAI_API_KEY environment
// variable. If no base URL option is given it checks OPENAI_BASE_URL
// before using the default.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	c := &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			c.baseURL = envBaseURL
		}
	}

	return c, nil
}

// Model returns the model name being used.
func (c *Client) Model() string { return c.model }

// responseBody is the subset of the Responses API reply we consume.
type responseBody struct {
	Output []json.RawMessage `json:"output"`
	Usage  *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateResponse sends one request to the /responses endpoint and parses
// the model's ordered output items.
func (c *Client) CreateResponse(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	input, err := toWireItems(req.Input)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"model":      c.model,
		"input":      input,
		"truncation": "auto",
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
	}
	if req.Instructions != "" {
		body["instructions"] = req.Instructions
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", httpResp.StatusCode, string(respBytes))
	}

	var parsed responseBody
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, &llm.ProtocolError{Reason: "response body is not valid JSON", Cause: err}
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}

	output, err := fromWireItems(parsed.Output)
	if err != nil {
		return nil, err
	}

	resp := &llm.Response{Output: output}
	if parsed.Usage != nil {
		resp.Usage = &llm.Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		}
	}
	return resp, nil
}
