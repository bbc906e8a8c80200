package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	chatstream "github.com/xinbs/askpop-stream-go"
)

// maxErrorBodyBytes caps how much of an error response body is read for
// the message shown to the user.
const maxErrorBodyBytes = 2048

// Client speaks the OpenAI-compatible chat completions protocol used by
// OpenAI itself and the many gateways that clone its API shape
// (OpenRouter, llama.cpp servers, DeepSeek, local proxies).
//
// The endpoint, credentials, and model travel in each request's Config,
// so a single Client serves any number of backends; it holds no per-user
// state of its own.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with a default HTTP client. The default has
// no overall timeout: streaming reads are bounded by the request context,
// not the clock.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// NewClientWithHTTPClient creates a client that performs requests with
// the given http.Client. Used to inject timeouts or test transports.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		return NewClient()
	}
	return &Client{httpClient: httpClient}
}

// StreamCompletion issues the streaming chat completion described by req
// and returns the decoded delta stream. The config is validated first, so
// an invalid config produces a ConfigError with zero HTTP requests made.
func (c *Client) StreamCompletion(ctx context.Context, req *chatstream.Request) (chatstream.DeltaStream, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	body := buildChatCompletionRequest(req.Messages, req.Config)
	body.Stream = true

	httpReq, err := c.buildHTTPRequest(ctx, req.Config, body)
	if err != nil {
		return nil, err
	}

	// Set Accept header for SSE
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &chatstream.NetworkError{Op: "connect", Err: err}
	}

	// Check for immediate errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, handleErrorResponse(resp)
	}

	return newSSEStream(resp.Body), nil
}

// buildHTTPRequest creates the HTTP request for a chat completion call.
func (c *Client) buildHTTPRequest(ctx context.Context, cfg chatstream.Config, req *ChatCompletionRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &chatstream.ConfigError{
			Field:  "endpoint",
			Reason: err.Error(),
			Err:    chatstream.ErrInvalidEndpoint,
		}
	}

	// Set headers
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}

// handleErrorResponse turns a non-2xx response into a ProtocolError.
// The structured {"error": {"message": ...}} shape is preferred; anything
// else falls back to a snippet of the raw body.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &chatstream.ProtocolError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Error.Message,
		}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &chatstream.ProtocolError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
