package openaicompat

import (
	"context"
	"encoding/json"
	"io"

	chatstream "github.com/xinbs/askpop-stream-go"
)

// probeMaxTokens caps the completion size of a connection probe so a
// successful test costs close to nothing.
const probeMaxTokens = 8

// Probe issues a minimal non-streaming completion to verify that the
// configured endpoint, API key, and model accept requests. It returns nil
// on success and the same error taxonomy sessions use otherwise: a
// ConfigError before any I/O, a NetworkError for transport failures, or a
// ProtocolError when the endpoint rejects the request. Probes are never
// retried.
func (c *Client) Probe(ctx context.Context, cfg chatstream.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ping := []chatstream.Message{{Role: chatstream.RoleUser, Content: "ping"}}
	body := buildChatCompletionRequest(ping, cfg)
	body.Stream = false
	maxTokens := probeMaxTokens
	body.MaxTokens = &maxTokens

	httpReq, err := c.buildHTTPRequest(ctx, cfg, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &chatstream.NetworkError{Op: "connect", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &chatstream.NetworkError{Op: "read", Err: err}
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(payload, &chatResp); err != nil {
		return &chatstream.ProtocolError{
			StatusCode: resp.StatusCode,
			Message:    "endpoint returned a malformed completion response",
		}
	}
	if len(chatResp.Choices) == 0 {
		return &chatstream.ProtocolError{
			StatusCode: resp.StatusCode,
			Message:    "completion response has no choices",
		}
	}

	return nil
}
