package openaicompat

import (
	chatstream "github.com/xinbs/askpop-stream-go"
)

// ChatCompletionRequest represents an OpenAI-compatible chat completion
// request body.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// Message represents a message in the wire format.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatCompletionResponse represents a non-streaming chat completion
// response. Only the connection probe reads this shape.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"` // "chat.completion"
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice represents a completion choice in a non-streaming response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason *string `json:"finish_reason"`
}

// buildChatCompletionRequest converts the library conversation and config
// into the wire request. Temperature is attached only when the config
// enables it; some models reject the parameter, so when disabled the key
// must be absent from the JSON body entirely.
func buildChatCompletionRequest(messages []chatstream.Message, cfg chatstream.Config) *ChatCompletionRequest {
	wire := make([]Message, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, Message{Role: m.Role.String(), Content: m.Content})
	}

	req := &ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: wire,
	}

	if cfg.TemperatureEnabled {
		temperature := cfg.Temperature
		req.Temperature = &temperature
	}

	return req
}
