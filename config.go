package chatstream

import (
	"fmt"
	"net/url"
	"strings"
)

// Config carries the per-request settings resolved by the caller's
// settings layer. A session snapshots its Config at start and never reads
// the settings store itself, so changing settings mid-stream affects only
// the next send.
type Config struct {
	// Endpoint is the absolute URL of the chat completions endpoint
	// (e.g., "https://api.openai.com/v1/chat/completions")
	Endpoint string

	// APIKey is the bearer token sent in the Authorization header
	APIKey string

	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	// Temperature is the sampling temperature, sent only when
	// TemperatureEnabled is true
	Temperature float64

	// TemperatureEnabled controls whether Temperature is serialized at
	// all. Some models reject the parameter outright, so when disabled
	// the key is absent from the request body rather than zeroed.
	TemperatureEnabled bool
}

// Validate checks the config before any network I/O. A session whose
// config fails validation issues zero HTTP requests.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{
			Field:  "api_key",
			Reason: "API key is empty",
			Err:    ErrMissingAPIKey,
		}
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return &ConfigError{
			Field:  "endpoint",
			Reason: fmt.Sprintf("endpoint does not parse as a URL: %v", err),
			Err:    ErrInvalidEndpoint,
		}
	}

	if !u.IsAbs() || u.Host == "" {
		return &ConfigError{
			Field:  "endpoint",
			Reason: fmt.Sprintf("endpoint must be an absolute URL, got %q", c.Endpoint),
			Err:    ErrInvalidEndpoint,
		}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigError{
			Field:  "endpoint",
			Reason: fmt.Sprintf("endpoint must use http or https, got %q", u.Scheme),
			Err:    ErrInvalidEndpoint,
		}
	}

	return nil
}
