package chatstream

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{
			name:     "config error",
			err:      &ConfigError{Field: "api_key", Reason: "API key is empty", Err: ErrMissingAPIKey},
			expected: ErrorKindConfig,
		},
		{
			name:     "protocol error",
			err:      &ProtocolError{StatusCode: 429, Message: "rate limited"},
			expected: ErrorKindProtocol,
		},
		{
			name:     "network error",
			err:      &NetworkError{Op: "read", Err: errors.New("connection reset")},
			expected: ErrorKindNetwork,
		},
		{
			name:     "wrapped config error",
			err:      fmt.Errorf("session failed: %w", &ConfigError{Field: "endpoint", Reason: "bad URL", Err: ErrInvalidEndpoint}),
			expected: ErrorKindConfig,
		},
		{
			name:     "wrapped protocol error",
			err:      fmt.Errorf("session failed: %w", &ProtocolError{StatusCode: 500, Message: "upstream"}),
			expected: ErrorKindProtocol,
		},
		{
			name:     "plain error defaults to network",
			err:      errors.New("something broke"),
			expected: ErrorKindNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if kind := KindOf(tt.err); kind != tt.expected {
				t.Errorf("KindOf() = %s, want %s", kind, tt.expected)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"missing API key sentinel", ErrMissingAPIKey, true},
		{
			"config error wrapping missing key",
			&ConfigError{Field: "api_key", Reason: "API key is empty", Err: ErrMissingAPIKey},
			true,
		},
		{"HTTP 401", &ProtocolError{StatusCode: 401, Message: "invalid key"}, true},
		{"HTTP 403", &ProtocolError{StatusCode: 403, Message: "forbidden"}, true},
		{"HTTP 500", &ProtocolError{StatusCode: 500, Message: "upstream"}, false},
		{"network error", &NetworkError{Op: "connect", Err: errors.New("refused")}, false},
		{"invalid endpoint", ErrInvalidEndpoint, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.expected {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	err := &ConfigError{Field: "api_key", Reason: "API key is empty", Err: ErrMissingAPIKey}

	if !errors.Is(err, ErrMissingAPIKey) {
		t.Error("ConfigError should unwrap to its sentinel")
	}
	expected := "invalid config field 'api_key': API key is empty"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &NetworkError{Op: "connect", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	expected := "network error during connect: dial tcp: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestProtocolError_Message(t *testing.T) {
	err := &ProtocolError{StatusCode: 401, Message: "Incorrect API key provided"}

	expected := "server returned HTTP 401: Incorrect API key provided"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
