package chatstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a session failure for display and logging.
// Every error a sink receives is one of these three kinds.
type ErrorKind string

const (
	// ErrorKindConfig marks failures caught before any network I/O,
	// such as a missing API key or a malformed endpoint URL.
	ErrorKindConfig ErrorKind = "config"

	// ErrorKindNetwork marks transport failures: dial, TLS, or a read
	// that died mid-stream.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindProtocol marks a non-2xx response from the endpoint.
	ErrorKindProtocol ErrorKind = "protocol"
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	return string(k)
}

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrMissingAPIKey indicates the configured API key is empty.
	ErrMissingAPIKey = errors.New("chatstream: missing API key")

	// ErrInvalidEndpoint indicates the endpoint is not an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("chatstream: invalid endpoint URL")
)

// ConfigError represents an invalid per-request configuration.
// It is raised before any network I/O: a session failing with a
// ConfigError has issued zero HTTP requests.
type ConfigError struct {
	Field  string // The config field that failed validation
	Reason string // Human-readable explanation
	Err    error  // Wrapped sentinel (ErrMissingAPIKey or ErrInvalidEndpoint)
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field '%s': %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport failure while talking to the
// endpoint. Mid-stream read failures keep whatever was already published.
type NetworkError struct {
	Op  string // The operation that failed ("connect", "read")
	Err error  // Wrapped transport error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProtocolError represents an error response from the completion endpoint.
// Message carries the server's own explanation when the body had the
// structured error shape, or a snippet of the raw body otherwise.
type ProtocolError struct {
	StatusCode int    // HTTP status code
	Message    string // Error message extracted from the response body
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Message)
}

// KindOf classifies an error into the sink-facing taxonomy.
// Errors that are neither config nor protocol failures are treated as
// network failures, which is what every unclassified I/O error is.
func KindOf(err error) ErrorKind {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return ErrorKindConfig
	}

	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		return ErrorKindProtocol
	}

	return ErrorKindNetwork
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrMissingAPIKey) {
		return true
	}

	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		// HTTP 401/403 indicate auth issues
		return protocolErr.StatusCode == 401 || protocolErr.StatusCode == 403
	}

	return false
}
