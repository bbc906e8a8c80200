package chatstream

// Request bundles the conversation snapshot and the per-request settings
// handed to a StreamSource.
type Request struct {
	// Messages is the full conversation to complete, system message
	// first. Sessions snapshot the caller's slice at start, so a Request
	// never shares mutable state with the UI.
	Messages []Message

	// Config carries the endpoint, credentials, and sampling settings
	// resolved for this one request.
	Config Config
}
