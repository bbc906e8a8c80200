package chatstream

// Delta is a single increment of assistant text decoded from a stream.
type Delta struct {
	// Content is the text fragment carried by this chunk
	Content string
}

// DeltaStream is a pull-based sequence of content deltas for one session.
//
// Recv blocks until the next delta arrives. It returns io.EOF when the
// stream ends normally (the [DONE] sentinel or a clean close) and a
// NetworkError when the underlying read dies mid-stream. After any
// error, the stream is exhausted and further Recv calls return io.EOF.
//
// The pull shape is what makes cancellation cooperative: the session
// suspends inside Recv at each line boundary, and cancelling the request
// context fails the pending read.
type DeltaStream interface {
	// Recv returns the next content delta.
	Recv() (Delta, error)

	// Close releases the underlying connection. Safe to call more than
	// once, and safe to call while a Recv is blocked.
	Close() error
}
