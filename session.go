package chatstream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SessionState describes where a session is in its lifecycle.
// A session starts Running and settles into exactly one terminal state;
// there are no transitions out of a terminal state.
type SessionState int

// Session lifecycle states
const (
	// StateRunning means the session is validating, connecting, or
	// streaming deltas into its sink.
	StateRunning SessionState = iota

	// StateCompleted means the stream ended normally and the sink
	// received the final text.
	StateCompleted

	// StateCancelled means the user (or a superseding send) stopped the
	// session. No terminal callback was delivered.
	StateCancelled

	// StateFailed means the session ended with a config, network, or
	// protocol error, delivered to the sink exactly once.
	StateFailed
)

// String returns the string representation of the state
func (s SessionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal returns true once the session reached a final state.
func (s SessionState) Terminal() bool {
	return s != StateRunning
}

// Session is one streaming completion in flight. Sessions are created by
// SessionManager.Start and drive themselves on their own goroutine; the
// caller observes them through State, Done, and the sink.
type Session struct {
	id     string
	source StreamSource
	req    *Request
	sink   Sink
	agg    *Aggregator
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	state SessionState
	err   error
}

// ID returns the session's unique identifier, also carried in its logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error a Failed session settled on, and nil for every
// other state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done returns a channel closed after the session settles and its last
// sink callback has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancel requests cooperative cancellation. The session observes it at
// the next line boundary, settles to Cancelled, and makes no further sink
// callbacks; anything already published stays visible but nothing is
// persisted. Safe to call repeatedly and after the session settled.
func (s *Session) Cancel() {
	s.cancel()
}

// run drives the session to one terminal state. It owns every sink
// callback, so callbacks are strictly sequential.
func (s *Session) run(ctx context.Context) {
	defer s.cancel()

	s.logger.Info("session started",
		"session_id", s.id,
		"model", s.req.Config.Model,
		"messages", len(s.req.Messages))

	if err := s.req.Config.Validate(); err != nil {
		s.fail(err)
		return
	}

	stream, err := s.source.StreamCompletion(ctx, s.req)
	if err != nil {
		if ctx.Err() != nil {
			s.settleCancelled()
			return
		}
		s.fail(err)
		return
	}
	defer stream.Close()

	for {
		if ctx.Err() != nil {
			s.settleCancelled()
			return
		}

		delta, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.complete()
				return
			}
			if ctx.Err() != nil {
				s.settleCancelled()
				return
			}
			s.fail(err)
			return
		}

		text, publish, first := s.agg.Append(delta.Content)
		if publish {
			s.sink.OnPublish(text, first)
		}
	}
}

// complete delivers the final text and settles to Completed. FinalText
// picks up any tail the publish threshold was still holding back.
func (s *Session) complete() {
	final := s.agg.FinalText()
	s.logger.Info("session completed", "session_id", s.id, "chars", len(final))
	s.sink.OnComplete(final)
	s.settle(StateCompleted, nil)
}

// fail reports the classified error to the sink exactly once and settles
// to Failed. Anything already published stays with the sink.
func (s *Session) fail(err error) {
	kind := KindOf(err)
	s.logger.Error("session failed", "session_id", s.id, "kind", kind.String(), "error", err)
	s.sink.OnError(kind, err.Error())
	s.settle(StateFailed, err)
}

// settleCancelled settles to Cancelled without any sink callback.
func (s *Session) settleCancelled() {
	s.logger.Info("session cancelled", "session_id", s.id)
	s.settle(StateCancelled, nil)
}

func (s *Session) settle(state SessionState, err error) {
	s.mu.Lock()
	s.state = state
	s.err = err
	s.mu.Unlock()
	close(s.done)
}

// SessionManager owns the single in-flight session of one logical
// conversation window. Starting a new session while one is running
// cancels the old one and waits for it to settle, so two sessions never
// speak to the same sink concurrently. Note mode gets its own manager.
type SessionManager struct {
	source StreamSource
	logger *slog.Logger

	mu      sync.Mutex
	current *Session
}

// NewSessionManager creates a manager that opens streams on the given
// source. Logging is off until SetLogger is called.
func NewSessionManager(source StreamSource) *SessionManager {
	return &SessionManager{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger routes session logs to the given logger. Call it before the
// first Start.
func (m *SessionManager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Start launches a streaming session for the given conversation snapshot
// and returns its handle. If a session is still running it is cancelled
// first, and Start waits for it to settle before launching the new one.
//
// The messages slice is copied, so the caller may keep mutating its
// transcript while the session streams.
func (m *SessionManager) Start(messages []Message, cfg Config, sink Sink) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur := m.current; cur != nil && !cur.State().Terminal() {
		m.logger.Info("superseding running session", "session_id", cur.ID())
		cur.Cancel()
		<-cur.Done()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     uuid.New().String(),
		source: m.source,
		req:    &Request{Messages: snapshotMessages(messages), Config: cfg},
		sink:   sink,
		agg:    NewAggregator(),
		logger: m.logger,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  StateRunning,
	}
	m.current = s

	go s.run(ctx)
	return s
}

// CancelActive cancels the running session, if any. Like Session.Cancel
// it does not wait; callers that need the settled state wait on Done.
func (m *SessionManager) CancelActive() {
	m.mu.Lock()
	cur := m.current
	m.mu.Unlock()

	if cur != nil {
		cur.Cancel()
	}
}

// Active returns the most recently started session, or nil before the
// first Start. The session may already have settled.
func (m *SessionManager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func snapshotMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
