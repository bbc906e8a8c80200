package chatstream

import "sync"

// Sink receives the output of one streaming session.
//
// Callbacks arrive from the session goroutine one at a time, never
// concurrently: zero or more OnPublish calls followed by exactly one
// terminal callback (OnComplete or OnError), or none at all when the
// session is cancelled. The sink is selected once per session and passed
// into SessionManager.Start; the caller's mode flag maps to a sink
// constructor.
//
// Create a fresh sink for each session. The long-lived object is what the
// sink writes into (a Transcript, a note body), not the sink itself.
type Sink interface {
	// OnPublish delivers the full accumulated answer so far, never an
	// increment. first is true only on the session's first publish.
	OnPublish(fullText string, first bool)

	// OnError reports the single terminal failure of a failed session.
	// Anything already published stays visible.
	OnError(kind ErrorKind, message string)

	// OnComplete delivers the final answer of a completed session,
	// including any tail below the publish threshold.
	OnComplete(finalText string)
}

// Failure records the terminal error a sink received, kept separate from
// answer content so the UI can render it as its own entry.
type Failure struct {
	Kind    ErrorKind
	Message string
}

// ConversationSink dispatches a session into a transcript. The first
// publish appends exactly one new assistant message; every later publish
// rewrites that message's content in place. Earlier messages are never
// touched, no matter how many publishes occur.
type ConversationSink struct {
	mu         sync.Mutex
	transcript *Transcript
	appended   bool
	failure    *Failure
}

// NewConversationSink creates a sink that streams into the given
// transcript. One sink serves one session.
func NewConversationSink(t *Transcript) *ConversationSink {
	return &ConversationSink{transcript: t}
}

// OnPublish appends the in-flight assistant message on the session's
// first publish and rewrites it afterwards.
func (s *ConversationSink) OnPublish(fullText string, first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.appended {
		s.transcript.AddAssistant(fullText)
		s.appended = true
		return
	}
	s.transcript.setLastContent(fullText)
}

// OnComplete settles the assistant message on its final text.
// A session that completed without publishing anything non-empty adds no
// message at all.
func (s *ConversationSink) OnComplete(finalText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appended {
		s.transcript.setLastContent(finalText)
		return
	}
	if finalText != "" {
		s.transcript.AddAssistant(finalText)
		s.appended = true
	}
}

// OnError records the failure. The partial answer already in the
// transcript stays where it is.
func (s *ConversationSink) OnError(kind ErrorKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = &Failure{Kind: kind, Message: message}
}

// Failure returns the recorded failure, if the session failed.
func (s *ConversationSink) Failure() (Failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure == nil {
		return Failure{}, false
	}
	return *s.failure, true
}

// NoteSink dispatches a session into a single note body: every publish
// replaces the whole text. There is no append semantics in note mode.
type NoteSink struct {
	mu      sync.Mutex
	text    string
	failure *Failure
}

// NewNoteSink creates an empty note sink. One sink serves one session.
func NewNoteSink() *NoteSink {
	return &NoteSink{}
}

// OnPublish replaces the note body with the accumulated answer.
func (s *NoteSink) OnPublish(fullText string, first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = fullText
}

// OnComplete replaces the note body with the final answer.
func (s *NoteSink) OnComplete(finalText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = finalText
}

// OnError records the failure. The last published text stays readable.
func (s *NoteSink) OnError(kind ErrorKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = &Failure{Kind: kind, Message: message}
}

// Text returns the current note body.
func (s *NoteSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Failure returns the recorded failure, if the session failed.
func (s *NoteSink) Failure() (Failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure == nil {
		return Failure{}, false
	}
	return *s.failure, true
}
