package chatstream

import "sync"

// Role identifies the author of a conversation message.
// Using a typed constant prevents typos and provides compile-time safety.
type Role string

// Known message roles
const (
	// RoleSystem is the instruction message that opens a conversation
	RoleSystem Role = "system"

	// RoleUser is a message written by the person asking
	RoleUser Role = "user"

	// RoleAssistant is a message produced by the model
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message represents a single message in the conversation.
type Message struct {
	// Role is "system", "user", or "assistant"
	Role Role

	// Content is the plain text of the message
	Content string
}

// Transcript holds the ordered messages of one conversation window.
//
// A transcript always starts with exactly one system message and grows by
// appending. Completed messages are never mutated; only the in-flight
// assistant message (always the last entry) is rewritten while a session
// streams into it. All methods are safe for concurrent use, since sink
// callbacks arrive from the session goroutine while the UI reads.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript creates a transcript seeded with a single system message.
func NewTranscript(systemPrompt string) *Transcript {
	return &Transcript{
		messages: []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// AddUser appends a user message to the transcript.
func (t *Transcript) AddUser(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, Message{Role: RoleUser, Content: content})
}

// AddAssistant appends an assistant message. Callers use it to restore a
// past conversation; ConversationSink uses it for the first publish of a
// streaming session.
func (t *Transcript) AddAssistant(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, Message{Role: RoleAssistant, Content: content})
}

// Messages returns a copy of the transcript in order.
// The copy never aliases internal state, so callers can hand it to a
// session while the transcript keeps growing.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the final message and true, or a zero message and false
// for a transcript that somehow lost its seed.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// setLastContent rewrites the content of the last message in place.
// Callers must only use it on the assistant message they appended; earlier
// messages stay immutable.
func (t *Transcript) setLastContent(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return
	}
	t.messages[len(t.messages)-1].Content = content
}
