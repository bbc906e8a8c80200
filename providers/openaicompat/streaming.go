package openaicompat

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"sync"

	chatstream "github.com/xinbs/askpop-stream-go"
)

// maxLineBytes bounds a single SSE line. Generous, because some gateways
// pack a whole completion chunk onto one line.
const maxLineBytes = 1024 * 1024

// ChatCompletionChunk represents a streaming chunk.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice represents a choice in a streaming chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta carries the incremental fields of a chunk.
type Delta struct {
	Role    *string `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// sseStream decodes an SSE response body into content deltas, one pull at
// a time. The decode loop suspends at each line read, so cancelling the
// request context fails the pending read and tears the stream down at the
// next line boundary.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	mu   sync.Mutex
	done bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &sseStream{body: body, scanner: scanner}
}

// Recv returns the next content delta. io.EOF means the stream ended
// normally, either via the [DONE] sentinel or a clean close without it.
func (s *sseStream) Recv() (chatstream.Delta, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done {
		return chatstream.Delta{}, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Skip empty lines and comments (heartbeats)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		// Only data fields carry payload; event names etc. are skipped
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		// Check for termination; nothing after the sentinel is decoded.
		// Some gateways pad the sentinel with whitespace.
		if strings.TrimSpace(data) == "[DONE]" {
			s.finish()
			return chatstream.Delta{}, io.EOF
		}

		content, ok := decodeChunk(data)
		if !ok {
			// Malformed or content-less chunks are skipped, not errors
			continue
		}

		return chatstream.Delta{Content: content}, nil
	}

	s.finish()
	if err := s.scanner.Err(); err != nil {
		return chatstream.Delta{}, &chatstream.NetworkError{Op: "read", Err: err}
	}

	// Clean EOF without [DONE] is a normal end of stream
	return chatstream.Delta{}, io.EOF
}

// finish marks the stream exhausted. Guarded because Close can run from
// another goroutine while Recv is mid-read.
func (s *sseStream) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Close releases the underlying connection. A blocked Recv fails once the
// body read is torn down.
func (s *sseStream) Close() error {
	s.finish()
	return s.body.Close()
}

// decodeChunk extracts choices[0].delta.content from one data payload.
// Returns false when the payload is malformed or carries no content, such
// as role announcements and finish_reason chunks.
func decodeChunk(data string) (string, bool) {
	var chunk ChatCompletionChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}

	content := chunk.Choices[0].Delta.Content
	if content == nil || *content == "" {
		return "", false
	}
	return *content, true
}
