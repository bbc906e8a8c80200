package lorem

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	chatstream "github.com/xinbs/askpop-stream-go"
)

// Source is a mock stream source that fabricates lorem ipsum completions.
// Used for demos and tests without network access or API keys; the
// endpoint and API key in the config are never read.
type Source struct {
	generator *loremgen.Lorem
}

// NewSource creates a new lorem ipsum source.
func NewSource() *Source {
	return &Source{
		generator: loremgen.New(),
	}
}

// SupportsModel returns true if the model name belongs to the lorem family.
// Example models: "lorem", "lorem-fast", "lorem-slow", "lorem-long"
func (s *Source) SupportsModel(model string) bool {
	return model == "lorem" || strings.HasPrefix(model, "lorem-")
}

// streamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second (500ms per word)
// - lorem-fast: 30 words/second (33ms per word)
// - default: 10 words/second
func streamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond // 2 words/second
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond // 30 words/second
	}
	return 100 * time.Millisecond // default: 10 words/second
}

// targetWords returns how many words to fabricate for the model.
func targetWords(model string) int {
	if strings.Contains(model, "short") {
		return 20
	}
	if strings.Contains(model, "long") {
		return 240
	}
	return 80
}

// StreamCompletion fabricates a word-by-word delta stream. Unknown models
// get the same rejection a real gateway would send, which makes the
// protocol failure path testable offline.
func (s *Source) StreamCompletion(ctx context.Context, req *chatstream.Request) (chatstream.DeltaStream, error) {
	model := req.Config.Model
	if !s.SupportsModel(model) {
		return nil, &chatstream.ProtocolError{
			StatusCode: 404,
			Message:    "model not supported by the lorem source (must start with 'lorem')",
		}
	}

	words := strings.Fields(s.generateText(targetWords(model)))
	delay := streamDelay(model)

	log.Printf("[LOREM] streaming %d words: model=%s delay=%v", len(words), model, delay)

	return &stream{
		ctx:    ctx,
		words:  words,
		delay:  delay,
		closed: make(chan struct{}),
	}, nil
}

// stream implements chatstream.DeltaStream over a pre-generated word
// list. The request context is captured so a pending Recv unblocks when
// the session is cancelled, mirroring how an HTTP body read behaves.
// Close may run concurrently with a blocked Recv, so pos is guarded and
// the closed channel wakes a Recv parked in the word delay.
type stream struct {
	ctx   context.Context
	words []string
	delay time.Duration

	closeOnce sync.Once
	closed    chan struct{}

	mu  sync.Mutex
	pos int
}

// Recv delivers the next word after the model's per-word delay.
func (st *stream) Recv() (chatstream.Delta, error) {
	st.mu.Lock()
	exhausted := st.pos >= len(st.words)
	st.mu.Unlock()
	if exhausted {
		return chatstream.Delta{}, io.EOF
	}

	select {
	case <-time.After(st.delay):
	case <-st.ctx.Done():
		return chatstream.Delta{}, st.ctx.Err()
	case <-st.closed:
		return chatstream.Delta{}, io.EOF
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Close may have exhausted the stream while the delay was pending.
	if st.pos >= len(st.words) {
		return chatstream.Delta{}, io.EOF
	}

	word := st.words[st.pos]
	st.pos++

	if st.pos == len(st.words) {
		return chatstream.Delta{Content: word}, nil
	}
	return chatstream.Delta{Content: word + " "}, nil
}

// Close exhausts the stream and wakes a blocked Recv.
func (st *stream) Close() error {
	st.closeOnce.Do(func() {
		close(st.closed)
		st.mu.Lock()
		st.pos = len(st.words)
		st.mu.Unlock()
	})
	return nil
}

// generateText generates lorem ipsum text with approximately targetWords
// words, broken into sentences.
func (s *Source) generateText(targetWords int) string {
	var sb strings.Builder
	wordCount := 0

	for wordCount < targetWords {
		// Generate sentence with 5-15 words
		sentence := s.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")

		wordCount += len(strings.Fields(sentence))
	}

	return strings.TrimSpace(sb.String())
}
