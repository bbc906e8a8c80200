package chatstream

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultPublishThreshold is how many pending runes trigger a publish.
// Two is small enough that the answer paints steadily and large enough to
// batch the one-token deltas most endpoints send.
const DefaultPublishThreshold = 2

// Aggregator accumulates the content deltas of one session and decides
// when the sink should repaint.
//
// Every publish carries the full accumulated text, never an increment, so
// each snapshot is a prefix-extension of the previous one and a dropped
// or repeated publish cannot corrupt the displayed answer. The session
// goroutine is the only writer, but the mutex also makes reads from other
// goroutines (FinalText from the UI) safe.
type Aggregator struct {
	mu           sync.Mutex
	threshold    int
	accumulated  strings.Builder
	pendingRunes int
	published    bool
}

// NewAggregator creates an aggregator with the default publish threshold.
func NewAggregator() *Aggregator {
	return NewAggregatorWithThreshold(DefaultPublishThreshold)
}

// NewAggregatorWithThreshold creates an aggregator that publishes every
// threshold runes. Thresholds below one fall back to the default.
func NewAggregatorWithThreshold(threshold int) *Aggregator {
	if threshold < 1 {
		threshold = DefaultPublishThreshold
	}
	return &Aggregator{threshold: threshold}
}

// Append adds one delta and reports whether the sink should repaint.
// It returns the full accumulated text, whether to publish it now, and
// whether this is the session's first publish.
//
// The first non-empty append publishes immediately so a one-character
// answer still paints without waiting for the threshold. That early
// publish does not reset the pending count; only threshold flushes do,
// which keeps the batch cadence unchanged.
func (a *Aggregator) Append(content string) (text string, publish bool, first bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accumulated.WriteString(content)
	a.pendingRunes += utf8.RuneCountInString(content)
	text = a.accumulated.String()

	if !a.published {
		if a.accumulated.Len() == 0 {
			return text, false, false
		}
		a.published = true
		return text, true, true
	}

	if a.pendingRunes >= a.threshold {
		a.pendingRunes = 0
		return text, true, false
	}

	return text, false, false
}

// FinalText returns the complete accumulated text regardless of pending
// state. Sessions call it at terminal transitions so the tail below the
// publish threshold is never lost.
func (a *Aggregator) FinalText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accumulated.String()
}
