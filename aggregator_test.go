package chatstream

import (
	"strings"
	"testing"
)

func TestAggregator_FirstAppendPublishesImmediately(t *testing.T) {
	agg := NewAggregator()

	text, publish, first := agg.Append("H")
	if !publish {
		t.Fatal("first non-empty append should publish")
	}
	if !first {
		t.Error("first publish should be flagged as first")
	}
	if text != "H" {
		t.Errorf("expected text %q, got %q", "H", text)
	}

	text, publish, first = agg.Append("i")
	if !publish {
		t.Fatal("second append should reach the threshold and publish")
	}
	if first {
		t.Error("second publish should not be flagged as first")
	}
	if text != "Hi" {
		t.Errorf("expected text %q, got %q", "Hi", text)
	}
}

func TestAggregator_EmptyDeltasBeforeContent(t *testing.T) {
	agg := NewAggregator()

	for i := 0; i < 3; i++ {
		text, publish, first := agg.Append("")
		if publish || first {
			t.Fatalf("append %d: empty delta should not publish", i)
		}
		if text != "" {
			t.Fatalf("append %d: expected empty text, got %q", i, text)
		}
	}

	text, publish, first := agg.Append("Hi")
	if !publish || !first {
		t.Fatal("first non-empty append should publish as first")
	}
	if text != "Hi" {
		t.Errorf("expected text %q, got %q", "Hi", text)
	}
}

func TestAggregator_SingleCharDeltas(t *testing.T) {
	agg := NewAggregator()

	var published []string
	for _, ch := range strings.Split("Hello", "") {
		text, publish, _ := agg.Append(ch)
		if publish {
			published = append(published, text)
		}
	}

	expected := []string{"H", "He", "Hell"}
	if len(published) != len(expected) {
		t.Fatalf("expected %d publishes, got %d: %v", len(expected), len(published), published)
	}
	for i, want := range expected {
		if published[i] != want {
			t.Errorf("publish %d: expected %q, got %q", i, want, published[i])
		}
	}

	if agg.FinalText() != "Hello" {
		t.Errorf("expected final text %q, got %q", "Hello", agg.FinalText())
	}
}

func TestAggregator_PublishedTextsArePrefixes(t *testing.T) {
	agg := NewAggregator()

	deltas := []string{"The", " quick", "", " brown", " fox", " jumps", "", " over"}
	var published []string
	for _, d := range deltas {
		text, publish, _ := agg.Append(d)
		if publish {
			published = append(published, text)
		}
	}
	final := agg.FinalText()

	if len(published) == 0 {
		t.Fatal("expected at least one publish")
	}
	for i := 1; i < len(published); i++ {
		if !strings.HasPrefix(published[i], published[i-1]) {
			t.Errorf("publish %d %q is not an extension of publish %d %q",
				i, published[i], i-1, published[i-1])
		}
	}
	if !strings.HasPrefix(final, published[len(published)-1]) {
		t.Errorf("final text %q does not extend last publish %q",
			final, published[len(published)-1])
	}
	if final != "The quick brown fox jumps over" {
		t.Errorf("unexpected final text %q", final)
	}
}

func TestAggregator_FinalTextIncludesPending(t *testing.T) {
	agg := NewAggregator()

	agg.Append("He")
	if _, publish, _ := agg.Append("l"); publish {
		t.Fatal("single rune below threshold should not publish")
	}

	if agg.FinalText() != "Hel" {
		t.Errorf("expected final text %q, got %q", "Hel", agg.FinalText())
	}
}

func TestAggregator_CustomThreshold(t *testing.T) {
	agg := NewAggregatorWithThreshold(5)

	if _, publish, first := agg.Append("abc"); !publish || !first {
		t.Fatal("first non-empty append should publish regardless of threshold")
	}
	text, publish, _ := agg.Append("de")
	if !publish {
		t.Fatal("five pending runes should reach a threshold of 5")
	}
	if text != "abcde" {
		t.Errorf("expected text %q, got %q", "abcde", text)
	}

	if _, publish, _ := agg.Append("fg"); publish {
		t.Error("two pending runes should not reach a threshold of 5")
	}
	if text, publish, _ := agg.Append("hij"); !publish || text != "abcdefghij" {
		t.Errorf("expected publish of %q, got publish=%v text=%q", "abcdefghij", publish, text)
	}
}

func TestAggregator_InvalidThresholdFallsBack(t *testing.T) {
	agg := NewAggregatorWithThreshold(0)

	agg.Append("H")
	if _, publish, _ := agg.Append("i"); !publish {
		t.Error("threshold 0 should fall back to the default of 2")
	}
}

func TestAggregator_ThresholdCountsRunesNotBytes(t *testing.T) {
	agg := NewAggregatorWithThreshold(4)

	// Each of these is one rune but three bytes in UTF-8.
	if _, publish, first := agg.Append("日"); !publish || !first {
		t.Fatal("first append should publish")
	}
	if _, publish, _ := agg.Append("本"); publish {
		t.Error("two pending runes should not reach a threshold of 4")
	}
	if _, publish, _ := agg.Append("語"); publish {
		t.Error("three pending runes should not reach a threshold of 4")
	}
	text, publish, _ := agg.Append("で")
	if !publish {
		t.Fatal("four pending runes should reach a threshold of 4")
	}
	if text != "日本語で" {
		t.Errorf("expected text %q, got %q", "日本語で", text)
	}
}

func TestAggregator_FinalTextOnEmptyStream(t *testing.T) {
	agg := NewAggregator()
	if agg.FinalText() != "" {
		t.Errorf("expected empty final text, got %q", agg.FinalText())
	}
}
