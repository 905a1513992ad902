package algorithms

import "testing"

func TestSummarizeReturnsNonEmptyForValidText(t *testing.T) {
	text := "Rust is a systems programming language. " +
		"It focuses on safety and performance. " +
		"Memory safety is guaranteed at compile time. " +
		"The borrow checker prevents data races."
	if Summarize(text, 2) == "" {
		t.Fatal("expected a non-empty summary")
	}
}

func TestSummarizeReturnsAllForShortText(t *testing.T) {
	if got := Summarize("One sentence.", 3); got != "One sentence." {
		t.Errorf("got %q, want %q", got, "One sentence.")
	}
}

func TestSummarizeEmptyReturnsEmpty(t *testing.T) {
	if got := Summarize("", 2); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestRankSentencesProducesScores(t *testing.T) {
	sentences := []string{"Rust is great.", "Rust is fast.", "Python is slow."}
	scores := rankSentences(sentences)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for _, s := range scores {
		if s <= 0 {
			t.Errorf("expected positive score, got %v", s)
		}
	}
}
