package retrieval

import (
	"strings"
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestCompressAtLevelL0IsIdentifierOnly(t *testing.T) {
	m := &types.Memory{ID: "mem-123", Summary: "a long summary that should not appear"}
	if got := CompressAtLevel(m, LevelL0); got != "mem-123" {
		t.Errorf("L0 = %q, want bare id", got)
	}
}

func TestCompressAtLevelL1TruncatesToOneLine(t *testing.T) {
	words := strings.Repeat("word ", 40)
	m := &types.Memory{ID: "mem", Summary: words}
	got := CompressAtLevel(m, LevelL1)
	if len(strings.Fields(got)) > 21 { // 20 words + "..." counted as a field
		t.Errorf("L1 summary too long: %d fields", len(strings.Fields(got)))
	}
}

func TestCompressAtLevelL3IncludesFullContent(t *testing.T) {
	m := &types.Memory{
		ID:      "mem",
		Summary: "deploy retried",
		Content: types.EpisodicContent{Event: "the deploy pipeline retried three times"},
	}
	got := CompressAtLevel(m, LevelL3)
	if !strings.Contains(got, "retried three times") {
		t.Errorf("expected L3 to include full content, got %q", got)
	}
}

func TestEstimateTokensNonEmptyTextIsPositive(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected zero tokens for empty text")
	}
	if EstimateTokens("hi") == 0 {
		t.Error("expected at least one token for non-empty text")
	}
}
