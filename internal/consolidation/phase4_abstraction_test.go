package consolidation

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestAbstractClusterAggregatesConfidenceAndTags(t *testing.T) {
	m1 := memoryWithSummary("The deploy pipeline retried three times before succeeding.")
	m1.Confidence = 0.6
	m1.Tags = []string{"deploy", "ci"}
	m1.LinkedFiles = []types.FileLink{{Path: "ci/deploy.yml", ContentHash: "h1"}}

	m2 := memoryWithSummary("A flaky network call caused the first two deploy attempts to fail.")
	m2.Confidence = 0.8
	m2.Tags = []string{"deploy", "flaky"}
	m2.LinkedFiles = []types.FileLink{{Path: "ci/deploy.yml", ContentHash: "h1"}, {Path: "ci/network.go", ContentHash: "h2"}}

	abstraction := AbstractCluster([]*types.Memory{m1, m2})

	if abstraction.Confidence != 0.7 {
		t.Errorf("expected averaged confidence 0.7, got %v", abstraction.Confidence)
	}
	if abstraction.SourceCount != 2 {
		t.Errorf("expected source count 2, got %d", abstraction.SourceCount)
	}
	if len(abstraction.Evidence) != 2 {
		t.Errorf("expected 2 deduplicated evidence files, got %d", len(abstraction.Evidence))
	}
	tagSet := map[string]bool{}
	for _, tag := range abstraction.Tags {
		tagSet[tag] = true
	}
	for _, want := range []string{"deploy", "ci", "flaky"} {
		if !tagSet[want] {
			t.Errorf("missing tag %q in union", want)
		}
	}
	if abstraction.Summary == "" {
		t.Error("expected a non-empty synthesized summary")
	}
}

func TestAbstractClusterEmpty(t *testing.T) {
	a := AbstractCluster(nil)
	if a.SourceCount != 0 || a.Summary != "" {
		t.Errorf("expected zero-value abstraction for empty cluster, got %+v", a)
	}
}

func TestBuildSemanticMemoryCarriesAbstraction(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Abstraction{
		Summary:     "deploy retries mask transient network failures",
		Confidence:  0.75,
		Tags:        []string{"deploy"},
		SourceCount: 3,
	}
	m := BuildSemanticMemory(a, now)
	if m.MemoryType != types.MemoryTypeSemantic {
		t.Errorf("expected semantic memory type, got %v", m.MemoryType)
	}
	if m.ID == "" {
		t.Error("expected a generated id")
	}
	if m.Confidence != a.Confidence {
		t.Errorf("confidence = %v, want %v", m.Confidence, a.Confidence)
	}
	content, ok := m.Content.(types.SemanticContent)
	if !ok {
		t.Fatalf("expected SemanticContent, got %T", m.Content)
	}
	if content.SourceCount != 3 {
		t.Errorf("expected source count 3, got %d", content.SourceCount)
	}
}
