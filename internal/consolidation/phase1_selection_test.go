package consolidation

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

func makeEpisodic(daysOld int, confidence float64, archived bool, now time.Time) *types.Memory {
	return &types.Memory{
		ID:         "mem",
		MemoryType: types.MemoryTypeEpisodic,
		Content:    types.EpisodicContent{Event: "test interaction"},
		Summary:    "test",
		ValidTime:  now.Add(-time.Duration(daysOld) * 24 * time.Hour),
		Confidence: confidence,
		Importance: types.ImportanceNormal,
		Archived:   archived,
	}
}

func TestSelectsEligibleEpisodicMemories(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	memories := []*types.Memory{
		makeEpisodic(10, 0.8, false, now), // eligible
		makeEpisodic(3, 0.8, false, now),  // too young
		makeEpisodic(10, 0.1, false, now), // too low confidence
		makeEpisodic(10, 0.8, true, now),  // archived
	}
	candidates := SelectCandidates(memories, now)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestSelectCandidatesExcludesNonEligibleTypes(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := makeEpisodic(10, 0.8, false, now)
	m.MemoryType = types.MemoryTypeSemantic
	if candidates := SelectCandidates([]*types.Memory{m}, now); len(candidates) != 0 {
		t.Errorf("expected no candidates for semantic memory, got %d", len(candidates))
	}
}

func TestSelectCandidatesExcludesSuperseded(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := makeEpisodic(10, 0.8, false, now)
	id := "other"
	m.SupersededBy = &id
	if candidates := SelectCandidates([]*types.Memory{m}, now); len(candidates) != 0 {
		t.Errorf("expected superseded memory to be excluded, got %d", len(candidates))
	}
}
