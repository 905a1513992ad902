package retrieval

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func scoredMemory(id string, importance types.Importance, score float64) Scored {
	m := &types.Memory{
		ID:         id,
		MemoryType: types.MemoryTypeEpisodic,
		Importance: importance,
		Summary:    "a reasonably short summary for packing tests",
		Content:    types.EpisodicContent{Event: "event body text here"},
	}
	return Scored{Memory: m, Score: score}
}

func TestPackToBudgetPrioritizesHigherImportance(t *testing.T) {
	low := scoredMemory("low", types.ImportanceLow, 1.0)
	high := scoredMemory("high", types.ImportanceHigh, 1.0)
	packed := PackToBudget([]Scored{low, high}, 1000)
	if len(packed) != 2 {
		t.Fatalf("expected both packed, got %d", len(packed))
	}
	if packed[0].MemoryID != "high" {
		t.Errorf("expected higher-importance memory packed first, got %q", packed[0].MemoryID)
	}
}

func TestPackToBudgetDegradesLevelWhenBudgetTight(t *testing.T) {
	m := scoredMemory("mem", types.ImportanceNormal, 1.0)
	packed := PackToBudget([]Scored{m}, 2)
	if len(packed) != 1 {
		t.Fatalf("expected the memory admitted at a cheaper level, got %d packed", len(packed))
	}
	if packed[0].Level != LevelL0 {
		t.Errorf("expected L0 under a 2-token budget, got %v", packed[0].Level)
	}
}

func TestPackToBudgetCriticalAdmittedAtLeastL1(t *testing.T) {
	m := scoredMemory("critical", types.ImportanceCritical, 1.0)
	l1Tokens := EstimateTokens(CompressAtLevel(m.Memory, LevelL1))
	packed := PackToBudget([]Scored{m}, l1Tokens)
	if len(packed) != 1 {
		t.Fatalf("expected critical memory admitted, got %d packed", len(packed))
	}
	if packed[0].Level < LevelL1 {
		t.Errorf("expected critical memory at >= L1, got %v", packed[0].Level)
	}
}

func TestPackToBudgetDropsNonCriticalWhenNothingFits(t *testing.T) {
	m := scoredMemory("mem", types.ImportanceNormal, 1.0)
	packed := PackToBudget([]Scored{m}, 0)
	if len(packed) != 0 {
		t.Errorf("expected nothing packed for zero budget, got %d", len(packed))
	}
}

func TestPackToBudgetEmptyInput(t *testing.T) {
	if got := PackToBudget(nil, 100); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
