package retrieval

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestScoreRanksHigherConfidenceAboveLowerAtEqualRRF(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	low := &types.Memory{ID: "low", MemoryType: types.MemoryTypeEpisodic, Confidence: 0.2, Importance: types.ImportanceNormal, LastAccessed: now}
	high := &types.Memory{ID: "high", MemoryType: types.MemoryTypeEpisodic, Confidence: 0.9, Importance: types.ImportanceNormal, LastAccessed: now}
	candidates := []Candidate{{Memory: low, RRFScore: 1.0}, {Memory: high, RRFScore: 1.0}}

	scored := Score(candidates, IntentUnknown, nil, NewIntentEngine(), DefaultWeights(), now)
	if scored[0].Memory.ID != "high" {
		t.Errorf("expected higher-confidence memory to rank first, got %q", scored[0].Memory.ID)
	}
}

func TestScoreRecencyFavorsRecentlyAccessed(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stale := &types.Memory{ID: "stale", MemoryType: types.MemoryTypeEpisodic, Importance: types.ImportanceNormal, LastAccessed: now.Add(-365 * 24 * time.Hour)}
	fresh := &types.Memory{ID: "fresh", MemoryType: types.MemoryTypeEpisodic, Importance: types.ImportanceNormal, LastAccessed: now}
	candidates := []Candidate{{Memory: stale, RRFScore: 1.0}, {Memory: fresh, RRFScore: 1.0}}

	scored := Score(candidates, IntentUnknown, nil, NewIntentEngine(), DefaultWeights(), now)
	if scored[0].Memory.ID != "fresh" {
		t.Errorf("expected recently-accessed memory to rank first, got %q", scored[0].Memory.ID)
	}
}

func TestScoreEmptyCandidatesReturnsNil(t *testing.T) {
	if got := Score(nil, IntentUnknown, nil, NewIntentEngine(), DefaultWeights(), time.Now()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFileProximityScoreMatchesActiveFile(t *testing.T) {
	m := &types.Memory{LinkedFiles: []types.FileLink{{Path: "internal/store/memories.go"}}}
	score := fileProximityScore(m, []string{"internal/store/memories.go"})
	if score != 1.0 {
		t.Errorf("expected full proximity match, got %v", score)
	}
	if fileProximityScore(m, nil) != 0 {
		t.Error("expected zero proximity with no active files")
	}
}

func TestDedupByIDKeepsFirstOccurrence(t *testing.T) {
	m := &types.Memory{ID: "dup"}
	scored := []Scored{{Memory: m, Score: 0.9}, {Memory: m, Score: 0.1}}
	deduped := DedupByID(scored)
	if len(deduped) != 1 || deduped[0].Score != 0.9 {
		t.Errorf("expected single deduped entry with first score, got %+v", deduped)
	}
}
