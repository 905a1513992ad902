package validation

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func noCheck(path string) (FileInfo, bool)    { return FileInfo{}, false }
func noRename(path string) (string, bool)     { return "", false }

func TestValidateCitationsEmptyLinksScoresOne(t *testing.T) {
	m := &types.Memory{ID: "m1"}
	res := ValidateCitations(m, noCheck, noRename)
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0 for no linked files, got %v", res.Score)
	}
}

func TestValidateCitationsMatchingHashIsValid(t *testing.T) {
	m := &types.Memory{
		ID: "m1",
		LinkedFiles: []types.FileLink{
			{Path: "a.go", ContentHash: "abc", LineStart: 10},
		},
	}
	check := func(path string) (FileInfo, bool) {
		return FileInfo{ContentHash: "abc", HasContentHash: true, TotalLines: 100, HasTotalLines: true}, true
	}
	res := ValidateCitations(m, check, noRename)
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", res.Score)
	}
	if len(res.HealingActions) != 0 {
		t.Fatalf("expected no healing actions, got %v", res.HealingActions)
	}
}

func TestValidateCitationsHashDriftTriggersEmbeddingRefresh(t *testing.T) {
	m := &types.Memory{
		ID:          "m1",
		LinkedFiles: []types.FileLink{{Path: "a.go", ContentHash: "old"}},
	}
	check := func(path string) (FileInfo, bool) {
		return FileInfo{ContentHash: "new", HasContentHash: true}, true
	}
	res := ValidateCitations(m, check, noRename)
	if res.Score != 0.0 {
		t.Fatalf("expected score 0.0 for drifted hash, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingEmbeddingRefresh) {
		t.Fatalf("expected an embedding refresh action, got %v", res.HealingActions)
	}
}

func TestValidateCitationsMissingFileTriggersConfidenceAdjust(t *testing.T) {
	m := &types.Memory{ID: "m1", LinkedFiles: []types.FileLink{{Path: "gone.go"}}}
	res := ValidateCitations(m, noCheck, noRename)
	if res.Score != 0.0 {
		t.Fatalf("expected score 0.0, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingConfidenceAdjust) {
		t.Fatalf("expected a confidence adjust action, got %v", res.HealingActions)
	}
}

func TestValidateCitationsRenamedFileCountsValid(t *testing.T) {
	m := &types.Memory{ID: "m1", LinkedFiles: []types.FileLink{{Path: "old.go"}}}
	rename := func(path string) (string, bool) { return "new.go", true }
	res := ValidateCitations(m, noCheck, rename)
	if res.Score != 1.0 {
		t.Fatalf("expected renamed file to count as valid, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingCitationUpdate) {
		t.Fatalf("expected a citation update action, got %v", res.HealingActions)
	}
}

func TestValidateCitationsLineOutOfRangeTriggersCitationUpdate(t *testing.T) {
	m := &types.Memory{ID: "m1", LinkedFiles: []types.FileLink{{Path: "a.go", LineStart: 500}}}
	check := func(path string) (FileInfo, bool) {
		return FileInfo{TotalLines: 10, HasTotalLines: true}, true
	}
	res := ValidateCitations(m, check, noRename)
	if res.Score != 0.0 {
		t.Fatalf("expected score 0.0 for out-of-range line, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingCitationUpdate) {
		t.Fatalf("expected a citation update action, got %v", res.HealingActions)
	}
}

func hasHealingType(actions []HealingAction, t HealingActionType) bool {
	for _, a := range actions {
		if a.Type == t {
			return true
		}
	}
	return false
}
