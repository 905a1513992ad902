package validation

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/decay"
	"github.com/cortexmemory/cortex/internal/types"
)

func TestValidatorValidateCleanMemoryScoresOne(t *testing.T) {
	v := NewValidator(decay.New(), noCheck, noRename)
	m := &types.Memory{ID: "m1", LastAccessed: time.Now()}
	report := v.Validate(m, nil, nil, nil, 0.9, time.Now())
	if report.OverallScore != 1.0 {
		t.Fatalf("expected overall score 1.0, got %v", report.OverallScore)
	}
	if len(report.HealingActions) != 0 {
		t.Fatalf("expected no healing actions, got %v", report.HealingActions)
	}
}

func TestValidatorValidateCombinesDimensionFailures(t *testing.T) {
	v := NewValidator(decay.New(), noCheck, noRename)
	now := time.Now()
	m := &types.Memory{
		ID:             "m1",
		LastAccessed:   now.Add(-60 * 24 * time.Hour),
		LinkedFiles:    []types.FileLink{{Path: "gone.go"}},
		LinkedPatterns: []types.PatternLink{{PatternID: "p1", Active: false}},
	}
	report := v.Validate(m, nil, nil, nil, 0.05, now)
	if report.OverallScore >= 0.5 {
		t.Fatalf("expected a low overall score from multiple failing dimensions, got %v", report.OverallScore)
	}
	if len(report.HealingActions) < 3 {
		t.Fatalf("expected healing actions from citation, temporal, and pattern dimensions, got %v", report.HealingActions)
	}
}
