package crdt

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestTrustEvidenceScoreRewardsValidationPenalizesContradiction(t *testing.T) {
	good := TrustEvidence{Validated: 8, Useful: 1, Total: 10}
	bad := TrustEvidence{Validated: 1, Contradicted: 8, Total: 10}
	if good.Score() <= bad.Score() {
		t.Errorf("expected mostly-validated evidence (%v) to score above mostly-contradicted (%v)", good.Score(), bad.Score())
	}
}

func TestTrustTrackerUnknownAgentIsNeutral(t *testing.T) {
	tr := NewTrustTracker(0)
	if got := tr.Trust("stranger", time.Now()); got != 0.5 {
		t.Errorf("expected 0.5 for an agent with no evidence, got %v", got)
	}
}

func TestTrustTrackerDriftsTowardNeutralOverTime(t *testing.T) {
	tr := NewTrustTracker(0.1)
	t0 := time.Now()
	for i := 0; i < 9; i++ {
		tr.RecordValidated(types.AgentID("a"), t0)
	}
	fresh := tr.Trust("a", t0)
	later := tr.Trust("a", t0.Add(5*24*time.Hour))

	if fresh <= 0.5 {
		t.Fatalf("setup: expected strong positive trust before drift, got %v", fresh)
	}
	if later >= fresh {
		t.Errorf("expected trust to drift toward 0.5 after 5 days, fresh=%v later=%v", fresh, later)
	}
	if later <= 0.5 {
		t.Errorf("expected drift not to overshoot past neutral, got %v", later)
	}
}
