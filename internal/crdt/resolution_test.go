package crdt

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestResolveTrustWinsOnDecisiveGap(t *testing.T) {
	pair := ContradictingPair{
		A: &types.Memory{ID: "a", Namespace: "agent://x/"}, TrustA: 0.9,
		B: &types.Memory{ID: "b", Namespace: "agent://x/"}, TrustB: 0.4,
	}
	if got := Resolve(pair); got != ResolutionTrustWins {
		t.Errorf("expected trust_wins, got %v", got)
	}
}

func TestResolveTemporalSupersessionWhenDeclared(t *testing.T) {
	bID := "b"
	pair := ContradictingPair{
		A: &types.Memory{ID: "a", Namespace: "agent://x/", Supersedes: &bID}, TrustA: 0.6,
		B: &types.Memory{ID: "b", Namespace: "agent://x/"}, TrustB: 0.55,
	}
	if got := Resolve(pair); got != ResolutionTemporalSupersession {
		t.Errorf("expected temporal_supersession, got %v", got)
	}
}

func TestResolveContextDependentWhenScopesDiffer(t *testing.T) {
	pair := ContradictingPair{
		A: &types.Memory{ID: "a", Namespace: "agent://x/"}, TrustA: 0.6,
		B: &types.Memory{ID: "b", Namespace: "agent://y/"}, TrustB: 0.55,
	}
	if got := Resolve(pair); got != ResolutionContextDependent {
		t.Errorf("expected context_dependent, got %v", got)
	}
}

func TestResolveNeedsHumanReviewOtherwise(t *testing.T) {
	pair := ContradictingPair{
		A: &types.Memory{ID: "a", Namespace: "agent://x/"}, TrustA: 0.6,
		B: &types.Memory{ID: "b", Namespace: "agent://x/"}, TrustB: 0.55,
	}
	if got := Resolve(pair); got != ResolutionNeedsHumanReview {
		t.Errorf("expected needs_human_review, got %v", got)
	}
}
