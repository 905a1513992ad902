package crdt

import "github.com/cortexmemory/cortex/internal/types"

// Resolution names how a contradiction between two agents' memories was
// settled.
type Resolution string

const (
	ResolutionTrustWins            Resolution = "trust_wins"
	ResolutionTemporalSupersession Resolution = "temporal_supersession"
	ResolutionContextDependent     Resolution = "context_dependent"
	ResolutionNeedsHumanReview     Resolution = "needs_human_review"
)

// TrustDiffThreshold is the minimum trust gap between two agents before
// the more-trusted agent's memory wins outright.
const TrustDiffThreshold = 0.3

// ContradictingPair describes two memories, owned by different agents,
// that contradict each other.
type ContradictingPair struct {
	A, B           *types.Memory
	TrustA, TrustB float64
}

// Resolve decides how a cross-agent contradiction should be settled,
// checking rules in priority order: a decisive trust gap wins outright;
// otherwise explicit supersession wins; otherwise differing scopes make
// both sides valid in their own context; otherwise a human must decide.
func Resolve(pair ContradictingPair) Resolution {
	if diff := pair.TrustA - pair.TrustB; diff > TrustDiffThreshold || -diff > TrustDiffThreshold {
		return ResolutionTrustWins
	}
	if supersedes(pair.A, pair.B) || supersedes(pair.B, pair.A) {
		return ResolutionTemporalSupersession
	}
	if pair.A.Namespace != pair.B.Namespace {
		return ResolutionContextDependent
	}
	return ResolutionNeedsHumanReview
}

// supersedes reports whether a explicitly declares that it supersedes b.
func supersedes(a, b *types.Memory) bool {
	return a.Supersedes != nil && *a.Supersedes == b.ID
}
