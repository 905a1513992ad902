package crdt

import (
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// DefaultTrustDriftPerDay is how far trust drifts back toward 0.5 per day
// of inactivity, pulling stale evidence toward neutral rather than letting
// one old incident permanently brand an agent.
const DefaultTrustDriftPerDay = 0.02

// TrustEvidence accumulates per-target-agent signal used to compute trust.
type TrustEvidence struct {
	Validated    uint64
	Useful       uint64
	Contradicted uint64
	Total        uint64
	LastUpdated  time.Time
}

// Score computes trust = (validated+useful)/(total+1) * (1 - contradicted/(total+1)),
// clamped to [0, 1].
func (e TrustEvidence) Score() float64 {
	denom := float64(e.Total + 1)
	positive := float64(e.Validated+e.Useful) / denom
	penalty := 1.0 - float64(e.Contradicted)/denom
	score := positive * penalty
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TrustTracker maintains TrustEvidence per agent and applies a daily drift
// toward neutral (0.5) so trust reflects recent behavior more than distant
// history.
type TrustTracker struct {
	evidence  map[types.AgentID]TrustEvidence
	driftRate float64
}

// NewTrustTracker returns a tracker with the given daily drift rate.
func NewTrustTracker(driftRate float64) *TrustTracker {
	if driftRate <= 0 {
		driftRate = DefaultTrustDriftPerDay
	}
	return &TrustTracker{evidence: make(map[types.AgentID]TrustEvidence), driftRate: driftRate}
}

// RecordValidated increments validated+total evidence for agent.
func (t *TrustTracker) RecordValidated(agent types.AgentID, at time.Time) {
	e := t.evidence[agent]
	e.Validated++
	e.Total++
	e.LastUpdated = at
	t.evidence[agent] = e
}

// RecordUseful increments useful+total evidence for agent.
func (t *TrustTracker) RecordUseful(agent types.AgentID, at time.Time) {
	e := t.evidence[agent]
	e.Useful++
	e.Total++
	e.LastUpdated = at
	t.evidence[agent] = e
}

// RecordContradicted increments contradicted+total evidence for agent.
func (t *TrustTracker) RecordContradicted(agent types.AgentID, at time.Time) {
	e := t.evidence[agent]
	e.Contradicted++
	e.Total++
	e.LastUpdated = at
	t.evidence[agent] = e
}

// Trust returns the current trust score for agent, applying drift toward
// 0.5 for however many days have passed since the evidence was last
// updated. An agent with no evidence is fully neutral (0.5).
func (t *TrustTracker) Trust(agent types.AgentID, now time.Time) float64 {
	e, ok := t.evidence[agent]
	if !ok {
		return 0.5
	}
	score := e.Score()
	days := now.Sub(e.LastUpdated).Hours() / 24.0
	if days <= 0 {
		return score
	}
	drift := t.driftRate * days
	if drift > 1 {
		drift = 1
	}
	return score + (0.5-score)*drift
}
