package validation

import (
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/crdt"
	"github.com/cortexmemory/cortex/internal/types"
)

func TestDetectAbsoluteStatementFindsOverlappingTopic(t *testing.T) {
	a := &types.Memory{ID: "a", Summary: "always validate user input before processing requests"}
	b := &types.Memory{ID: "b", Summary: "never validate user input before processing requests"}
	c := detectAbsoluteStatement(a, b)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if c.DetectedBy != StrategyAbsoluteStatement {
		t.Fatalf("expected absolute statement strategy, got %v", c.DetectedBy)
	}
}

func TestDetectAbsoluteStatementIgnoresUnrelatedTopics(t *testing.T) {
	a := &types.Memory{ID: "a", Summary: "always validate user input before processing requests"}
	b := &types.Memory{ID: "b", Summary: "never deploy on a friday afternoon"}
	if c := detectAbsoluteStatement(a, b); c != nil {
		t.Fatalf("expected no contradiction, got %v", c)
	}
}

func TestDetectTemporalSupersessionExplicit(t *testing.T) {
	older := &types.Memory{
		ID: "old", MemoryType: types.MemoryType("decision"),
		ValidTime: time.Now().Add(-48 * time.Hour),
		Tags:      []string{"auth", "jwt"},
	}
	newer := &types.Memory{
		ID: "new", MemoryType: types.MemoryType("decision"),
		ValidTime:  time.Now(),
		Tags:       []string{"auth", "jwt"},
		Supersedes: &older.ID,
	}
	c := detectTemporalSupersession(newer, older, nil, 0.5)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if c.ConfidenceDelta != 0.5 {
		t.Fatalf("expected explicit supersession delta 0.5, got %v", c.ConfidenceDelta)
	}
}

func TestDetectTemporalSupersessionImplicit(t *testing.T) {
	older := &types.Memory{
		ID: "old", MemoryType: types.MemoryType("decision"),
		ValidTime: time.Now().Add(-48 * time.Hour),
		Tags:      []string{"auth", "jwt"},
	}
	newer := &types.Memory{
		ID: "new", MemoryType: types.MemoryType("decision"),
		ValidTime: time.Now(),
		Tags:      []string{"auth", "jwt"},
	}
	c := detectTemporalSupersession(newer, older, nil, 0.5)
	if c == nil {
		t.Fatal("expected a contradiction")
	}
	if c.ConfidenceDelta != 0.3 {
		t.Fatalf("expected implicit supersession delta 0.3, got %v", c.ConfidenceDelta)
	}
}

func TestDetectTemporalSupersessionRequiresSameType(t *testing.T) {
	older := &types.Memory{ID: "old", MemoryType: types.MemoryType("decision"), ValidTime: time.Now().Add(-time.Hour)}
	newer := &types.Memory{ID: "new", MemoryType: types.MemoryType("fact"), ValidTime: time.Now()}
	if c := detectTemporalSupersession(newer, older, nil, 0.5); c != nil {
		t.Fatalf("expected no contradiction across differing types, got %v", c)
	}
}

func TestDetectExplicitEdge(t *testing.T) {
	a := &types.Memory{ID: "a"}
	b := &types.Memory{ID: "b"}
	edges := []*types.CausalEdge{{SourceID: "a", TargetID: "b", Relation: types.RelationContradicts}}
	c := detectExplicitEdge(a, b, edges)
	if c == nil {
		t.Fatal("expected a contradiction from the explicit edge")
	}
	if c.DetectedBy != StrategyExplicitEdge {
		t.Fatalf("expected explicit edge strategy, got %v", c.DetectedBy)
	}
}

func TestValidateContradictionsNoRelatedScoresOne(t *testing.T) {
	m := &types.Memory{ID: "m1"}
	res := ValidateContradictions(m, nil, nil, nil)
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", res.Score)
	}
}

func TestValidateContradictionsAppliesExplicitEdgePenalty(t *testing.T) {
	m := &types.Memory{ID: "a"}
	other := &types.Memory{ID: "b"}
	edges := []*types.CausalEdge{{SourceID: "a", TargetID: "b", Relation: types.RelationContradicts}}
	res := ValidateContradictions(m, []*types.Memory{other}, edges, nil)
	if res.Score != 0.7 {
		t.Fatalf("expected score 0.7 after one 0.3 penalty, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingConfidenceAdjust) {
		t.Fatalf("expected a confidence adjust action, got %v", res.HealingActions)
	}
}

func TestValidateContradictionsConsensusResistsUnsupportedContradiction(t *testing.T) {
	m := &types.Memory{ID: "a"}
	other := &types.Memory{ID: "b"}
	edges := []*types.CausalEdge{{SourceID: "a", TargetID: "b", Relation: types.RelationContradicts}}

	// m is in a consensus group; the opposing memory b is not a member of
	// any group, so the contradiction should be filtered out entirely.
	groups := []crdt.ConsensusGroup{{
		Members: []crdt.ConsensusMember{
			{Agent: "agent-1", MemoryID: "a"},
			{Agent: "agent-2", MemoryID: "a-2"},
		},
	}}

	res := ValidateContradictions(m, []*types.Memory{other}, edges, groups)
	if res.Score != 1.0 {
		t.Fatalf("expected consensus to resist unsupported contradiction, got score %v", res.Score)
	}
	if !res.HasConsensus {
		t.Fatal("expected HasConsensus to be true")
	}
}

func TestValidateContradictionsLowScoreTriggersArchival(t *testing.T) {
	m := &types.Memory{
		ID:        "a",
		Summary:   "always validate user input before processing requests",
		ValidTime: time.Now(),
		Tags:      []string{"x", "y"},
	}
	explicitPeer := &types.Memory{ID: "b"}
	supersededPeer := &types.Memory{
		ID: "c", MemoryType: m.MemoryType, ValidTime: time.Now().Add(-48 * time.Hour), Tags: []string{"x", "y"},
	}
	absolutePeer := &types.Memory{ID: "d", Summary: "never validate user input before processing requests"}
	m.Supersedes = &supersededPeer.ID

	edges := []*types.CausalEdge{{SourceID: "a", TargetID: "b", Relation: types.RelationContradicts}}
	res := ValidateContradictions(m, []*types.Memory{explicitPeer, supersededPeer, absolutePeer}, edges, nil)

	// explicit edge (-0.3) + explicit supersession (-0.5) + absolute
	// statement (-0.3) overwhelms the score to 0, well below the 0.15
	// archival threshold.
	if res.Score >= 0.15 {
		t.Fatalf("expected score below archival threshold, got %v", res.Score)
	}
	if !hasHealingType(res.HealingActions, HealingArchival) {
		t.Fatalf("expected an archival action, got %v", res.HealingActions)
	}
}
