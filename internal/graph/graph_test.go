package graph

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

// unbackedGraph builds a Graph with no store, for tests that only exercise
// in-memory indexing and cycle detection (AddCausalEdge's persistence call
// is skipped by testing the locked helpers directly where needed).
func unbackedGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*node),
		causalOut: make(map[string]map[string]*types.CausalEdge),
		causalIn:  make(map[string]map[string]*types.CausalEdge),
		relOut:    make(map[string]map[string]*types.RelationshipEdge),
		relIn:     make(map[string]map[string]*types.RelationshipEdge),
	}
}

func mustIndexCausal(g *Graph, source, target string, rel types.CausalRelation, strength float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureNodeLocked(source)
	g.ensureNodeLocked(target)
	g.indexCausalLocked(&types.CausalEdge{SourceID: source, TargetID: target, Relation: rel, Strength: strength})
}

func TestFindPathLocked_DetectsCycle(t *testing.T) {
	g := unbackedGraph()
	mustIndexCausal(g, "a", "b", types.RelationCaused, 0.9)
	mustIndexCausal(g, "b", "c", types.RelationCaused, 0.9)

	g.mu.RLock()
	path, found := g.findPathLocked("c", "a", true)
	g.mu.RUnlock()
	if !found {
		t.Fatal("expected a path from c back to a to close the cycle")
	}
	if len(path) == 0 || path[0] != "c" || path[len(path)-1] != "a" {
		t.Errorf("unexpected path: %v", path)
	}
}

func TestFindPathLocked_NonStrictRelationsIgnored(t *testing.T) {
	g := unbackedGraph()
	mustIndexCausal(g, "a", "b", types.RelationSupports, 0.9)
	mustIndexCausal(g, "b", "a", types.RelationCaused, 0.9)

	g.mu.RLock()
	// A path from b to a exists via the strictly-causal edge b->a, but a->b
	// is only Supports, which never participates in cycle checking, so
	// adding a strictly-causal a->b edge should NOT see a path via the
	// Supports edge going the other direction.
	_, found := g.findPathLocked("a", "b", true)
	g.mu.RUnlock()
	if found {
		t.Error("Supports edge must not be traversed during strict-causal cycle detection")
	}
}

func TestBuildNarrative_Sections(t *testing.T) {
	g := unbackedGraph()
	g.EnsureNode("focus", "the outage was mitigated")
	g.EnsureNode("cause1", "a bad deploy")
	g.EnsureNode("effect1", "an alert fired")
	g.EnsureNode("support1", "a postmortem doc")

	g.mu.Lock()
	g.indexCausalLocked(&types.CausalEdge{SourceID: "cause1", TargetID: "focus", Relation: types.RelationCaused, Strength: 0.9})
	g.indexCausalLocked(&types.CausalEdge{SourceID: "focus", TargetID: "effect1", Relation: types.RelationCaused, Strength: 0.8})
	g.indexCausalLocked(&types.CausalEdge{SourceID: "support1", TargetID: "focus", Relation: types.RelationSupports, Strength: 1.0})
	g.mu.Unlock()

	n := g.BuildNarrative("focus")
	if len(n.Sections) != 3 {
		t.Fatalf("expected Origins/Effects/Support sections, got %d: %+v", len(n.Sections), n.Sections)
	}
	titles := map[string]bool{}
	for _, s := range n.Sections {
		titles[s.Title] = true
	}
	for _, want := range []string{"Origins", "Effects", "Support"} {
		if !titles[want] {
			t.Errorf("missing section %q", want)
		}
	}

	wantConfidence := 0.9 * 0.8 * 1.0
	if n.Confidence != wantConfidence {
		t.Errorf("confidence = %v, want %v", n.Confidence, wantConfidence)
	}
	if n.Tier != TierMedium {
		t.Errorf("tier = %v, want medium", n.Tier)
	}
}

func TestBuildNarrative_UnknownMemory(t *testing.T) {
	g := unbackedGraph()
	n := g.BuildNarrative("ghost")
	if n.Tier != TierVeryLow || n.Confidence != 0 {
		t.Errorf("expected very-low/zero narrative for unknown memory, got %+v", n)
	}
}

func TestTierFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  ConfidenceTier
	}{
		{0.95, TierHigh},
		{0.85, TierHigh},
		{0.80, TierMedium},
		{0.70, TierMedium},
		{0.60, TierLow},
		{0.50, TierLow},
		{0.49, TierVeryLow},
		{0.0, TierVeryLow},
	}
	for _, c := range cases {
		if got := TierFromScore(c.score); got != c.want {
			t.Errorf("TierFromScore(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}
