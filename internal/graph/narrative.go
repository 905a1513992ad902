package graph

import (
	"fmt"
	"sort"

	"github.com/cortexmemory/cortex/internal/types"
)

// ConfidenceTier classifies a narrative's overall confidence score.
type ConfidenceTier string

const (
	TierHigh    ConfidenceTier = "high"
	TierMedium  ConfidenceTier = "medium"
	TierLow     ConfidenceTier = "low"
	TierVeryLow ConfidenceTier = "very_low"
)

// TierFromScore classifies score per the component design's fixed
// thresholds: >=0.85 high, >=0.70 medium, >=0.50 low, else very-low.
func TierFromScore(score float64) ConfidenceTier {
	switch {
	case score >= 0.85:
		return TierHigh
	case score >= 0.70:
		return TierMedium
	case score >= 0.50:
		return TierLow
	default:
		return TierVeryLow
	}
}

// Section is one titled block of a narrative (Origins, Effects, Support, or
// Conflicts).
type Section struct {
	Title   string
	Entries []string
}

// Narrative is the assembled causal story for a focus memory.
type Narrative struct {
	MemoryID     string
	Summary      string
	KeyPoints    []string
	Confidence   float64
	Tier         ConfidenceTier
	Sections     []Section
	EvidenceRefs []string
}

// BuildNarrative assembles Origins (incoming Caused/DerivedFrom/TriggeredBy),
// Effects (outgoing Caused/Enabled), Support (incoming Supports, plus every
// other outgoing relation), and Conflicts (Contradicts in either direction)
// sections for memoryID. Incoming edges of any other relation appear in no
// section. Chain confidence is the product of every edge strength touching
// the focus node.
func (g *Graph) BuildNarrative(memoryID string) *Narrative {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[memoryID]; !ok {
		return &Narrative{
			MemoryID:   memoryID,
			Summary:    "No causal context found.",
			Confidence: 0,
			Tier:       TierVeryLow,
		}
	}

	var origins, effects, support, conflicts []string
	var keyPoints, evidenceRefs []string
	var strengths []float64

	focusSummary := g.labelFor(memoryID)

	for _, sourceID := range sortedEdgeKeys(g.causalIn[memoryID]) {
		e := g.causalIn[memoryID][sourceID]
		strengths = append(strengths, e.Strength)
		sourceSummary := g.labelFor(sourceID)
		text := fmt.Sprintf("%q %s %q", sourceSummary, relationVerb(e.Relation), focusSummary)
		switch {
		case isOrigin(e.Relation):
			origins = append(origins, text)
		case e.Relation == types.RelationSupports:
			support = append(support, text)
		case e.Relation == types.RelationContradicts:
			conflicts = append(conflicts, text)
		}
		for _, ev := range e.Evidence {
			evidenceRefs = append(evidenceRefs, ev.Description)
		}
		keyPoints = append(keyPoints, fmt.Sprintf("%s (%s: %.0f%%)", sourceSummary, e.Relation, e.Strength*100))
	}

	for _, targetID := range sortedEdgeKeys(g.causalOut[memoryID]) {
		e := g.causalOut[memoryID][targetID]
		strengths = append(strengths, e.Strength)
		targetSummary := g.labelFor(targetID)
		text := fmt.Sprintf("%q %s %q", focusSummary, relationVerb(e.Relation), targetSummary)
		switch {
		case isEffect(e.Relation):
			effects = append(effects, text)
		case e.Relation == types.RelationContradicts:
			conflicts = append(conflicts, text)
		default:
			support = append(support, text)
		}
		for _, ev := range e.Evidence {
			evidenceRefs = append(evidenceRefs, ev.Description)
		}
		keyPoints = append(keyPoints, fmt.Sprintf("%s (%s: %.0f%%)", targetSummary, e.Relation, e.Strength*100))
	}

	confidence := productOf(strengths)
	tier := TierFromScore(confidence)

	var sections []Section
	if len(origins) > 0 {
		sections = append(sections, Section{Title: "Origins", Entries: origins})
	}
	if len(effects) > 0 {
		sections = append(sections, Section{Title: "Effects", Entries: effects})
	}
	if len(support) > 0 {
		sections = append(sections, Section{Title: "Support", Entries: support})
	}
	if len(conflicts) > 0 {
		sections = append(sections, Section{Title: "Conflicts", Entries: conflicts})
	}

	summary := "No causal relationships found."
	if len(sections) > 0 {
		summary = fmt.Sprintf("Causal narrative for memory with %s confidence (%d connections).", tier, len(keyPoints))
	}

	return &Narrative{
		MemoryID:     memoryID,
		Summary:      summary,
		KeyPoints:    keyPoints,
		Confidence:   confidence,
		Tier:         tier,
		Sections:     sections,
		EvidenceRefs: evidenceRefs,
	}
}

func (g *Graph) labelFor(id string) string {
	if n, ok := g.nodes[id]; ok && n.summary != "" {
		return n.summary
	}
	return id
}

func isOrigin(r types.CausalRelation) bool {
	switch r {
	case types.RelationCaused, types.RelationDerivedFrom, types.RelationTriggeredBy:
		return true
	}
	return false
}

func isEffect(r types.CausalRelation) bool {
	switch r {
	case types.RelationCaused, types.RelationEnabled:
		return true
	}
	return false
}

func relationVerb(r types.CausalRelation) string {
	switch r {
	case types.RelationCaused:
		return "caused"
	case types.RelationEnabled:
		return "enabled"
	case types.RelationPrevented:
		return "prevented"
	case types.RelationContradicts:
		return "contradicts"
	case types.RelationSupersedes:
		return "supersedes"
	case types.RelationSupports:
		return "supports"
	case types.RelationDerivedFrom:
		return "was derived from"
	case types.RelationTriggeredBy:
		return "was triggered by"
	default:
		return string(r)
	}
}

func productOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	p := 1.0
	for _, v := range vals {
		p *= v
	}
	return p
}

// sortedEdgeKeys returns m's keys in a stable order so narrative text (and
// tests asserting on it) doesn't depend on Go's randomized map iteration.
func sortedEdgeKeys(m map[string]*types.CausalEdge) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
