package validation

import (
	"strings"

	"github.com/cortexmemory/cortex/internal/crdt"
	"github.com/cortexmemory/cortex/internal/types"
)

// ContradictionStrategy names which detection rule found a contradiction.
type ContradictionStrategy string

const (
	StrategyAbsoluteStatement   ContradictionStrategy = "absolute_statement"
	StrategyTemporalSupersession ContradictionStrategy = "temporal_supersession"
	StrategyExplicitEdge        ContradictionStrategy = "explicit_edge"
)

// DefaultContradictionConfidenceDelta is how much score a single
// contradiction costs when no strategy-specific delta applies.
const DefaultContradictionConfidenceDelta = 0.3

// Contradiction is one detected conflict between two memories.
type Contradiction struct {
	MemoryIDs       [2]string
	ConfidenceDelta float64
	Description     string
	DetectedBy      ContradictionStrategy
}

var (
	alwaysWords = []string{"always", "must always", "every time", "without exception", "invariably", "in all cases"}
	neverWords  = []string{"never", "must never", "under no circumstances", "at no point", "in no case", "must not ever"}
)

// detectAbsoluteStatement flags "always X" vs "never X" pairs about
// overlapping topics: one memory's summary contains an absolute-positive
// phrase, the other an absolute-negative phrase, and the text following
// each phrase shares at least 30% of its significant words.
func detectAbsoluteStatement(a, b *types.Memory) *Contradiction {
	if c := absoluteConflict(a, b, alwaysWords, neverWords); c != nil {
		return c
	}
	return absoluteConflict(a, b, neverWords, alwaysWords)
}

func absoluteConflict(a, b *types.Memory, aWords, bWords []string) *Contradiction {
	aTopic, aFound := topicAfterAny(a.Summary, aWords)
	if !aFound {
		return nil
	}
	bTopic, bFound := topicAfterAny(b.Summary, bWords)
	if !bFound {
		return nil
	}
	if !topicsOverlap(aTopic, bTopic) {
		return nil
	}
	return &Contradiction{
		MemoryIDs:       [2]string{a.ID, b.ID},
		ConfidenceDelta: DefaultContradictionConfidenceDelta,
		Description:     "absolute statement conflict: '" + a.Summary + "' vs '" + b.Summary + "'",
		DetectedBy:      StrategyAbsoluteStatement,
	}
}

// topicAfterAny returns the up-to-60-char lowercased snippet following the
// first match of any word in words, and whether a match was found.
func topicAfterAny(text string, words []string) (string, bool) {
	lower := strings.ToLower(text)
	best := -1
	bestLen := 0
	for _, w := range words {
		if idx := strings.Index(lower, w); idx >= 0 {
			if best == -1 || idx < best {
				best = idx
				bestLen = len(w)
			}
		}
	}
	if best == -1 {
		return "", false
	}
	start := best + bestLen
	if start >= len(lower) {
		return "", true
	}
	end := start + 60
	if end > len(lower) {
		end = len(lower)
	}
	return strings.TrimSpace(lower[start:end]), true
}

// topicsOverlap reports whether two topic snippets share at least 30% of
// their significant (len > 2) words.
func topicsOverlap(a, b string) bool {
	aWords := significantWords(a)
	bWords := significantWords(b)
	if len(aWords) == 0 || len(bWords) == 0 {
		return false
	}
	bSet := make(map[string]bool, len(bWords))
	for _, w := range bWords {
		bSet[w] = true
	}
	overlap := 0
	for _, w := range aWords {
		if bSet[w] {
			overlap++
		}
	}
	minLen := len(aWords)
	if len(bWords) < minLen {
		minLen = len(bWords)
	}
	return float64(overlap)/float64(minLen) >= 0.3
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// detectTemporalSupersession flags a newer memory implicitly or explicitly
// superseding an older one on the same topic (shared tags, similar
// embeddings, or shared file citations).
func detectTemporalSupersession(a, b *types.Memory, embeddingSimilarity *float64, tagOverlapThreshold float64) *Contradiction {
	if a.MemoryType != b.MemoryType {
		return nil
	}
	if a.ValidTime.Equal(b.ValidTime) {
		return nil
	}
	older, newer := a, b
	if b.ValidTime.Before(a.ValidTime) {
		older, newer = b, a
	}

	tagsMatch := tagOverlap(older.Tags, newer.Tags) >= tagOverlapThreshold
	embeddingsMatch := embeddingSimilarity != nil && *embeddingSimilarity >= 0.8
	filesMatch := sharesFile(older.LinkedFiles, newer.LinkedFiles)

	if !tagsMatch && !embeddingsMatch && !filesMatch {
		return nil
	}

	if newer.Supersedes != nil && *newer.Supersedes == older.ID {
		return &Contradiction{
			MemoryIDs:       [2]string{older.ID, newer.ID},
			ConfidenceDelta: 0.5,
			Description:     "explicit supersession: '" + older.Summary + "' superseded by '" + newer.Summary + "'",
			DetectedBy:      StrategyTemporalSupersession,
		}
	}
	return &Contradiction{
		MemoryIDs:       [2]string{older.ID, newer.ID},
		ConfidenceDelta: 0.3,
		Description:     "temporal supersession: '" + older.Summary + "' likely superseded by newer '" + newer.Summary + "'",
		DetectedBy:      StrategyTemporalSupersession,
	}
}

func tagOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		union[t] = true
	}
	intersection := 0
	for _, t := range b {
		union[t] = true
		if set[t] {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func sharesFile(a, b []types.FileLink) bool {
	if len(a) == 0 {
		return false
	}
	for _, fa := range a {
		for _, fb := range b {
			if fa.Path == fb.Path {
				return true
			}
		}
	}
	return false
}

// detectExplicitEdge turns a persisted Contradicts causal edge between a
// and b into a Contradiction, rather than re-deriving it from text.
func detectExplicitEdge(a, b *types.Memory, edges []*types.CausalEdge) *Contradiction {
	for _, e := range edges {
		if e.Relation != types.RelationContradicts {
			continue
		}
		if (e.SourceID == a.ID && e.TargetID == b.ID) || (e.SourceID == b.ID && e.TargetID == a.ID) {
			return &Contradiction{
				MemoryIDs:       [2]string{a.ID, b.ID},
				ConfidenceDelta: DefaultContradictionConfidenceDelta,
				Description:     "explicit contradiction edge between " + a.ID + " and " + b.ID,
				DetectedBy:      StrategyExplicitEdge,
			}
		}
	}
	return nil
}

// DetectAll runs every strategy for the pair (a, b) and returns the first
// match, matching the upstream detector's one-contradiction-per-pair
// contract.
func DetectAll(a, b *types.Memory, edges []*types.CausalEdge, embeddingSimilarity *float64) *Contradiction {
	if c := detectExplicitEdge(a, b, edges); c != nil {
		return c
	}
	if c := detectAbsoluteStatement(a, b); c != nil {
		return c
	}
	return detectTemporalSupersession(a, b, embeddingSimilarity, 0.5)
}

// ContradictionResult is the contradiction dimension's score plus detail.
type ContradictionResult struct {
	Score          float64
	Contradictions []Contradiction
	HasConsensus   bool
	HealingActions []HealingAction
}

// ValidateContradictions checks m against related (pre-filtered by the
// caller) for contradictions, then weakens single contradictions if m has
// consensus support: a consensus memory only loses score to contradictions
// whose other side is itself corroborated by consensus.
func ValidateContradictions(m *types.Memory, related []*types.Memory, edges []*types.CausalEdge, consensusGroups []crdt.ConsensusGroup) ContradictionResult {
	var found []Contradiction
	for _, other := range related {
		if other.ID == m.ID {
			continue
		}
		if c := DetectAll(m, other, edges, nil); c != nil {
			found = append(found, *c)
		}
	}

	hasConsensus := inConsensus(m.ID, consensusGroups)
	effective := found
	if hasConsensus {
		effective = nil
		for _, c := range found {
			other := otherID(c, m.ID)
			if inConsensus(other, consensusGroups) {
				effective = append(effective, c)
			}
		}
	}

	score := 1.0
	if len(effective) > 0 {
		penalty := 0.0
		for _, c := range effective {
			penalty += c.ConfidenceDelta
		}
		score = 1.0 - penalty
		if score < 0 {
			score = 0
		}
	}

	var actions []HealingAction
	for _, c := range effective {
		actions = append(actions, HealingAction{
			Type:        HealingConfidenceAdjust,
			Description: "contradiction detected: " + c.Description,
		})
	}
	switch {
	case score < 0.15:
		actions = append(actions, HealingAction{
			Type:        HealingArchival,
			Description: "heavily contradicted memory - candidate for archival",
		})
	case len(effective) > 0:
		actions = append(actions, HealingAction{
			Type:        HealingHumanReviewFlag,
			Description: "contradiction(s) detected - review recommended",
		})
	}

	return ContradictionResult{
		Score:          score,
		Contradictions: found,
		HasConsensus:   hasConsensus,
		HealingActions: actions,
	}
}

func otherID(c Contradiction, mine string) string {
	if c.MemoryIDs[0] == mine {
		return c.MemoryIDs[1]
	}
	return c.MemoryIDs[0]
}

func inConsensus(memoryID string, groups []crdt.ConsensusGroup) bool {
	for _, g := range groups {
		for _, m := range g.Members {
			if m.MemoryID == memoryID {
				return true
			}
		}
	}
	return false
}
