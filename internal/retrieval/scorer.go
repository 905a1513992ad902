package retrieval

import (
	"math"
	"sort"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// Weights holds the eight re-rank factor weights. Defaults sum to 1.0.
type Weights struct {
	SemanticSimilarity float64
	KeywordMatch       float64
	FileProximity      float64
	PatternAlignment   float64
	Recency            float64
	Confidence         float64
	Importance         float64
	IntentTypeMatch    float64
}

// DefaultWeights matches the engine's out-of-the-box scoring profile.
func DefaultWeights() Weights {
	return Weights{
		SemanticSimilarity: 0.25,
		KeywordMatch:       0.15,
		FileProximity:      0.10,
		PatternAlignment:   0.10,
		Recency:            0.10,
		Confidence:         0.10,
		Importance:         0.10,
		IntentTypeMatch:    0.10,
	}
}

// RecencyHalfLifeDays is the exponential-decay half-life used by the
// recency factor.
const RecencyHalfLifeDays = 90.0

// Scored is a candidate after Stage 2 re-ranking.
type Scored struct {
	Memory   *types.Memory
	Score    float64
	RRFScore float64
}

// Score re-ranks candidates against the eight factors and returns them
// sorted by composite score descending. now is passed in explicitly so the
// recency factor is deterministic and testable.
func Score(candidates []Candidate, intent Intent, activeFiles []string, engine *IntentEngine, weights Weights, now time.Time) []Scored {
	if len(candidates) == 0 {
		return nil
	}

	maxRRF := candidates[0].RRFScore
	if maxRRF <= 0 {
		maxRRF = 1.0
	}

	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		m := c.Memory

		fSemantic := c.RRFScore / maxRRF
		fKeyword := fSemantic * 0.8
		fFile := fileProximityScore(m, activeFiles)
		fPattern := patternAlignmentScore(m)
		fRecency := math.Pow(0.5, daysSince(m.LastAccessed, now)/RecencyHalfLifeDays)
		fConfidence := m.Confidence
		fImportance := m.Importance.NormalizedWeight()
		fIntent := engine.Boost(intent, m.MemoryType) / 2.0

		score := weights.SemanticSimilarity*fSemantic +
			weights.KeywordMatch*fKeyword +
			weights.FileProximity*fFile +
			weights.PatternAlignment*fPattern +
			weights.Recency*fRecency +
			weights.Confidence*fConfidence +
			weights.Importance*fImportance +
			weights.IntentTypeMatch*fIntent

		out[i] = Scored{Memory: m, Score: score, RRFScore: c.RRFScore}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func fileProximityScore(m *types.Memory, activeFiles []string) float64 {
	if len(activeFiles) == 0 || len(m.LinkedFiles) == 0 {
		return 0
	}
	matches := 0
	for _, f := range m.LinkedFiles {
		for _, af := range activeFiles {
			if indexOf(af, f.Path) >= 0 || indexOf(f.Path, af) >= 0 {
				matches++
				break
			}
		}
	}
	score := float64(matches) / float64(len(m.LinkedFiles))
	if score > 1.0 {
		return 1.0
	}
	return score
}

func patternAlignmentScore(m *types.Memory) float64 {
	if len(m.LinkedPatterns) == 0 {
		return 0
	}
	n := float64(len(m.LinkedPatterns))
	if n > 3 {
		n = 3
	}
	return n / 3.0
}

func daysSince(t, now time.Time) float64 {
	d := now.Sub(t).Hours() / 24.0
	if d < 0 {
		return 0
	}
	return d
}

// DedupByID removes duplicate memory ids, keeping the first (highest-score)
// occurrence. FuseRRF already merges a memory that several lists surfaced
// into one candidate, so on the Retrieve path this final Stage 2 pass finds
// no duplicates; it removes them from any other Scored slice.
func DedupByID(scored []Scored) []Scored {
	seen := make(map[string]bool, len(scored))
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if seen[s.Memory.ID] {
			continue
		}
		seen[s.Memory.ID] = true
		out = append(out, s)
	}
	return out
}
