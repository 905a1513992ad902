package retrieval

import "github.com/cortexmemory/cortex/internal/types"

// DefaultRRFK is the Reciprocal Rank Fusion constant used when a caller
// doesn't configure one. Larger k flattens the influence of rank position;
// 60 is the value used throughout the information-retrieval literature this
// formula comes from.
const DefaultRRFK = 60

// Candidate is a memory carrying its fused RRF score, prior to re-ranking.
type Candidate struct {
	Memory   *types.Memory
	RRFScore float64
}

// FuseRRF combines any number of independently-ranked lists (keyword,
// vector, entity-expansion, ...) into one candidate set via Reciprocal Rank
// Fusion: rrf_score(m) = Σ 1/(k + rank_i(m)) over every list m appears in,
// with rank 1-indexed. Memories absent from a list simply don't contribute
// that term. Result is sorted by RRFScore descending.
func FuseRRF(lists [][]*types.Memory, k int) []Candidate {
	if k <= 0 {
		k = DefaultRRFK
	}
	scores := make(map[string]float64)
	byID := make(map[string]*types.Memory)

	for _, list := range lists {
		for rank, m := range list {
			if m == nil {
				continue
			}
			byID[m.ID] = m
			scores[m.ID] += 1.0 / float64(k+rank+1)
		}
	}

	out := make([]Candidate, 0, len(byID))
	for id, m := range byID {
		out = append(out, Candidate{Memory: m, RRFScore: scores[id]})
	}
	sortCandidatesDesc(out)
	return out
}

func sortCandidatesDesc(c []Candidate) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].RRFScore > c[j-1].RRFScore; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}
