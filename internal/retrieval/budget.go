package retrieval

import (
	"sort"

	"github.com/cortexmemory/cortex/internal/types"
)

// Packed is one memory admitted into the token budget at a chosen
// compression level.
type Packed struct {
	MemoryID   string
	MemoryType types.MemoryType
	Importance types.Importance
	Level      Level
	Text       string
	Tokens     int
	Relevance  float64
}

// packCandidate is the priority-sorted working unit for bin-packing.
type packCandidate struct {
	scored   Scored
	priority float64
}

// PackToBudget packs scored candidates into budget tokens using
// priority-weighted bin-packing: sort by importance.weight() × relevance
// descending, then for each try compression levels L3 → L2 → L1 → L0 until
// one fits the remaining budget. A critical memory is therefore packed at L1
// or richer whenever L1 fits the budget left when its turn comes; if only L0
// fits it is packed at L0. Budget is not reserved for critical memories
// ahead of higher-priority ones, and any memory that fits no level is
// dropped.
func PackToBudget(scored []Scored, budget int) []Packed {
	if len(scored) == 0 || budget <= 0 {
		return nil
	}

	candidates := make([]packCandidate, len(scored))
	for i, s := range scored {
		candidates[i] = packCandidate{
			scored:   s,
			priority: s.Memory.Importance.Weight() * s.relevance(),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].priority > candidates[j].priority })

	remaining := budget
	result := make([]Packed, 0, len(candidates))

	for _, cand := range candidates {
		if remaining <= 0 {
			break
		}
		m := cand.scored.Memory
		isCritical := m.Importance == types.ImportanceCritical

		level, text, tokens, fits := bestFittingLevel(m, remaining)
		if !fits && isCritical {
			level, text, tokens, fits = forceLevel(m, LevelL1, remaining)
		}
		if !fits {
			continue
		}

		remaining -= tokens
		result = append(result, Packed{
			MemoryID:   m.ID,
			MemoryType: m.MemoryType,
			Importance: m.Importance,
			Level:      level,
			Text:       text,
			Tokens:     tokens,
			Relevance:  cand.scored.relevance(),
		})
	}

	return result
}

func bestFittingLevel(m *types.Memory, remaining int) (Level, string, int, bool) {
	for _, level := range LevelsDescending {
		text := CompressAtLevel(m, level)
		tokens := EstimateTokens(text)
		if tokens <= remaining {
			return level, text, tokens, true
		}
	}
	return 0, "", 0, false
}

func forceLevel(m *types.Memory, level Level, remaining int) (Level, string, int, bool) {
	text := CompressAtLevel(m, level)
	tokens := EstimateTokens(text)
	if tokens <= remaining {
		return level, text, tokens, true
	}
	return 0, "", 0, false
}

// relevance exposes the composite re-rank score as the relevance term the
// priority formula multiplies importance by.
func (s Scored) relevance() float64 { return s.Score }
