package validation

import "github.com/cortexmemory/cortex/internal/types"

// PatternResult is the pattern-consistency dimension's score plus detail.
type PatternResult struct {
	Score          float64
	RetiredCount   int
	HealingActions []HealingAction
}

// ValidatePatternConsistency checks whether m cites patterns that have
// since been retired. A memory with no pattern links, or whose patterns
// are all still active, scores 1.0. Each retired pattern link reduces the
// score proportionally and suggests a confidence adjustment, mirroring
// how a stale file citation is treated.
func ValidatePatternConsistency(m *types.Memory) PatternResult {
	if len(m.LinkedPatterns) == 0 {
		return PatternResult{Score: 1.0}
	}

	var (
		activeCount int
		actions     []HealingAction
	)
	for _, link := range m.LinkedPatterns {
		if link.Active {
			activeCount++
			continue
		}
		actions = append(actions, HealingAction{
			Type:        HealingConfidenceAdjust,
			Description: "linked pattern " + link.PatternID + " has been retired",
		})
	}

	retired := len(m.LinkedPatterns) - activeCount
	return PatternResult{
		Score:          float64(activeCount) / float64(len(m.LinkedPatterns)),
		RetiredCount:   retired,
		HealingActions: actions,
	}
}
