package validation

import (
	"time"

	"github.com/cortexmemory/cortex/internal/decay"
	"github.com/cortexmemory/cortex/internal/types"
)

// TemporalResult is the temporal dimension's score plus detail.
type TemporalResult struct {
	Score          float64
	ShouldArchive  bool
	Reason         string
	HealingActions []HealingAction
}

// ValidateTemporal flags memories that have decayed past the archival
// threshold. It delegates entirely to the decay engine's own archival
// policy rather than re-deriving staleness here, so the two stay
// consistent: a memory only fails this dimension for the same reason the
// consolidation pipeline would archive it.
func ValidateTemporal(e *decay.Engine, m *types.Memory, decayedConfidence float64, now time.Time) TemporalResult {
	decision := e.EvaluateArchival(m, decayedConfidence, now)
	if !decision.ShouldArchive {
		return TemporalResult{Score: 1.0}
	}
	return TemporalResult{
		Score:         0.0,
		ShouldArchive: true,
		Reason:        decision.Reason,
		HealingActions: []HealingAction{{
			Type:        HealingArchival,
			Description: "temporal decay past archival threshold: " + decision.Reason,
		}},
	}
}
