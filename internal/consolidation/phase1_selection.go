package consolidation

import (
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// MinAgeDays is the minimum age in days for a memory to be eligible for
// consolidation.
const MinAgeDays = 7

// MinConfidence is the minimum confidence for consolidation eligibility.
const MinConfidence = 0.3

// SelectCandidates returns the memories in ms eligible for consolidation:
// Episodic or Procedural, older than MinAgeDays (by valid time), confidence
// above MinConfidence, not archived, not already superseded.
func SelectCandidates(ms []*types.Memory, now time.Time) []*types.Memory {
	cutoff := now.Add(-MinAgeDays * 24 * time.Hour)

	var out []*types.Memory
	for _, m := range ms {
		if !m.MemoryType.ConsolidationEligible() {
			continue
		}
		if !m.ValidTime.Before(cutoff) {
			continue
		}
		if m.Confidence <= MinConfidence {
			continue
		}
		if m.Archived || m.SupersededBy != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
