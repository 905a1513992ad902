package consolidation

import "github.com/cortexmemory/cortex/internal/types"

// FrequentAccessThreshold is the access count at or above which a source
// memory receives a confidence boost before archival.
const FrequentAccessThreshold = 5

// FrequencyBoost is the confidence increment applied to frequently accessed
// sources, clamped so the result never exceeds 1.0.
const FrequencyBoost = 0.05

// PlanPruning computes, without mutating, which of cluster's source
// memories would be archived, which would be boosted, and how many tokens
// archiving would free (estimated at one token per four summary
// characters). Cross-agent provenance — any source_agent other than the
// default — is recorded separately so multi-agent callers can preserve it.
func PlanPruning(cluster []*types.Memory, consolidatedID string) PruningResult {
	var result PruningResult
	for _, m := range cluster {
		result.TokensFreed += len(m.Summary) / 4
		if m.AccessCount >= FrequentAccessThreshold {
			result.BoostedIDs = append(result.BoostedIDs, m.ID)
		}
		if m.SourceAgent != types.DefaultAgent {
			result.PreservedAgents = append(result.PreservedAgents, m.SourceAgent)
		}
		result.ArchivedIDs = append(result.ArchivedIDs, m.ID)
	}
	return result
}

// ApplyPruning mutates cluster's source memories in place: boosts
// frequently-accessed sources' confidence, then marks every source archived
// and superseded by consolidatedID. Callers persist the mutations (e.g. via
// store.Update) themselves.
func ApplyPruning(cluster []*types.Memory, consolidatedID string) PruningResult {
	var result PruningResult
	for _, m := range cluster {
		result.TokensFreed += len(m.Summary) / 4

		if m.AccessCount >= FrequentAccessThreshold {
			result.BoostedIDs = append(result.BoostedIDs, m.ID)
			m.Confidence += FrequencyBoost
			if m.Confidence > 1.0 {
				m.Confidence = 1.0
			}
		}

		if m.SourceAgent != types.DefaultAgent {
			result.PreservedAgents = append(result.PreservedAgents, m.SourceAgent)
		}

		m.Archived = true
		id := consolidatedID
		m.SupersededBy = &id
		result.ArchivedIDs = append(result.ArchivedIDs, m.ID)
	}
	return result
}
