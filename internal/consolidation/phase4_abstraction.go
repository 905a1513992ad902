package consolidation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cortexmemory/cortex/internal/consolidation/algorithms"
	"github.com/cortexmemory/cortex/internal/types"
)

// SummarySentences bounds how many sentences TextRank keeps when
// synthesizing a cluster's abstraction summary.
const SummarySentences = 3

// AbstractCluster synthesizes a single abstraction from a cluster of
// source memories: a TextRank summary of their concatenated summaries,
// confidence aggregated as the mean of sources (conservative relative to
// max, since an abstraction inherits every source's uncertainty), the
// union of tags, and the union of evidence files.
func AbstractCluster(cluster []*types.Memory) Abstraction {
	if len(cluster) == 0 {
		return Abstraction{}
	}

	texts := make([]string, len(cluster))
	var confidenceSum float64
	tagSet := make(map[string]bool)
	var evidence []types.FileLink
	evidenceSeen := make(map[string]bool)
	sourceIDs := make([]string, len(cluster))

	for i, m := range cluster {
		texts[i] = m.Summary
		confidenceSum += m.Confidence
		for _, t := range m.Tags {
			tagSet[t] = true
		}
		for _, f := range m.LinkedFiles {
			key := f.Path + "@" + f.ContentHash
			if !evidenceSeen[key] {
				evidenceSeen[key] = true
				evidence = append(evidence, f)
			}
		}
		sourceIDs[i] = m.ID
	}

	combined := strings.Join(texts, " ")
	summary := algorithms.Summarize(combined, SummarySentences)
	if summary == "" {
		summary = combined
	}

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}

	return Abstraction{
		Summary:     summary,
		Confidence:  confidenceSum / float64(len(cluster)),
		Tags:        tags,
		Evidence:    evidence,
		SourceIDs:   sourceIDs,
		SourceCount: len(cluster),
	}
}

// BuildSemanticMemory converts an Abstraction into a not-yet-persisted
// semantic Memory. Callers are responsible for Create/Update via Phase 5's
// IntegrationAction.
func BuildSemanticMemory(a Abstraction, now time.Time) *types.Memory {
	content := types.SemanticContent{
		Generalization: a.Summary,
		SourceCount:    a.SourceCount,
		Evidence:       make([]string, 0, len(a.Evidence)),
	}
	for _, f := range a.Evidence {
		content.Evidence = append(content.Evidence, f.Path)
	}

	hash, _ := types.ComputeContentHash(content)

	return &types.Memory{
		ID:              uuid.NewString(),
		MemoryType:      types.MemoryTypeSemantic,
		Content:         content,
		Summary:         a.Summary,
		TransactionTime: now,
		ValidTime:       now,
		Confidence:      a.Confidence,
		Importance:      types.ImportanceNormal,
		LastAccessed:    now,
		LinkedFiles:     a.Evidence,
		Tags:            a.Tags,
		ContentHash:     hash,
		Namespace:       types.DefaultNamespace,
		SourceAgent:     types.DefaultAgent,
	}
}
