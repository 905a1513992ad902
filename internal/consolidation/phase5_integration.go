package consolidation

import (
	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/types"
)

// OverlapThreshold is the cosine similarity above which a newly abstracted
// memory is merged into an existing semantic memory instead of created
// fresh (Mem0-inspired dedup).
const OverlapThreshold = 0.9

// ExistingSemantic pairs a semantic memory's id with its embedding, for
// overlap comparison during integration.
type ExistingSemantic struct {
	ID        string
	Embedding []float32
}

// DetermineAction compares newMemory's embedding against existing semantic
// memories. If the best match's similarity is at or above OverlapThreshold,
// the action is an Update against that memory; otherwise a Create.
func DetermineAction(newMemory *types.Memory, newEmbedding []float32, existing []ExistingSemantic) IntegrationAction {
	var bestID string
	var bestSim float64
	haveBest := false

	for _, e := range existing {
		sim, err := embedding.CosineSimilarity(newEmbedding, e.Embedding)
		if err != nil {
			continue
		}
		if !haveBest || sim > bestSim {
			bestID, bestSim, haveBest = e.ID, sim, true
		}
	}

	if haveBest && bestSim >= OverlapThreshold {
		return IntegrationAction{Create: false, ExistingID: bestID, Memory: newMemory}
	}
	return IntegrationAction{Create: true, Memory: newMemory}
}
