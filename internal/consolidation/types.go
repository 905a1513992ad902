// Package consolidation implements the 6-phase pipeline that compresses
// repeated episodic and procedural observations into semantic abstractions:
// selection, clustering, a recall gate, abstraction, integration, and
// pruning of the sources.
package consolidation

import "github.com/cortexmemory/cortex/internal/types"

// Cluster is one density-based cluster of candidate indices. Indices refer
// into the candidate slice a ClusterResult was built from.
type Cluster struct {
	Indices []int
}

// ClusterResult is Phase 2's output: clusters of related candidates plus
// the indices that didn't meet the density threshold for any cluster.
type ClusterResult struct {
	Clusters []Cluster
	Noise    []int
}

// RecallGateResult is Phase 3's output for a single cluster.
type RecallGateResult struct {
	Passed     bool
	Score      float64
	KeyPhrases []string
}

// Abstraction is Phase 4's synthesized cluster summary, not yet a Memory.
type Abstraction struct {
	Summary     string
	Confidence  float64
	Tags        []string
	Evidence    []types.FileLink
	SourceIDs   []string
	SourceCount int
}

// IntegrationAction is Phase 5's decision for a newly abstracted memory.
type IntegrationAction struct {
	Create     bool
	ExistingID string // set when Create is false
	Memory     *types.Memory
}

// PruningResult is Phase 6's record of what happened to a cluster's sources.
type PruningResult struct {
	ArchivedIDs     []string
	BoostedIDs      []string
	TokensFreed     int
	PreservedAgents []types.AgentID
}

// Metrics holds the five quality metrics computed per consolidation run.
type Metrics struct {
	Precision         float64
	CompressionRatio  float64
	Lift              float64
	ContradictionRate float64
	Stability         float64
}

// Result is the pipeline's deterministic per-run output. It does not itself
// raise on metric failure; callers pass Metrics to AssessQuality if they
// want a pass/fail verdict.
type Result struct {
	Created  []string
	Archived []string
	Metrics  Metrics
}
