package crdt

import (
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// DefaultConsensusSimilarityThreshold is the pairwise embedding similarity
// above which two agents' memories are considered independent corroboration
// of the same fact.
const DefaultConsensusSimilarityThreshold = 0.9

// DefaultConsensusConfidenceBoost is added to each member of a detected
// consensus group, clamped to 1.0.
const DefaultConsensusConfidenceBoost = 0.2

// ConsensusGroup is a set of memories from distinct agents that
// independently converged on the same fact.
type ConsensusGroup struct {
	Members         []ConsensusMember
	AverageSimilarity float64
	ConfidenceBoost float64
}

// ConsensusMember identifies one memory's contribution to a consensus group.
type ConsensusMember struct {
	Agent    types.AgentID
	MemoryID string
}

// AgentMemories groups a slice of memories by the agent that wrote them.
type AgentMemories map[types.AgentID][]*types.Memory

// SimilarityFunc computes embedding similarity between two memories,
// 0.0-1.0.
type SimilarityFunc func(a, b *types.Memory) float64

// ConsensusDetector finds groups of memories, one per distinct agent, that
// independently agree (similarity >= threshold). Each memory is assigned to
// at most one group, and a group only counts once it spans at least
// minAgents distinct agents.
type ConsensusDetector struct {
	MinAgents int
	Threshold float64
	Boost     float64
}

// NewConsensusDetector returns a detector using the spec defaults.
func NewConsensusDetector() *ConsensusDetector {
	return &ConsensusDetector{
		MinAgents: 2,
		Threshold: DefaultConsensusSimilarityThreshold,
		Boost:     DefaultConsensusConfidenceBoost,
	}
}

// Detect scans memoriesByAgent for consensus groups. For every unassigned
// memory it greedily pulls in at most one similar memory per other agent,
// then keeps the group if it ends up spanning MinAgents or more agents.
func (d *ConsensusDetector) Detect(memoriesByAgent AgentMemories, similarity SimilarityFunc) []ConsensusGroup {
	agents := make([]types.AgentID, 0, len(memoriesByAgent))
	for a := range memoriesByAgent {
		agents = append(agents, a)
	}
	if len(agents) < d.MinAgents {
		logging.CRDTDebug("consensus detection skipped: %d agents < minimum %d", len(agents), d.MinAgents)
		return nil
	}

	used := make(map[string]bool)
	var groups []ConsensusGroup

	for i, agentA := range agents {
		for _, memA := range memoriesByAgent[agentA] {
			if used[memA.ID] {
				continue
			}
			group := []ConsensusMember{{Agent: agentA, MemoryID: memA.ID}}
			totalSim, comparisons := 0.0, 0

			for _, agentB := range agents[i+1:] {
				for _, memB := range memoriesByAgent[agentB] {
					if used[memB.ID] {
						continue
					}
					sim := similarity(memA, memB)
					if sim >= d.Threshold {
						group = append(group, ConsensusMember{Agent: agentB, MemoryID: memB.ID})
						totalSim += sim
						comparisons++
						break // one match per agent is enough
					}
				}
			}

			distinctAgents := map[types.AgentID]bool{}
			for _, m := range group {
				distinctAgents[m.Agent] = true
			}
			if len(distinctAgents) < d.MinAgents {
				continue
			}

			avg := 1.0
			if comparisons > 0 {
				avg = totalSim / float64(comparisons)
			}
			for _, m := range group {
				used[m.MemoryID] = true
			}
			logging.CRDT("consensus detected: %d agents, avg similarity %.3f, %d memories", len(distinctAgents), avg, len(group))
			groups = append(groups, ConsensusGroup{
				Members:           group,
				AverageSimilarity: avg,
				ConfidenceBoost:   d.Boost,
			})
		}
	}
	return groups
}

// ApplyBoost clamps confidence+boost to [0, 1].
func ApplyBoost(confidence, boost float64) float64 {
	c := confidence + boost
	if c > 1.0 {
		return 1.0
	}
	if c < 0 {
		return 0
	}
	return c
}
