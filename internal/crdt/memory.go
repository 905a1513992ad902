package crdt

import (
	"sort"

	"github.com/cortexmemory/cortex/internal/types"
)

// MemoryState pairs a Memory with the vector clock describing which writes
// from which agents it reflects. It is the unit CRDT merge operates over.
type MemoryState struct {
	Memory *types.Memory
	Clock  types.VectorClock
}

// MergeMemoryStates reconciles two views of the same memory id written by
// different agents. Most fields (content, summary, type, importance,
// archived, supersession, validity window, namespace, confidence) are
// last-writer-wins: the whole bundle is taken from whichever side has the
// higher (transaction_time, source_agent) pair, matching LWWRegister's
// tie-break. Tags are merged as a set (a concurrent write to tags is
// information, not a conflict, so both sides' tags survive). access_count
// is counter-like and merges by taking the max, since it only ever
// increases. The resulting clock is the pairwise max of both inputs.
func MergeMemoryStates(a, b MemoryState) MemoryState {
	winner, loser := a, b
	if wins(b.Memory.TransactionTime, b.Memory.SourceAgent, a.Memory.TransactionTime, a.Memory.SourceAgent) {
		winner, loser = b, a
	}

	merged := *winner.Memory
	merged.Tags = unionTags(winner.Memory.Tags, loser.Memory.Tags)
	if loser.Memory.AccessCount > merged.AccessCount {
		merged.AccessCount = loser.Memory.AccessCount
	}
	if loser.Memory.LastAccessed.After(merged.LastAccessed) {
		merged.LastAccessed = loser.Memory.LastAccessed
	}

	return MemoryState{
		Memory: &merged,
		Clock:  a.Clock.Merge(b.Clock),
	}
}

// unionTags merges two tag sets, deduplicated and sorted for a
// deterministic result regardless of merge order.
func unionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, t := range append(append([]string{}, a...), b...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
