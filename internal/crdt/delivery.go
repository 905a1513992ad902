package crdt

import (
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// bufferedDelta is an out-of-order delta waiting for its causal
// predecessors to arrive.
type bufferedDelta struct {
	id    int64
	clock types.VectorClock
}

// AppliedDelta identifies a delta that DrainApplicable has determined is
// now safe to apply, in the order it should be applied.
type AppliedDelta struct {
	ID    int64
	Clock types.VectorClock
}

// CausalDeliveryManager buffers deltas that arrive out of causal order and
// drains them once their predecessors are applied. For any finite set of
// deltas delivered in any order, draining to fixpoint applies them in an
// order that yields an identical final state.
type CausalDeliveryManager struct {
	buffer []bufferedDelta
}

// NewCausalDeliveryManager returns an empty delivery manager.
func NewCausalDeliveryManager() *CausalDeliveryManager {
	return &CausalDeliveryManager{}
}

// CanApply reports whether a delta stamped with deltaClock is applicable
// given localClock: for every agent, the delta's value must be at most
// local+1. A value further ahead means intermediate deltas are still
// missing.
func (m *CausalDeliveryManager) CanApply(deltaClock, localClock types.VectorClock) bool {
	return types.CausallyDeliverable(deltaClock, localClock)
}

// Buffer records a delta that cannot yet be applied.
func (m *CausalDeliveryManager) Buffer(id int64, clock types.VectorClock) {
	logging.CRDTDebug("buffering delta %d for causal delivery", id)
	m.buffer = append(m.buffer, bufferedDelta{id: id, clock: clock})
}

// DrainApplicable returns every buffered delta that is now applicable given
// localClock, in application order, removing them from the buffer.
// Applying one delta can unblock another, so this drains iteratively to a
// fixpoint: the returned order is safe to apply in sequence.
func (m *CausalDeliveryManager) DrainApplicable(localClock types.VectorClock) []AppliedDelta {
	var applicable []AppliedDelta
	current := localClock.Clone()

	changed := true
	for changed {
		changed = false
		var remaining []bufferedDelta
		for _, d := range m.buffer {
			if m.CanApply(d.clock, current) {
				current = current.Merge(d.clock)
				applicable = append(applicable, AppliedDelta{ID: d.id, Clock: d.clock})
				changed = true
			} else {
				remaining = append(remaining, d)
			}
		}
		m.buffer = remaining
	}

	if len(applicable) > 0 {
		logging.CRDTDebug("drained %d applicable deltas, %d remain buffered", len(applicable), len(m.buffer))
	}
	return applicable
}

// BufferedCount returns how many deltas are currently waiting.
func (m *CausalDeliveryManager) BufferedCount() int { return len(m.buffer) }
