package crdt

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestCausalDeliveryManagerCanApplyAdjacentDelta(t *testing.T) {
	m := NewCausalDeliveryManager()
	local := types.NewVectorClock().Increment("a") // {a:1}
	delta := clockOf(types.AgentID("a"), 2)         // {a:2}

	if !m.CanApply(delta, local) {
		t.Error("expected a delta one ahead of local to be applicable")
	}
}

func TestCausalDeliveryManagerRejectsDeltaMissingPredecessor(t *testing.T) {
	m := NewCausalDeliveryManager()
	local := types.NewVectorClock().Increment("a") // {a:1}
	future := clockOf(types.AgentID("a"), 3)        // {a:3}, missing a:2

	if m.CanApply(future, local) {
		t.Error("expected a delta two ahead of local to be rejected pending the intermediate delta")
	}
}

func TestCausalDeliveryManagerDrainsBufferedDeltasInOrderOnceUnblocked(t *testing.T) {
	m := NewCausalDeliveryManager()
	local := types.NewVectorClock()

	m.Buffer(2, clockOf(types.AgentID("a"), 2)) // depends on a:1, arrives first
	if got := m.DrainApplicable(local); len(got) != 0 {
		t.Fatalf("expected nothing drainable yet, got %d", len(got))
	}

	m.Buffer(1, clockOf(types.AgentID("a"), 1))
	drained := m.DrainApplicable(local)
	if len(drained) != 2 {
		t.Fatalf("expected both buffered deltas to drain, got %d", len(drained))
	}
	if drained[0].ID != 1 || drained[1].ID != 2 {
		t.Errorf("expected delta 1 before delta 2, got order %d,%d", drained[0].ID, drained[1].ID)
	}
	if m.BufferedCount() != 0 {
		t.Errorf("expected buffer empty after full drain, got %d remaining", m.BufferedCount())
	}
}

func TestCausalDeliveryManagerConcurrentDeltasBothApply(t *testing.T) {
	m := NewCausalDeliveryManager()
	local := types.NewVectorClock()

	m.Buffer(1, clockOf(types.AgentID("a"), 1))
	m.Buffer(2, clockOf(types.AgentID("b"), 1))
	drained := m.DrainApplicable(local)
	if len(drained) != 2 {
		t.Fatalf("expected both concurrent deltas to apply, got %d", len(drained))
	}
}
