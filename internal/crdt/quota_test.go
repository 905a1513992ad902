package crdt

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestQuotaTrackerAllowsUsageUnderLimit(t *testing.T) {
	q := NewQuotaTracker()
	for i := 0; i < 5; i++ {
		if err := q.Charge("agent-a", "sync_deltas", 1, 10); err != nil {
			t.Fatalf("charge %d: unexpected error %v", i, err)
		}
	}
	if got := q.Usage("agent-a", "sync_deltas"); got != 5 {
		t.Fatalf("expected usage 5, got %d", got)
	}
}

func TestQuotaTrackerRejectsOverLimit(t *testing.T) {
	q := NewQuotaTracker()
	if err := q.Charge("agent-a", "sync_deltas", 8, 10); err != nil {
		t.Fatalf("unexpected error on first charge: %v", err)
	}
	err := q.Charge("agent-a", "sync_deltas", 5, 10)
	if err == nil {
		t.Fatal("expected ErrQuotaExceeded once the charge would exceed the limit")
	}
	e, ok := err.(*types.Error)
	if !ok || e.Kind != types.ErrQuotaExceeded {
		t.Fatalf("expected a quota-exceeded *types.Error, got %#v", err)
	}
	if got := q.Usage("agent-a", "sync_deltas"); got != 8 {
		t.Fatalf("expected the rejected charge to not be recorded, usage=%d", got)
	}
}

func TestQuotaTrackerZeroLimitIsUnbounded(t *testing.T) {
	q := NewQuotaTracker()
	if err := q.Charge("agent-a", "sync_deltas", 1_000_000, 0); err != nil {
		t.Fatalf("expected a zero limit to be unbounded, got %v", err)
	}
}

func TestQuotaTrackerIsolatesAgentsAndResources(t *testing.T) {
	q := NewQuotaTracker()
	if err := q.Charge("agent-a", "sync_deltas", 10, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Charge("agent-b", "sync_deltas", 1, 10); err != nil {
		t.Fatalf("expected agent-b's quota to be independent of agent-a's, got %v", err)
	}
	if err := q.Charge("agent-a", "other_resource", 1, 10); err != nil {
		t.Fatalf("expected a different resource to be independently tracked, got %v", err)
	}
}

func TestQuotaTrackerResetClearsOnlyThatAgent(t *testing.T) {
	q := NewQuotaTracker()
	q.Charge("agent-a", "sync_deltas", 5, 10)
	q.Charge("agent-b", "sync_deltas", 5, 10)

	q.Reset("agent-a")

	if got := q.Usage("agent-a", "sync_deltas"); got != 0 {
		t.Fatalf("expected agent-a's usage reset to 0, got %d", got)
	}
	if got := q.Usage("agent-b", "sync_deltas"); got != 5 {
		t.Fatalf("expected agent-b's usage to be untouched, got %d", got)
	}
}
