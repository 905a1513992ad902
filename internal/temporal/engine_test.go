package temporal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// fakeSource is an in-memory eventSource used to exercise replay without a
// real database.
type fakeSource struct {
	events    map[string][]types.MemoryEvent
	snapshots map[string][]types.Snapshot
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events:    make(map[string][]types.MemoryEvent),
		snapshots: make(map[string][]types.Snapshot),
	}
}

func (f *fakeSource) LatestSnapshotBefore(memoryID string, at time.Time) (*types.Snapshot, error) {
	var best *types.Snapshot
	for i, s := range f.snapshots[memoryID] {
		if s.RecordedAt.After(at) {
			continue
		}
		if best == nil || s.RecordedAt.After(best.RecordedAt) || (s.RecordedAt.Equal(best.RecordedAt) && s.EventID > best.EventID) {
			snap := f.snapshots[memoryID][i]
			best = &snap
		}
	}
	return best, nil
}

func (f *fakeSource) EventsSince(memoryID string, afterEventID uint64, hasSnapshot bool, at time.Time) ([]types.MemoryEvent, error) {
	lower := afterEventID + 1
	if !hasSnapshot {
		lower = 0
	}
	var out []types.MemoryEvent
	for _, e := range f.events[memoryID] {
		if e.EventID >= lower && !e.RecordedAt.After(at) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) PutSnapshot(snap *types.Snapshot) error {
	f.snapshots[snap.MemoryID] = append(f.snapshots[snap.MemoryID], *snap)
	return nil
}

func (f *fakeSource) EventCountSinceLastSnapshot(memoryID string) (int64, error) {
	since := int64(-1)
	for _, s := range f.snapshots[memoryID] {
		if int64(s.EventID) > since {
			since = int64(s.EventID)
		}
	}
	var count int64
	for _, e := range f.events[memoryID] {
		if int64(e.EventID) > since {
			count++
		}
	}
	return count, nil
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// buildHistory returns the event log for a memory created with confidence
// 0.9, then updated three times: confidence drops to 0.6, a tag is added,
// then the memory is archived. Each event is recorded one second apart
// starting at base.
func buildHistory(t *testing.T, base time.Time) (string, []types.MemoryEvent) {
	t.Helper()
	id := "mem-1"
	initial := &types.Memory{
		ID:              id,
		MemoryType:      types.MemoryTypeDecision,
		Content:         types.DecisionContent{Decision: "use postgres", Rationale: "team familiarity"},
		Summary:         "chose postgres",
		TransactionTime: base,
		ValidTime:       base,
		Confidence:      0.9,
		Importance:      types.ImportanceNormal,
		LastAccessed:    base,
		ContentHash:     "deadbeef",
		Namespace:       "agent://default/",
		SourceAgent:     "agent-a",
	}

	events := []types.MemoryEvent{
		{
			MemoryID:   id,
			EventID:    0,
			EventType:  types.EventCreated,
			RecordedAt: base,
			Actor:      "agent-a",
			Delta:      map[string]any{"state_json": mustMarshal(t, initial)},
		},
		{
			MemoryID:   id,
			EventID:    1,
			EventType:  types.EventConfidenceChanged,
			RecordedAt: base.Add(1 * time.Second),
			Actor:      "agent-a",
			Delta:      map[string]any{"old": 0.9, "new": 0.6},
		},
		{
			MemoryID:   id,
			EventID:    2,
			EventType:  types.EventTagAdded,
			RecordedAt: base.Add(2 * time.Second),
			Actor:      "agent-a",
			Delta:      map[string]any{"tag": "reviewed"},
		},
		{
			MemoryID:   id,
			EventID:    3,
			EventType:  types.EventArchived,
			RecordedAt: base.Add(3 * time.Second),
			Actor:      "agent-a",
			Delta:      map[string]any{},
		},
	}
	return id, events
}

func TestReconstructAt_NoSnapshot(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := newFakeSource()
	id, events := buildHistory(t, base)
	src.events[id] = events

	eng := &Engine{store: src, SnapshotInterval: 100}

	got, err := eng.ReconstructAt(id, base.Add(2500*time.Millisecond))
	if err != nil {
		t.Fatalf("ReconstructAt: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil memory")
	}
	if got.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", got.Confidence)
	}
	if got.Archived {
		t.Errorf("expected not yet archived at t=2.5s")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "reviewed" {
		t.Errorf("tags = %v, want [reviewed]", got.Tags)
	}
}

func TestReconstructAt_BeforeCreation(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := newFakeSource()
	id, events := buildHistory(t, base)
	src.events[id] = events

	eng := &Engine{store: src, SnapshotInterval: 100}
	got, err := eng.ReconstructAt(id, base.Add(-time.Second))
	if err != nil {
		t.Fatalf("ReconstructAt: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil memory before creation, got %+v", got)
	}
}

// TestReplayLaw is the primary testable property from the bitemporal
// contract: replaying the full event log produces the same final state
// whether or not a snapshot intervenes between any two events.
func TestReplayLaw(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	target := base.Add(10 * time.Second)

	withoutSnapshot := newFakeSource()
	id, events := buildHistory(t, base)
	withoutSnapshot.events[id] = events
	engNoSnap := &Engine{store: withoutSnapshot, SnapshotInterval: 100}
	wantState, err := engNoSnap.ReconstructAt(id, target)
	if err != nil {
		t.Fatalf("ReconstructAt (no snapshot): %v", err)
	}

	// Try inserting a snapshot after each possible event boundary and
	// confirm the final reconstructed state is identical.
	for cut := 0; cut < len(events); cut++ {
		src := newFakeSource()
		_, events := buildHistory(t, base)
		src.events[id] = events

		eng := &Engine{store: src, SnapshotInterval: 100}
		// Build the state as of just after events[cut] and snapshot it.
		stateAtCut, err := eng.ReconstructAt(id, events[cut].RecordedAt)
		if err != nil {
			t.Fatalf("cut=%d: building snapshot state: %v", cut, err)
		}
		if err := src.PutSnapshot(&types.Snapshot{
			MemoryID:   id,
			EventID:    events[cut].EventID,
			RecordedAt: events[cut].RecordedAt,
			Reason:     types.SnapshotOnDemand,
			State:      stateAtCut,
		}); err != nil {
			t.Fatalf("cut=%d: PutSnapshot: %v", cut, err)
		}

		got, err := eng.ReconstructAt(id, target)
		if err != nil {
			t.Fatalf("cut=%d: ReconstructAt: %v", cut, err)
		}
		if got.Confidence != wantState.Confidence {
			t.Errorf("cut=%d: confidence = %v, want %v", cut, got.Confidence, wantState.Confidence)
		}
		if got.Archived != wantState.Archived {
			t.Errorf("cut=%d: archived = %v, want %v", cut, got.Archived, wantState.Archived)
		}
		if len(got.Tags) != len(wantState.Tags) {
			t.Errorf("cut=%d: tags = %v, want %v", cut, got.Tags, wantState.Tags)
		}
	}
}
