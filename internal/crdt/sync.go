package crdt

import (
	"encoding/json"
	"time"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

// MemoryDelta is the wire payload carried through the delta queue: a full
// memory snapshot, stamped implicitly by the vector clock the queue row
// already carries. Deltas ship the whole record rather than a field diff
// because MergeMemoryStates resolves field-level conflicts on apply; there
// is no need to reconstruct a diff on the receiving side.
type MemoryDelta struct {
	Memory *types.Memory `json:"memory"`
}

// SyncManager drives outbound delta publication and causally-ordered
// inbound delivery for one local store. It keeps one vector clock per
// receiving agent (the agent passed to Deliver), tracking how much causal
// history that agent has already absorbed.
type SyncManager struct {
	store  *store.Store
	limits store.DeltaQueueLimits
	quota  *QuotaTracker

	clocks map[types.AgentID]types.VectorClock
}

// quotaResourceDeltas is the resource name SyncManager charges against when
// an agent publishes an outbound delta.
const quotaResourceDeltas = "sync_deltas"

// NewSyncManager returns a manager enforcing limits on outbound queues. It
// owns its own QuotaTracker; per-agent daily delta quotas are a separate
// boundary from the queue depth limits, enforced alongside them.
func NewSyncManager(s *store.Store, limits store.DeltaQueueLimits) *SyncManager {
	return &SyncManager{
		store:  s,
		limits: limits,
		quota:  NewQuotaTracker(),
		clocks: make(map[types.AgentID]types.VectorClock),
	}
}

// Publish enqueues m for peer, stamped with clock. Fails with
// ErrSyncFailed once the peer's outbound queue is already at capacity, or
// ErrQuotaExceeded once the source agent's daily delta quota is spent.
func (s *SyncManager) Publish(peer types.AgentID, clock types.VectorClock, m *types.Memory) error {
	if s.limits.MaxPendingPerAgentPerDay > 0 {
		source := types.AgentID(m.SourceAgent)
		if err := s.quota.Charge(source, quotaResourceDeltas, 1, uint64(s.limits.MaxPendingPerAgentPerDay)); err != nil {
			logging.CRDTWarn("publish to %s failed: %v", peer, err)
			return err
		}
	}
	if err := s.store.EnqueueDelta(string(peer), clock, MemoryDelta{Memory: m}, s.limits); err != nil {
		logging.CRDTWarn("publish to %s failed: %v", peer, err)
		return err
	}
	return nil
}

// ResetQuota clears agent's recorded delta quota usage, e.g. at the start
// of a new sync day.
func (s *SyncManager) ResetQuota(agent types.AgentID) {
	s.quota.Reset(agent)
}

func (s *SyncManager) clockFor(agent types.AgentID) types.VectorClock {
	c, ok := s.clocks[agent]
	if !ok {
		c = types.NewVectorClock()
		s.clocks[agent] = c
	}
	return c
}

// Deliver drains agent's pending inbound deltas: every delta that is
// causally ready against agent's local clock is applied, the rest are
// buffered and drained to fixpoint as their predecessors land within this
// same call. The undelivered rows in the delta queue table are themselves
// the durable buffer across calls, so each call starts from a fresh
// CausalDeliveryManager seeded with exactly what's still pending. Applying
// a delta merges it into the existing memory via MergeMemoryStates, or
// creates the memory outright if this is the first anyone has seen that
// id. Returns the ids of memories touched, in application order.
func (s *SyncManager) Deliver(agent types.AgentID) ([]string, error) {
	rows, err := s.store.PendingDeltas(string(agent))
	if err != nil {
		return nil, err
	}

	dm := NewCausalDeliveryManager()
	deltaByID := make(map[int64]MemoryDelta, len(rows))

	for _, row := range rows {
		var d MemoryDelta
		if err := json.Unmarshal(row.Payload, &d); err != nil {
			logging.CRDTWarn("dropping malformed delta %d for %s: %v", row.ID, agent, err)
			_ = s.store.MarkDeltaDelivered(row.ID)
			continue
		}
		deltaByID[row.ID] = d
		dm.Buffer(row.ID, row.VectorClock)
	}

	var updated []string
	for _, a := range dm.DrainApplicable(s.clockFor(agent)) {
		d, ok := deltaByID[a.ID]
		if !ok {
			continue
		}
		if err := s.apply(d.Memory); err != nil {
			logging.CRDTError("applying delta %d for %s failed: %v", a.ID, agent, err)
			continue
		}
		if err := s.store.MarkDeltaDelivered(a.ID); err != nil {
			logging.CRDTError("marking delta %d delivered failed: %v", a.ID, err)
		}
		s.clocks[agent] = s.clockFor(agent).Merge(a.Clock)
		updated = append(updated, d.Memory.ID)
	}
	return updated, nil
}

// apply merges incoming into the stored memory, or creates it if this is
// the first time this id has been seen locally.
func (s *SyncManager) apply(incoming *types.Memory) error {
	existing, err := s.store.Get(incoming.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.store.Create(incoming)
	}
	merged := MergeMemoryStates(
		MemoryState{Memory: existing, Clock: types.NewVectorClock()},
		MemoryState{Memory: incoming, Clock: types.NewVectorClock()},
	)
	return s.store.Update(merged.Memory)
}

// PurgeDelivered removes delivered queue rows older than retention,
// returning the number purged. Run periodically, same cadence as
// consolidation.
func (s *SyncManager) PurgeDelivered(retention time.Duration, now time.Time) (int64, error) {
	return s.store.PurgeDeliveredDeltas(now.Add(-retention))
}
