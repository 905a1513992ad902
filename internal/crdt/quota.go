package crdt

import "github.com/cortexmemory/cortex/internal/types"

// quotaKey scopes usage tracking per agent and resource, so one agent
// exhausting its sync-delta quota doesn't affect another's.
type quotaKey struct {
	agent    types.AgentID
	resource string
}

// QuotaTracker enforces a per-agent, per-resource usage ceiling. It gives
// the ErrQuotaExceeded taxonomy entry a real call site: SyncManager charges
// it on every outbound delta so a misbehaving or runaway peer can't grow the
// delta queue without bound, independent of the queue's own MaxPending
// depth check.
type QuotaTracker struct {
	used map[quotaKey]uint64
}

// NewQuotaTracker returns a tracker with no usage recorded yet.
func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{used: make(map[quotaKey]uint64)}
}

// Charge records amount more usage of resource by agent and fails with
// ErrQuotaExceeded if that would push total usage past limit. A limit of
// zero is treated as unbounded, so callers that don't care about a given
// resource can pass it through without tracking it.
func (q *QuotaTracker) Charge(agent types.AgentID, resource string, amount, limit uint64) error {
	key := quotaKey{agent: agent, resource: resource}
	next := q.used[key] + amount
	if limit > 0 && next > limit {
		return types.NewQuotaExceeded(resource, q.used[key], limit)
	}
	q.used[key] = next
	return nil
}

// Usage returns how much of resource agent has charged so far.
func (q *QuotaTracker) Usage(agent types.AgentID, resource string) uint64 {
	return q.used[quotaKey{agent: agent, resource: resource}]
}

// Reset clears all recorded usage for agent, e.g. on a new billing period
// or sync session.
func (q *QuotaTracker) Reset(agent types.AgentID) {
	for key := range q.used {
		if key.agent == agent {
			delete(q.used, key)
		}
	}
}
