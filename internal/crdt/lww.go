// Package crdt implements the conflict-free primitives and the
// multi-agent sync machinery built on top of them: per-field merge of
// Memory records, causal delta delivery, consensus detection, and
// cross-agent trust tracking.
package crdt

import (
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// LWWRegister is a last-writer-wins register over any value type. Concurrent
// writes are resolved by comparing (timestamp, agent_id); the lexically
// greater agent id wins an exact timestamp tie, giving a total order without
// needing a tie-breaking oracle.
type LWWRegister[T any] struct {
	value     T
	timestamp time.Time
	agent     types.AgentID
}

// NewLWWRegister seeds a register with an initial value.
func NewLWWRegister[T any](value T, agent types.AgentID, at time.Time) LWWRegister[T] {
	return LWWRegister[T]{value: value, timestamp: at, agent: agent}
}

// Set overwrites the value unconditionally; callers apply ordering
// themselves (local writes are always newer than whatever was there).
func (r *LWWRegister[T]) Set(value T, agent types.AgentID, at time.Time) {
	r.value = value
	r.timestamp = at
	r.agent = agent
}

// Get returns the current value.
func (r LWWRegister[T]) Get() T { return r.value }

// Timestamp returns the last-write timestamp.
func (r LWWRegister[T]) Timestamp() time.Time { return r.timestamp }

// Agent returns the agent that performed the last write.
func (r LWWRegister[T]) Agent() types.AgentID { return r.agent }

// wins reports whether (t1, a1) should be preferred over (t2, a2).
func wins(t1 time.Time, a1 types.AgentID, t2 time.Time, a2 types.AgentID) bool {
	if t1.After(t2) {
		return true
	}
	if t1.Before(t2) {
		return false
	}
	return a1 > a2
}

// Merge combines r with other, keeping whichever write is newer by
// (timestamp, agent_id). Idempotent, commutative, and associative.
func (r LWWRegister[T]) Merge(other LWWRegister[T]) LWWRegister[T] {
	if wins(other.timestamp, other.agent, r.timestamp, r.agent) {
		return other
	}
	return r
}

// DeltaSince returns (delta, true) if r is strictly newer than other,
// meaning it carries information other hasn't seen yet. Returns
// (zero, false) when there is nothing to propagate.
func (r LWWRegister[T]) DeltaSince(other LWWRegister[T]) (LWWRegister[T], bool) {
	if wins(r.timestamp, r.agent, other.timestamp, other.agent) {
		return r, true
	}
	var zero LWWRegister[T]
	return zero, false
}
