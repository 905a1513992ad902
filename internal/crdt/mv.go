package crdt

import "github.com/cortexmemory/cortex/internal/types"

// mvEntry pairs a concurrently-written value with the vector clock that
// produced it.
type mvEntry[T comparable] struct {
	value T
	clock types.VectorClock
}

// MVRegister is a multi-value register: it preserves every concurrently
// written value instead of picking a winner, surfacing genuine conflicts to
// the caller (used for fields like "experimental" where silently dropping a
// concurrent write would hide a real disagreement between agents).
type MVRegister[T comparable] struct {
	entries []mvEntry[T]
}

// NewMVRegister seeds a register with a single value under clock.
func NewMVRegister[T comparable](value T, clock types.VectorClock) MVRegister[T] {
	return MVRegister[T]{entries: []mvEntry[T]{{value: value, clock: clock}}}
}

// Set records a new write, pruning any existing entries the new clock
// dominates (its causal predecessors) and keeping any it is concurrent with.
func (r *MVRegister[T]) Set(value T, clock types.VectorClock) {
	kept := r.entries[:0:0]
	for _, e := range r.entries {
		if !clock.Dominates(e.clock) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, mvEntry[T]{value: value, clock: clock})
	r.entries = kept
}

// Values returns every concurrently-held value, in no particular order.
func (r MVRegister[T]) Values() []T {
	out := make([]T, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.value
	}
	return out
}

// IsConflicted reports whether more than one concurrent value is held.
func (r MVRegister[T]) IsConflicted() bool { return len(r.entries) > 1 }

// IsEmpty reports whether the register holds no value at all.
func (r MVRegister[T]) IsEmpty() bool { return len(r.entries) == 0 }

// Merge keeps every entry from both registers that is not causally
// dominated by some other entry in the combined set, deduping identical
// (value, clock) pairs. Commutative and idempotent.
func (r MVRegister[T]) Merge(other MVRegister[T]) MVRegister[T] {
	all := make([]mvEntry[T], 0, len(r.entries)+len(other.entries))
	all = append(all, r.entries...)
	all = append(all, other.entries...)

	var out []mvEntry[T]
	for i, e := range all {
		dominated := false
		for j, o := range all {
			if i == j {
				continue
			}
			if o.clock.Dominates(e.clock) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		duplicate := false
		for _, kept := range out {
			if kept.value == e.value && kept.clock.Equal(e.clock) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, e)
		}
	}
	return MVRegister[T]{entries: out}
}

// Resolve is an explicit user action that collapses every concurrent value
// down to one, stamped with a clock dominating all of them. It is never
// performed implicitly by Merge — silently picking a value would hide the
// conflict Merge was built to surface.
func (r *MVRegister[T]) Resolve(value T) {
	merged := types.NewVectorClock()
	for _, e := range r.entries {
		merged = merged.Merge(e.clock)
	}
	r.entries = []mvEntry[T]{{value: value, clock: merged}}
}

// Equal reports whether two registers hold the same set of (value, clock)
// entries, independent of order.
func (r MVRegister[T]) Equal(other MVRegister[T]) bool {
	if len(r.entries) != len(other.entries) {
		return false
	}
	used := make([]bool, len(other.entries))
	for _, e := range r.entries {
		found := false
		for j, o := range other.entries {
			if used[j] {
				continue
			}
			if e.value == o.value && e.clock.Equal(o.clock) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
