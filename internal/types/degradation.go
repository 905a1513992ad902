package types

import "time"

// DegradedModeEvent records one occasion a component fell back to reduced
// capability rather than failing outright (e.g. the embedding engine
// falling back to TF-IDF, or a pattern failing to compile and being
// skipped). Count lets repeated occurrences of the same component/fallback
// pair collapse into one entry instead of growing without bound.
type DegradedModeEvent struct {
	Component string    `json:"component"`
	Fallback  string    `json:"fallback"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Count     uint64    `json:"count"`
}

// DegradationTracker is the minimal observability surface for §7's
// degraded-mode propagation policy: rather than bubbling every fallback up
// as a user-visible error, components record it here so a caller (e.g.
// Runtime.HealthReport) can inspect what's currently running in reduced
// capability. It is not a metrics stack; it's an in-memory ledger of the
// DegradedMode error kind's occurrences.
type DegradationTracker struct {
	events map[string]*DegradedModeEvent
}

// NewDegradationTracker returns an empty tracker.
func NewDegradationTracker() *DegradationTracker {
	return &DegradationTracker{events: make(map[string]*DegradedModeEvent)}
}

// Record notes that component fell back to fallback at the given time,
// merging into any existing entry for that exact component/fallback pair.
func (d *DegradationTracker) Record(component, fallback string, at time.Time) {
	key := component + "\x00" + fallback
	e, ok := d.events[key]
	if !ok {
		d.events[key] = &DegradedModeEvent{
			Component: component,
			Fallback:  fallback,
			FirstSeen: at,
			LastSeen:  at,
			Count:     1,
		}
		return
	}
	e.Count++
	if at.After(e.LastSeen) {
		e.LastSeen = at
	}
	if at.Before(e.FirstSeen) {
		e.FirstSeen = at
	}
}

// Active returns every distinct component/fallback pair recorded so far, in
// no particular order.
func (d *DegradationTracker) Active() []DegradedModeEvent {
	out := make([]DegradedModeEvent, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, *e)
	}
	return out
}

// Clear removes all recorded events, e.g. after an operator acknowledges
// them or a component recovers.
func (d *DegradationTracker) Clear() {
	d.events = make(map[string]*DegradedModeEvent)
}
