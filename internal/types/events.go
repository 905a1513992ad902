package types

import "time"

// EventType is the closed set of mutations recorded in a memory's
// append-only event log.
type EventType string

const (
	EventCreated           EventType = "created"
	EventContentUpdated    EventType = "content_updated"
	EventConfidenceChanged EventType = "confidence_changed"
	EventImportanceChanged EventType = "importance_changed"
	EventArchived          EventType = "archived"
	EventRestored          EventType = "restored"
	EventSuperseded        EventType = "superseded"
	EventLinkAdded         EventType = "link_added"
	EventLinkRemoved       EventType = "link_removed"
	EventTagAdded          EventType = "tag_added"
	EventTagRemoved        EventType = "tag_removed"
)

// MemoryEvent is one append-only entry in a memory's event log. EventID is
// monotonically increasing per memory, assigned under the writer lock at
// insert time. Delta carries the minimum patch needed to reconstruct state.
type MemoryEvent struct {
	MemoryID   string         `json:"memory_id"`
	EventID    uint64         `json:"event_id"`
	EventType  EventType      `json:"event_type"`
	RecordedAt time.Time      `json:"recorded_at"`
	Actor      AgentID        `json:"actor"`
	Delta      map[string]any `json:"delta"`
}
