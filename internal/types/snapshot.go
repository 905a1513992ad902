package types

import "time"

// SnapshotReason records why a snapshot was taken.
type SnapshotReason string

const (
	SnapshotPeriodic        SnapshotReason = "periodic"
	SnapshotOnDemand        SnapshotReason = "on_demand"
	SnapshotThresholdCrossed SnapshotReason = "threshold_crossed"
)

// Snapshot captures a known-good Memory state at a given EventID. Temporal
// reconstruction at time t loads the latest snapshot with RecordedAt <= t
// and replays events with EventID > snapshot.EventID.
type Snapshot struct {
	MemoryID   string         `json:"memory_id"`
	EventID    uint64         `json:"event_id"`
	RecordedAt time.Time      `json:"recorded_at"`
	Reason     SnapshotReason `json:"reason"`
	State      *Memory        `json:"state"`
}
