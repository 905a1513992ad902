package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// PutSnapshot persists a snapshot. Snapshots are kept one per (memory,
// event_id); writing one at an event_id that already has a snapshot for this
// memory overwrites it.
func (s *Store) PutSnapshot(snap *types.Snapshot) error {
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return types.NewSerialization(err)
	}
	return s.withSavepoint("put_snapshot", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO memory_snapshots (memory_id, event_id, recorded_at, reason, state_json)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(memory_id, event_id) DO UPDATE SET
			   recorded_at = excluded.recorded_at, reason = excluded.reason, state_json = excluded.state_json`,
			snap.MemoryID, snap.EventID, snap.RecordedAt, string(snap.Reason), string(stateJSON),
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// LatestSnapshotBefore returns the snapshot with the greatest recorded_at
// that is <= at, or nil if none exists.
func (s *Store) LatestSnapshotBefore(memoryID string, at time.Time) (*types.Snapshot, error) {
	row := s.reader.QueryRow(
		`SELECT memory_id, event_id, recorded_at, reason, state_json FROM memory_snapshots
		 WHERE memory_id = ? AND recorded_at <= ? ORDER BY recorded_at DESC, event_id DESC LIMIT 1`,
		memoryID, at,
	)
	var (
		snap      types.Snapshot
		reason    string
		stateJSON string
	)
	err := row.Scan(&snap.MemoryID, &snap.EventID, &snap.RecordedAt, &reason, &stateJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewStorage(err)
	}
	snap.Reason = types.SnapshotReason(reason)
	var state types.Memory
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, types.NewSerialization(err)
	}
	snap.State = &state
	return &snap, nil
}

// EventCountSinceLastSnapshot reports how many events a memory has accrued
// past its most recent snapshot, used by the periodic-snapshot scheduler.
func (s *Store) EventCountSinceLastSnapshot(memoryID string) (int64, error) {
	var maxSnapshotEventID sql.NullInt64
	if err := s.reader.QueryRow(
		"SELECT MAX(event_id) FROM memory_snapshots WHERE memory_id = ?", memoryID,
	).Scan(&maxSnapshotEventID); err != nil {
		return 0, types.NewStorage(err)
	}
	since := int64(-1)
	if maxSnapshotEventID.Valid {
		since = maxSnapshotEventID.Int64
	}
	var count int64
	if err := s.reader.QueryRow(
		"SELECT COUNT(*) FROM memory_events WHERE memory_id = ? AND event_id > ?", memoryID, since,
	).Scan(&count); err != nil {
		return 0, types.NewStorage(err)
	}
	return count, nil
}
