package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// appendEventTx writes one event row within an already-open transaction.
// Event ids are assigned by the caller, which tracks memories.next_event_id.
func appendEventTx(tx *sql.Tx, memoryID string, eventID uint64, eventType types.EventType, actor types.AgentID, delta map[string]any) error {
	deltaJSON, err := json.Marshal(delta)
	if err != nil {
		return types.NewSerialization(err)
	}
	_, err = tx.Exec(
		"INSERT INTO memory_events (memory_id, event_id, event_type, recorded_at, actor, delta_json) VALUES (?, ?, ?, ?, ?, ?)",
		memoryID, eventID, string(eventType), time.Now().UTC(), string(actor), string(deltaJSON),
	)
	if err != nil {
		return types.NewStorage(err)
	}
	return nil
}

// Events returns every event recorded for id, ordered oldest first.
func (s *Store) Events(memoryID string) ([]types.MemoryEvent, error) {
	rows, err := s.reader.Query(
		"SELECT memory_id, event_id, event_type, recorded_at, actor, delta_json FROM memory_events WHERE memory_id = ? ORDER BY event_id ASC",
		memoryID,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []types.MemoryEvent
	for rows.Next() {
		var (
			e         types.MemoryEvent
			eventType string
			actor     string
			deltaJSON string
		)
		if err := rows.Scan(&e.MemoryID, &e.EventID, &eventType, &e.RecordedAt, &actor, &deltaJSON); err != nil {
			return nil, types.NewStorage(err)
		}
		e.EventType = types.EventType(eventType)
		e.Actor = types.AgentID(actor)
		if err := json.Unmarshal([]byte(deltaJSON), &e.Delta); err != nil {
			return nil, types.NewSerialization(err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EventsSince returns events for memoryID with event_id > afterEventID and
// recorded_at <= at, the slice the temporal engine replays onto a snapshot.
// Event ids are 0-based (the Created event is always id 0), so the caller
// reconstructing from genesis must pass hasSnapshot=false to include it.
func (s *Store) EventsSince(memoryID string, afterEventID uint64, hasSnapshot bool, at time.Time) ([]types.MemoryEvent, error) {
	query := `SELECT memory_id, event_id, event_type, recorded_at, actor, delta_json FROM memory_events
		 WHERE memory_id = ? AND event_id >= ? AND recorded_at <= ? ORDER BY event_id ASC`
	lowerBound := afterEventID + 1
	if !hasSnapshot {
		lowerBound = 0
	}
	rows, err := s.reader.Query(query, memoryID, lowerBound, at)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []types.MemoryEvent
	for rows.Next() {
		var (
			e         types.MemoryEvent
			eventType string
			actor     string
			deltaJSON string
		)
		if err := rows.Scan(&e.MemoryID, &e.EventID, &eventType, &e.RecordedAt, &actor, &deltaJSON); err != nil {
			return nil, types.NewStorage(err)
		}
		e.EventType = types.EventType(eventType)
		e.Actor = types.AgentID(actor)
		if err := json.Unmarshal([]byte(deltaJSON), &e.Delta); err != nil {
			return nil, types.NewSerialization(err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CompactEvents removes events older than any snapshot that supersedes
// them: everything at or before the highest snapshot event_id for memoryID.
func (s *Store) CompactEvents(memoryID string) error {
	return s.withSavepoint("compact_events", func(tx *sql.Tx) error {
		var maxSnapshotEventID sql.NullInt64
		if err := tx.QueryRow(
			"SELECT MAX(event_id) FROM memory_snapshots WHERE memory_id = ?", memoryID,
		).Scan(&maxSnapshotEventID); err != nil {
			return types.NewStorage(err)
		}
		if !maxSnapshotEventID.Valid {
			return nil
		}
		_, err := tx.Exec(
			"DELETE FROM memory_events WHERE memory_id = ? AND event_id <= ?",
			memoryID, maxSnapshotEventID.Int64,
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}
