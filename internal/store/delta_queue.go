package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// DeltaQueueLimits bounds the durable outbound queue per peer; Enqueue
// returns ErrSyncFailed once a peer's pending count reaches MaxPending.
// MaxPendingPerAgentPerDay additionally bounds how many deltas a single
// source agent may publish across all peers in a day, enforced by
// crdt.SyncManager via a QuotaTracker rather than by this package.
type DeltaQueueLimits struct {
	MaxPending               int
	MaxPendingPerAgentPerDay int
}

// EnqueueDelta persists an outbound CRDT delta for peer, applying
// backpressure from limits.
func (s *Store) EnqueueDelta(peerAgent string, vectorClock types.VectorClock, payload any, limits DeltaQueueLimits) error {
	clockJSON, err := json.Marshal(vectorClock)
	if err != nil {
		return types.NewSerialization(err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return types.NewSerialization(err)
	}

	return s.withSavepoint("enqueue_delta", func(tx *sql.Tx) error {
		if limits.MaxPending > 0 {
			var pending int
			if err := tx.QueryRow(
				"SELECT COUNT(*) FROM delta_queue WHERE peer_agent = ? AND delivered = FALSE",
				peerAgent,
			).Scan(&pending); err != nil {
				return types.NewStorage(err)
			}
			if pending >= limits.MaxPending {
				return types.NewSyncFailed(
					"outbound delta queue full for peer " + peerAgent,
				)
			}
		}
		_, err := tx.Exec(
			"INSERT INTO delta_queue (peer_agent, vector_clock_json, payload_json, enqueued_at, delivered) VALUES (?, ?, ?, ?, FALSE)",
			peerAgent, string(clockJSON), string(payloadJSON), time.Now().UTC(),
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// PendingDeltaRow is one undelivered outbound delta.
type PendingDeltaRow struct {
	ID          int64
	PeerAgent   string
	VectorClock types.VectorClock
	Payload     json.RawMessage
	EnqueuedAt  time.Time
}

// PendingDeltas returns undelivered deltas for peerAgent, oldest first.
func (s *Store) PendingDeltas(peerAgent string) ([]PendingDeltaRow, error) {
	rows, err := s.reader.Query(
		"SELECT id, peer_agent, vector_clock_json, payload_json, enqueued_at FROM delta_queue WHERE peer_agent = ? AND delivered = FALSE ORDER BY id ASC",
		peerAgent,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []PendingDeltaRow
	for rows.Next() {
		var (
			r         PendingDeltaRow
			clockJSON string
		)
		if err := rows.Scan(&r.ID, &r.PeerAgent, &clockJSON, &r.Payload, &r.EnqueuedAt); err != nil {
			return nil, types.NewStorage(err)
		}
		r.VectorClock = types.NewVectorClock()
		_ = json.Unmarshal([]byte(clockJSON), &r.VectorClock)
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkDeltaDelivered flags a queued delta as delivered so it no longer
// counts against the peer's backpressure limit.
func (s *Store) MarkDeltaDelivered(id int64) error {
	return s.withSavepoint("mark_delta_delivered", func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE delta_queue SET delivered = TRUE WHERE id = ?", id)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// PurgeDeliveredDeltas removes delivered rows older than olderThan, a
// periodic cleanup so the queue table doesn't grow unbounded.
func (s *Store) PurgeDeliveredDeltas(olderThan time.Time) (int64, error) {
	var affected int64
	err := s.withSavepoint("purge_delivered_deltas", func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM delta_queue WHERE delivered = TRUE AND enqueued_at < ?", olderThan)
		if err != nil {
			return types.NewStorage(err)
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}
