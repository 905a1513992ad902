package store

import (
	"database/sql"
	"time"

	"github.com/cortexmemory/cortex/internal/types"
)

// ProvenanceHop records one agent in a memory's cross-agent lineage, used by
// the consolidation pruning phase to preserve provenance across merges and
// by the validation package's consensus-group resistance check.
type ProvenanceHop struct {
	MemoryID   string
	HopIndex   int
	Agent      types.AgentID
	RecordedAt time.Time
}

// AppendProvenanceHop records the next hop in memoryID's lineage.
func (s *Store) AppendProvenanceHop(memoryID string, agent types.AgentID) error {
	return s.withSavepoint("append_provenance_hop", func(tx *sql.Tx) error {
		var nextHop int
		if err := tx.QueryRow(
			"SELECT COALESCE(MAX(hop_index), -1) + 1 FROM provenance_hops WHERE memory_id = ?", memoryID,
		).Scan(&nextHop); err != nil {
			return types.NewStorage(err)
		}
		_, err := tx.Exec(
			"INSERT INTO provenance_hops (memory_id, hop_index, agent, recorded_at) VALUES (?, ?, ?, ?)",
			memoryID, nextHop, string(agent), time.Now().UTC(),
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// ProvenanceChain returns memoryID's lineage, oldest hop first.
func (s *Store) ProvenanceChain(memoryID string) ([]ProvenanceHop, error) {
	rows, err := s.reader.Query(
		"SELECT memory_id, hop_index, agent, recorded_at FROM provenance_hops WHERE memory_id = ? ORDER BY hop_index ASC",
		memoryID,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []ProvenanceHop
	for rows.Next() {
		var (
			h     ProvenanceHop
			agent string
		)
		if err := rows.Scan(&h.MemoryID, &h.HopIndex, &agent, &h.RecordedAt); err != nil {
			return nil, types.NewStorage(err)
		}
		h.Agent = types.AgentID(agent)
		out = append(out, h)
	}
	return out, rows.Err()
}
