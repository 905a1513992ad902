package store

import (
	"database/sql"
	"encoding/json"

	"github.com/cortexmemory/cortex/internal/types"
)

// PutRelationshipEdge dual-writes a non-causal relationship edge. The
// in-memory graph (internal/graph) calls this after accepting the edge so
// storage stays the durable source of truth.
func (s *Store) PutRelationshipEdge(e *types.RelationshipEdge) error {
	e.Clamp()
	evidenceJSON, err := json.Marshal(e.Evidence)
	if err != nil {
		return types.NewSerialization(err)
	}
	return s.withSavepoint("put_relationship_edge", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO relationship_edges (source_id, target_id, relationship_type, strength, evidence_json)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(source_id, target_id, relationship_type) DO UPDATE SET
			   strength = excluded.strength, evidence_json = excluded.evidence_json`,
			e.SourceID, e.TargetID, string(e.Type), e.Strength, string(evidenceJSON),
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// RelationshipEdges returns every relationship edge touching memoryID, in
// either direction.
func (s *Store) RelationshipEdges(memoryID string) ([]*types.RelationshipEdge, error) {
	rows, err := s.reader.Query(
		`SELECT source_id, target_id, relationship_type, strength, evidence_json FROM relationship_edges
		 WHERE source_id = ? OR target_id = ?`,
		memoryID, memoryID,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []*types.RelationshipEdge
	for rows.Next() {
		var (
			e            types.RelationshipEdge
			relType      string
			evidenceJSON string
		)
		if err := rows.Scan(&e.SourceID, &e.TargetID, &relType, &e.Strength, &evidenceJSON); err != nil {
			return nil, types.NewStorage(err)
		}
		e.Type = types.RelationshipType(relType)
		_ = json.Unmarshal([]byte(evidenceJSON), &e.Evidence)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// PutCausalEdge dual-writes a causal edge. Cycle checking over the
// strictly-causal subgraph is internal/graph's responsibility and must run
// before this is called.
func (s *Store) PutCausalEdge(e *types.CausalEdge) error {
	e.Clamp()
	evidenceJSON, err := json.Marshal(e.Evidence)
	if err != nil {
		return types.NewSerialization(err)
	}
	return s.withSavepoint("put_causal_edge", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO causal_edges (source_id, target_id, relation, strength, evidence_json, inferred)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(source_id, target_id, relation) DO UPDATE SET
			   strength = excluded.strength, evidence_json = excluded.evidence_json, inferred = excluded.inferred`,
			e.SourceID, e.TargetID, string(e.Relation), e.Strength, string(evidenceJSON), e.Inferred,
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// CausalEdges returns every causal edge touching memoryID in either
// direction, the row set the graph package loads to rebuild its arena on
// startup.
func (s *Store) CausalEdges(memoryID string) ([]*types.CausalEdge, error) {
	rows, err := s.reader.Query(
		`SELECT source_id, target_id, relation, strength, evidence_json, inferred FROM causal_edges
		 WHERE source_id = ? OR target_id = ?`,
		memoryID, memoryID,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanCausalEdges(rows)
}

// AllCausalEdges returns the full causal edge set, used to rebuild the
// in-memory graph on startup per the component design (§4.3: "rebuilt from
// storage on start-up").
func (s *Store) AllCausalEdges() ([]*types.CausalEdge, error) {
	rows, err := s.reader.Query(
		`SELECT source_id, target_id, relation, strength, evidence_json, inferred FROM causal_edges`,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanCausalEdges(rows)
}

// AllRelationshipEdges returns the full relationship edge set for startup
// rebuild, mirroring AllCausalEdges.
func (s *Store) AllRelationshipEdges() ([]*types.RelationshipEdge, error) {
	rows, err := s.reader.Query(
		`SELECT source_id, target_id, relationship_type, strength, evidence_json FROM relationship_edges`,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	var out []*types.RelationshipEdge
	for rows.Next() {
		var (
			e            types.RelationshipEdge
			relType      string
			evidenceJSON string
		)
		if err := rows.Scan(&e.SourceID, &e.TargetID, &relType, &e.Strength, &evidenceJSON); err != nil {
			return nil, types.NewStorage(err)
		}
		e.Type = types.RelationshipType(relType)
		_ = json.Unmarshal([]byte(evidenceJSON), &e.Evidence)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func scanCausalEdges(rows *sql.Rows) ([]*types.CausalEdge, error) {
	var out []*types.CausalEdge
	for rows.Next() {
		var (
			e            types.CausalEdge
			relation     string
			evidenceJSON string
		)
		if err := rows.Scan(&e.SourceID, &e.TargetID, &relation, &e.Strength, &evidenceJSON, &e.Inferred); err != nil {
			return nil, types.NewStorage(err)
		}
		e.Relation = types.CausalRelation(relation)
		_ = json.Unmarshal([]byte(evidenceJSON), &e.Evidence)
		out = append(out, &e)
	}
	return out, rows.Err()
}
