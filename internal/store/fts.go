package store

import (
	"strings"

	"github.com/cortexmemory/cortex/internal/types"
)

// SearchFTS runs a keyword search over summary+content using the FTS5 index,
// returning up to limit matching memories ranked by bm25.
func (s *Store) SearchFTS(query string, limit int) ([]*types.Memory, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	rows, err := s.reader.Query(
		`SELECT m.id, m.memory_type, m.content_json, m.summary, m.transaction_time, m.valid_time,
			m.valid_until, m.confidence, m.importance, m.last_accessed, m.access_count,
			m.linked_patterns, m.linked_constraints, m.linked_files, m.linked_functions,
			m.tags, m.archived, m.superseded_by, m.supersedes, m.content_hash, m.namespace,
			m.source_agent
		 FROM memory_fts f
		 JOIN memories m ON m.id = f.memory_id
		 WHERE memory_fts MATCH ?
		 ORDER BY bm25(memory_fts) ASC
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}
