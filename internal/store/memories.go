package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// Create inserts a new memory, indexes it for full-text search, and emits a
// Created event. Fails with ErrDuplicate if the id already exists.
func (s *Store) Create(m *types.Memory) error {
	timer := logging.StartTimer(logging.CategoryStore, "Create")
	defer timer.Stop()

	contentJSON, err := json.Marshal(m.Content)
	if err != nil {
		return types.NewSerialization(err)
	}

	return s.withSavepoint("create_memory", func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow("SELECT COUNT(*) FROM memories WHERE id = ?", m.ID).Scan(&exists); err != nil {
			return types.NewStorage(err)
		}
		if exists > 0 {
			return types.NewDuplicate("memory", m.ID)
		}

		_, err := tx.Exec(`
			INSERT INTO memories (
				id, memory_type, content_json, summary, transaction_time, valid_time,
				valid_until, confidence, importance, last_accessed, access_count,
				linked_patterns, linked_constraints, linked_files, linked_functions,
				tags, archived, superseded_by, supersedes, content_hash, namespace,
				source_agent, next_event_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, string(m.MemoryType), string(contentJSON), m.Summary,
			m.TransactionTime, m.ValidTime, nullableTime(m.ValidUntil),
			m.Confidence, int(m.Importance), m.LastAccessed, m.AccessCount,
			marshalJSON(m.LinkedPatterns), marshalJSON(m.LinkedConstraints),
			marshalJSON(m.LinkedFiles), marshalJSON(m.LinkedFunctions),
			marshalJSON(m.Tags), m.Archived, m.SupersededBy, m.Supersedes,
			m.ContentHash, string(m.Namespace), string(m.SourceAgent), 1,
		)
		if err != nil {
			return types.NewStorage(err)
		}

		if _, err := tx.Exec(
			"INSERT INTO memory_fts (memory_id, summary, content) VALUES (?, ?, ?)",
			m.ID, m.Summary, string(contentJSON),
		); err != nil {
			return types.NewStorage(err)
		}

		// The Created event carries the full initial state (not just a diff)
		// so replay can reconstruct a memory from the event log alone, with
		// no snapshot: every later event only needs to store what changed.
		initial, err := json.Marshal(m)
		if err != nil {
			return types.NewSerialization(err)
		}
		if err := appendEventTx(tx, m.ID, 0, types.EventCreated, m.SourceAgent, map[string]any{"state_json": string(initial)}); err != nil {
			return err
		}
		return nil
	})
}

// Get loads a memory by id, or nil if it does not exist.
func (s *Store) Get(id string) (*types.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.reader.QueryRow(selectMemoryColumns+" FROM memories WHERE id = ?", id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewStorage(err)
	}
	return m, nil
}

// Update diffs old and new state, appends one event per changed field, and
// writes the new row plus FTS index. Fails with ErrNotFound if id is absent.
func (s *Store) Update(m *types.Memory) error {
	timer := logging.StartTimer(logging.CategoryStore, "Update")
	defer timer.Stop()

	contentJSON, err := json.Marshal(m.Content)
	if err != nil {
		return types.NewSerialization(err)
	}

	return s.withSavepoint("update_memory", func(tx *sql.Tx) error {
		old, err := scanMemory(tx.QueryRow(selectMemoryColumns+" FROM memories WHERE id = ?", m.ID))
		if err == sql.ErrNoRows {
			return types.NewNotFound("memory", m.ID)
		}
		if err != nil {
			return types.NewStorage(err)
		}

		var nextEventID int64
		if err := tx.QueryRow("SELECT next_event_id FROM memories WHERE id = ?", m.ID).Scan(&nextEventID); err != nil {
			return types.NewStorage(err)
		}

		deltas := diffMemory(old, m)
		for _, d := range deltas {
			if err := appendEventTx(tx, m.ID, uint64(nextEventID), d.eventType, m.SourceAgent, d.delta); err != nil {
				return err
			}
			nextEventID++
		}

		_, err = tx.Exec(`
			UPDATE memories SET memory_type=?, content_json=?, summary=?, transaction_time=?,
				valid_time=?, valid_until=?, confidence=?, importance=?, last_accessed=?,
				access_count=?, linked_patterns=?, linked_constraints=?, linked_files=?,
				linked_functions=?, tags=?, archived=?, superseded_by=?, supersedes=?,
				content_hash=?, namespace=?, source_agent=?, next_event_id=?
			WHERE id = ?`,
			string(m.MemoryType), string(contentJSON), m.Summary, m.TransactionTime,
			m.ValidTime, nullableTime(m.ValidUntil), m.Confidence, int(m.Importance),
			m.LastAccessed, m.AccessCount, marshalJSON(m.LinkedPatterns),
			marshalJSON(m.LinkedConstraints), marshalJSON(m.LinkedFiles),
			marshalJSON(m.LinkedFunctions), marshalJSON(m.Tags), m.Archived,
			m.SupersededBy, m.Supersedes, m.ContentHash, string(m.Namespace),
			string(m.SourceAgent), nextEventID, m.ID,
		)
		if err != nil {
			return types.NewStorage(err)
		}

		_, err = tx.Exec("UPDATE memory_fts SET summary = ?, content = ? WHERE memory_id = ?",
			m.Summary, string(contentJSON), m.ID)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// Delete hard-deletes a memory, cascading to its events, snapshots,
// embedding link, and graph edges.
func (s *Store) Delete(id string) error {
	timer := logging.StartTimer(logging.CategoryStore, "Delete")
	defer timer.Stop()

	return s.withSavepoint("delete_memory", func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM memories WHERE id = ?", id)
		if err != nil {
			return types.NewStorage(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return types.NewNotFound("memory", id)
		}
		singleArgStmts := []string{
			"DELETE FROM memory_events WHERE memory_id = ?",
			"DELETE FROM memory_snapshots WHERE memory_id = ?",
			"DELETE FROM memory_fts WHERE memory_id = ?",
			"DELETE FROM memory_embedding_links WHERE memory_id = ?",
			"DELETE FROM provenance_hops WHERE memory_id = ?",
		}
		for _, stmt := range singleArgStmts {
			if _, err := tx.Exec(stmt, id); err != nil {
				return types.NewStorage(err)
			}
		}
		pairArgStmts := []string{
			"DELETE FROM relationship_edges WHERE source_id = ? OR target_id = ?",
			"DELETE FROM causal_edges WHERE source_id = ? OR target_id = ?",
		}
		for _, stmt := range pairArgStmts {
			if _, err := tx.Exec(stmt, id, id); err != nil {
				return types.NewStorage(err)
			}
		}
		return nil
	})
}

// QueryByType returns all non-archived memories of the given type.
func (s *Store) QueryByType(t types.MemoryType) ([]*types.Memory, error) {
	rows, err := s.reader.Query(selectMemoryColumns+" FROM memories WHERE memory_type = ? AND archived = 0 ORDER BY transaction_time DESC", string(t))
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// QueryByImportance returns all non-archived memories at or above level.
func (s *Store) QueryByImportance(level types.Importance) ([]*types.Memory, error) {
	rows, err := s.reader.Query(selectMemoryColumns+" FROM memories WHERE importance >= ? AND archived = 0 ORDER BY importance DESC", int(level))
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// MemoriesLinkedToFile returns memories whose linked_files JSON mentions
// path as a substring, most recent first. Used by the retrieval engine's
// entity-expansion seed step; a substring match is deliberately loose since
// callers pass partial paths from an agent's active-file set.
func (s *Store) MemoriesLinkedToFile(path string, limit int) ([]*types.Memory, error) {
	if path == "" {
		return nil, nil
	}
	rows, err := s.reader.Query(
		selectMemoryColumns+` FROM memories WHERE linked_files LIKE '%' || ? || '%' ORDER BY transaction_time DESC LIMIT ?`,
		path, limit,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// RecentlyAccessed returns non-archived memories ordered by last_accessed
// descending, most recent first. Used by prediction's temporal and
// behavioral strategies to surface what an agent has been working with.
func (s *Store) RecentlyAccessed(limit int) ([]*types.Memory, error) {
	rows, err := s.reader.Query(
		selectMemoryColumns+` FROM memories WHERE archived = 0 ORDER BY last_accessed DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// QueryByTag returns non-archived memories whose tags JSON mentions tag as
// a substring, most recently accessed first. Used by prediction's
// pattern-based strategy to find memories related to a file's inferred
// topic tags.
func (s *Store) QueryByTag(tag string, limit int) ([]*types.Memory, error) {
	if tag == "" {
		return nil, nil
	}
	rows, err := s.reader.Query(
		selectMemoryColumns+` FROM memories WHERE archived = 0 AND tags LIKE '%' || ? || '%' ORDER BY last_accessed DESC LIMIT ?`,
		tag, limit,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

const selectMemoryColumns = `SELECT id, memory_type, content_json, summary, transaction_time, valid_time,
	valid_until, confidence, importance, last_accessed, access_count, linked_patterns,
	linked_constraints, linked_files, linked_functions, tags, archived, superseded_by,
	supersedes, content_hash, namespace, source_agent`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (*types.Memory, error) {
	var (
		m                                             types.Memory
		memType, contentJSON, namespace, sourceAgent  string
		validUntil                                    sql.NullTime
		patterns, constraints, files, functions, tags sql.NullString
		importance                                    int
	)
	err := row.Scan(
		&m.ID, &memType, &contentJSON, &m.Summary, &m.TransactionTime, &m.ValidTime,
		&validUntil, &m.Confidence, &importance, &m.LastAccessed, &m.AccessCount,
		&patterns, &constraints, &files, &functions, &tags, &m.Archived,
		&m.SupersededBy, &m.Supersedes, &m.ContentHash, &namespace, &sourceAgent,
	)
	if err != nil {
		return nil, err
	}

	m.MemoryType = types.MemoryType(memType)
	m.Importance = types.Importance(importance)
	m.Namespace = types.NamespaceID(namespace)
	m.SourceAgent = types.AgentID(sourceAgent)
	if validUntil.Valid {
		m.ValidUntil = &validUntil.Time
	}
	unmarshalJSON(patterns, &m.LinkedPatterns)
	unmarshalJSON(constraints, &m.LinkedConstraints)
	unmarshalJSON(files, &m.LinkedFiles)
	unmarshalJSON(functions, &m.LinkedFunctions)
	unmarshalJSON(tags, &m.Tags)

	content, err := types.DecodeContent(m.MemoryType, json.RawMessage(contentJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content for memory %s: %w", m.ID, err)
	}
	m.Content = content
	return &m, nil
}

func scanMemories(rows *sql.Rows) ([]*types.Memory, error) {
	var out []*types.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, types.NewStorage(err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func marshalJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func unmarshalJSON(ns sql.NullString, out any) {
	if !ns.Valid || ns.String == "" {
		return
	}
	_ = json.Unmarshal([]byte(ns.String), out)
}

type eventDelta struct {
	eventType types.EventType
	delta     map[string]any
}

// diffMemory computes one event delta per changed field between old and new.
func diffMemory(old, new *types.Memory) []eventDelta {
	var deltas []eventDelta
	if old.ContentHash != new.ContentHash || old.Summary != new.Summary {
		deltas = append(deltas, eventDelta{types.EventContentUpdated, map[string]any{
			"old_content_hash": old.ContentHash, "new_content_hash": new.ContentHash,
		}})
	}
	if old.Confidence != new.Confidence {
		deltas = append(deltas, eventDelta{types.EventConfidenceChanged, map[string]any{
			"old": old.Confidence, "new": new.Confidence,
		}})
	}
	if old.Importance != new.Importance {
		deltas = append(deltas, eventDelta{types.EventImportanceChanged, map[string]any{
			"old": old.Importance, "new": new.Importance,
		}})
	}
	if !old.Archived && new.Archived {
		deltas = append(deltas, eventDelta{types.EventArchived, map[string]any{}})
	}
	if old.Archived && !new.Archived {
		deltas = append(deltas, eventDelta{types.EventRestored, map[string]any{}})
	}
	if old.SupersededBy == nil && new.SupersededBy != nil {
		deltas = append(deltas, eventDelta{types.EventSuperseded, map[string]any{"superseded_by": *new.SupersededBy}})
	}
	if !stringSliceEqual(old.Tags, new.Tags) {
		added, removed := diffStringSlices(old.Tags, new.Tags)
		for _, t := range added {
			deltas = append(deltas, eventDelta{types.EventTagAdded, map[string]any{"tag": t}})
		}
		for _, t := range removed {
			deltas = append(deltas, eventDelta{types.EventTagRemoved, map[string]any{"tag": t}})
		}
	}
	return deltas
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func diffStringSlices(old, new []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(old))
	for _, s := range old {
		oldSet[s] = true
	}
	newSet := make(map[string]bool, len(new))
	for _, s := range new {
		newSet[s] = true
		if !oldSet[s] {
			added = append(added, s)
		}
	}
	for _, s := range old {
		if !newSet[s] {
			removed = append(removed, s)
		}
	}
	return
}
