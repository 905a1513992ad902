package store

import "fmt"

// migrate creates every table the storage contract needs. Tables are
// additive (CREATE TABLE IF NOT EXISTS) so reopening an existing database
// file is always safe.
func (s *Store) migrate() error {
	statements := []string{
		memoriesTable,
		memoryEventsTable,
		memorySnapshotsTable,
		memoryEmbeddingsTable,
		memoryEmbeddingLinksTable,
		memoryFTSTable,
		relationshipEdgesTable,
		causalEdgesTable,
		deltaQueueTable,
		provenanceHopsTable,
	}
	for _, stmt := range statements {
		if _, err := s.writer.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

const memoriesTable = `
CREATE TABLE IF NOT EXISTS memories (
	id TEXT PRIMARY KEY,
	memory_type TEXT NOT NULL,
	content_json TEXT NOT NULL,
	summary TEXT NOT NULL,
	transaction_time DATETIME NOT NULL,
	valid_time DATETIME NOT NULL,
	valid_until DATETIME,
	confidence REAL NOT NULL DEFAULT 1.0,
	importance INTEGER NOT NULL DEFAULT 1,
	last_accessed DATETIME,
	access_count INTEGER NOT NULL DEFAULT 0,
	linked_patterns TEXT,
	linked_constraints TEXT,
	linked_files TEXT,
	linked_functions TEXT,
	tags TEXT,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	superseded_by TEXT,
	supersedes TEXT,
	content_hash TEXT NOT NULL,
	namespace TEXT NOT NULL DEFAULT 'agent://default/',
	source_agent TEXT NOT NULL DEFAULT 'default',
	next_event_id INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(memory_type);
CREATE INDEX IF NOT EXISTS idx_memories_importance ON memories(importance);
CREATE INDEX IF NOT EXISTS idx_memories_archived ON memories(archived);
CREATE INDEX IF NOT EXISTS idx_memories_content_hash ON memories(content_hash);
CREATE INDEX IF NOT EXISTS idx_memories_namespace ON memories(namespace);
`

const memoryEventsTable = `
CREATE TABLE IF NOT EXISTS memory_events (
	memory_id TEXT NOT NULL,
	event_id INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	actor TEXT NOT NULL,
	delta_json TEXT NOT NULL,
	PRIMARY KEY (memory_id, event_id)
);
CREATE INDEX IF NOT EXISTS idx_events_memory ON memory_events(memory_id);
CREATE INDEX IF NOT EXISTS idx_events_recorded_at ON memory_events(recorded_at);
`

const memorySnapshotsTable = `
CREATE TABLE IF NOT EXISTS memory_snapshots (
	memory_id TEXT NOT NULL,
	event_id INTEGER NOT NULL,
	recorded_at DATETIME NOT NULL,
	reason TEXT NOT NULL,
	state_json TEXT NOT NULL,
	PRIMARY KEY (memory_id, event_id)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_memory ON memory_snapshots(memory_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_recorded_at ON memory_snapshots(memory_id, recorded_at);
`

// memory_embeddings is keyed by content_hash so memories with identical
// content share one row; memory_embedding_links maps memory ids onto that
// shared row, and is the join table the dedup/orphan-reclaim pass scans.
const memoryEmbeddingsTable = `
CREATE TABLE IF NOT EXISTS memory_embeddings (
	content_hash TEXT PRIMARY KEY,
	dimensions INTEGER NOT NULL,
	vector BLOB NOT NULL,
	created_at DATETIME NOT NULL
);
`

const memoryEmbeddingLinksTable = `
CREATE TABLE IF NOT EXISTS memory_embedding_links (
	memory_id TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_embedding_links_hash ON memory_embedding_links(content_hash);
`

const memoryFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS memory_fts USING fts5(
	memory_id UNINDEXED,
	summary,
	content,
	tokenize = 'porter unicode61'
);
`

const relationshipEdgesTable = `
CREATE TABLE IF NOT EXISTS relationship_edges (
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	relationship_type TEXT NOT NULL,
	strength REAL NOT NULL DEFAULT 1.0,
	evidence_json TEXT,
	PRIMARY KEY (source_id, target_id, relationship_type)
);
CREATE INDEX IF NOT EXISTS idx_rel_source ON relationship_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_rel_target ON relationship_edges(target_id);
`

const causalEdgesTable = `
CREATE TABLE IF NOT EXISTS causal_edges (
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	relation TEXT NOT NULL,
	strength REAL NOT NULL DEFAULT 1.0,
	evidence_json TEXT,
	inferred BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (source_id, target_id, relation)
);
CREATE INDEX IF NOT EXISTS idx_causal_source ON causal_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_causal_target ON causal_edges(target_id);
CREATE INDEX IF NOT EXISTS idx_causal_relation ON causal_edges(relation);
`

// delta_queue persists outbound CRDT sync deltas per peer agent so backpressure
// (SyncFailed when full) and crash recovery both read from durable state.
const deltaQueueTable = `
CREATE TABLE IF NOT EXISTS delta_queue (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	peer_agent TEXT NOT NULL,
	vector_clock_json TEXT NOT NULL,
	payload_json TEXT NOT NULL,
	enqueued_at DATETIME NOT NULL,
	delivered BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_delta_peer ON delta_queue(peer_agent, delivered);
`

const provenanceHopsTable = `
CREATE TABLE IF NOT EXISTS provenance_hops (
	memory_id TEXT NOT NULL,
	hop_index INTEGER NOT NULL,
	agent TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	PRIMARY KEY (memory_id, hop_index)
);
CREATE INDEX IF NOT EXISTS idx_provenance_memory ON provenance_hops(memory_id);
`
