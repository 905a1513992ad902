package store

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"math"
	"sort"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// encodeVector packs a float32 vector into the little-endian blob format
// sqlite-vec's vec0 tables and our brute-force fallback both read.
func encodeVector(v []float32) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(4 * len(v))
	for _, f := range v {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(f))
	}
	return buf.Bytes()
}

func decodeVector(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// PutEmbedding stores (or reuses, if content_hash already has a row) an
// embedding and links memoryID to it. Orphaned rows are reclaimed separately
// by ReclaimOrphanedEmbeddings.
func (s *Store) PutEmbedding(memoryID, contentHash string, vector []float32) error {
	timer := logging.StartTimer(logging.CategoryStore, "PutEmbedding")
	defer timer.Stop()

	blob := encodeVector(vector)
	return s.withSavepoint("put_embedding", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO memory_embeddings (content_hash, dimensions, vector, created_at)
			 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(content_hash) DO NOTHING`,
			contentHash, len(vector), blob,
		)
		if err != nil {
			return types.NewStorage(err)
		}
		_, err = tx.Exec(
			`INSERT INTO memory_embedding_links (memory_id, content_hash) VALUES (?, ?)
			 ON CONFLICT(memory_id) DO UPDATE SET content_hash = excluded.content_hash`,
			memoryID, contentHash,
		)
		if err != nil {
			return types.NewStorage(err)
		}
		return nil
	})
}

// SimilarityResult pairs a memory with its cosine similarity to the query.
type SimilarityResult struct {
	Memory     *types.Memory
	Similarity float64
}

// SearchVector returns the limit most similar memories to query by cosine
// similarity, descending. A zero-norm query returns no results. Embeddings
// whose dimensionality does not match query are skipped without being
// deserialized into a full vector.
func (s *Store) SearchVector(query []float32, limit int) ([]SimilarityResult, error) {
	if vectorIsZero(query) {
		return nil, nil
	}

	rows, err := s.reader.Query(
		`SELECT l.memory_id, e.dimensions, e.vector
		 FROM memory_embedding_links l
		 JOIN memory_embeddings e ON e.content_hash = l.content_hash`,
	)
	if err != nil {
		return nil, types.NewStorage(err)
	}
	defer rows.Close()

	type scored struct {
		memoryID string
		sim      float64
	}
	var candidates []scored
	for rows.Next() {
		var (
			memoryID   string
			dimensions int
			blob       []byte
		)
		if err := rows.Scan(&memoryID, &dimensions, &blob); err != nil {
			return nil, types.NewStorage(err)
		}
		if dimensions != len(query) {
			continue // skipped without deserialization
		}
		vec := decodeVector(blob)
		sim := cosineSimilarity(query, vec)
		candidates = append(candidates, scored{memoryID, sim})
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorage(err)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].sim > candidates[j].sim })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]SimilarityResult, 0, len(candidates))
	for _, c := range candidates {
		m, err := s.Get(c.memoryID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		out = append(out, SimilarityResult{Memory: m, Similarity: c.sim})
	}
	return out, nil
}

func vectorIsZero(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}

// EmbeddingFor returns the embedding linked to memoryID, or nil if it has
// none.
func (s *Store) EmbeddingFor(memoryID string) ([]float32, error) {
	var blob []byte
	err := s.reader.QueryRow(
		`SELECT e.vector FROM memory_embedding_links l
		 JOIN memory_embeddings e ON e.content_hash = l.content_hash
		 WHERE l.memory_id = ?`, memoryID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewStorage(err)
	}
	return decodeVector(blob), nil
}

// ReclaimOrphanedEmbeddings deletes embedding rows with no linking memory,
// the compaction pass described in the storage contract's dedup section.
func (s *Store) ReclaimOrphanedEmbeddings() (int64, error) {
	var affected int64
	err := s.withSavepoint("reclaim_embeddings", func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			DELETE FROM memory_embeddings WHERE content_hash NOT IN (
				SELECT DISTINCT content_hash FROM memory_embedding_links
			)`)
		if err != nil {
			return types.NewStorage(err)
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}
