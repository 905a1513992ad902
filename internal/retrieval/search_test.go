package retrieval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

func openSearchTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "search_test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestHybridSearcherFansOutAllThreeLists exercises the concurrent stage-1
// gathering path: keyword, vector, and entity-expansion all contribute to
// the fused result from a single Search call.
func TestHybridSearcherFansOutAllThreeLists(t *testing.T) {
	s := openSearchTestStore(t)
	now := time.Now()

	keywordHit := &types.Memory{
		ID:              "keyword-hit",
		MemoryType:      types.MemoryTypeInsight,
		Content:         types.InsightContent{Insight: "retry storms mask a flaky upstream"},
		Summary:         "retry storms mask a flaky upstream dependency",
		TransactionTime: now,
		ValidTime:       now,
		Confidence:      0.8,
		Importance:      types.ImportanceNormal,
		LastAccessed:    now,
		ContentHash:     "hash-keyword",
		Namespace:       types.DefaultNamespace,
		SourceAgent:     types.DefaultAgent,
	}
	require.NoError(t, s.Create(keywordHit))

	vectorHit := &types.Memory{
		ID:              "vector-hit",
		MemoryType:      types.MemoryTypeInsight,
		Content:         types.InsightContent{Insight: "connection pools exhaust under burst load"},
		Summary:         "pool exhaustion under bursty traffic",
		TransactionTime: now,
		ValidTime:       now,
		Confidence:      0.8,
		Importance:      types.ImportanceNormal,
		LastAccessed:    now,
		ContentHash:     "hash-vector",
		Namespace:       types.DefaultNamespace,
		SourceAgent:     types.DefaultAgent,
	}
	require.NoError(t, s.Create(vectorHit))

	embedder := embedding.NewTFIDFEngine(32)
	vec, err := embedder.Embed(context.Background(), vectorHit.Summary)
	require.NoError(t, err)
	require.NoError(t, s.PutEmbedding(vectorHit.ID, "hash-vector", vec))

	searcher := NewHybridSearcher(s, embedder, DefaultRRFK)
	candidates, err := searcher.Search(context.Background(), vectorHit.Summary, nil, 10)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	var sawVectorHit bool
	for _, c := range candidates {
		if c.Memory.ID == vectorHit.ID {
			sawVectorHit = true
		}
	}
	require.True(t, sawVectorHit, "expected vector-hit to surface via the vector-similarity list")
}

func TestHybridSearcherWithoutEmbedderSkipsVectorList(t *testing.T) {
	s := openSearchTestStore(t)
	searcher := NewHybridSearcher(s, nil, DefaultRRFK)

	candidates, err := searcher.Search(context.Background(), "anything", nil, 10)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestHybridSearcherPropagatesCanceledContext(t *testing.T) {
	s := openSearchTestStore(t)
	embedder := embedding.NewTFIDFEngine(32)
	searcher := NewHybridSearcher(s, embedder, DefaultRRFK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "query text", nil, 10)
	require.Error(t, err)
}
