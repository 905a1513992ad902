package retrieval

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

// HybridSearcher runs Stage 1 candidate gathering: three independent
// searches — keyword full-text, vector similarity, and entity expansion
// over the relationship/causal graph — fused into one ranked candidate set
// via Reciprocal Rank Fusion.
type HybridSearcher struct {
	store    *store.Store
	embedder embedding.EmbeddingEngine // optional; nil disables the vector list
	rrfK     int
}

// NewHybridSearcher builds a searcher over s. embedder may be nil, in which
// case the vector-similarity list is simply empty and fusion proceeds over
// keyword and entity-expansion results only.
func NewHybridSearcher(s *store.Store, embedder embedding.EmbeddingEngine, rrfK int) *HybridSearcher {
	if rrfK <= 0 {
		rrfK = DefaultRRFK
	}
	return &HybridSearcher{store: s, embedder: embedder, rrfK: rrfK}
}

// Search runs the three Stage 1 lists concurrently and fuses them.
// fetchLimit bounds how many results each individual list contributes
// before fusion. The lists hit independent read paths (FTS index, vector
// index, graph traversal) over the store's shared reader handle, so
// running them on one goroutine each overlaps their I/O instead of paying
// for it serially on every retrieval call.
func (h *HybridSearcher) Search(ctx context.Context, query string, activeFiles []string, fetchLimit int) ([]Candidate, error) {
	if fetchLimit <= 0 {
		fetchLimit = 50
	}

	var keywordList, entityList []*types.Memory
	var vectorList []*types.Memory

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		list, err := h.store.SearchFTS(query, fetchLimit)
		if err != nil {
			return err
		}
		logging.RetrievalDebug("stage1: keyword search returned %d", len(list))
		keywordList = list
		return nil
	})

	eg.Go(func() error {
		if h.embedder == nil || query == "" {
			return nil
		}
		select {
		case <-egCtx.Done():
			return egCtx.Err()
		default:
		}
		queryEmbedding, err := h.embedder.Embed(egCtx, query)
		if err != nil {
			logging.RetrievalWarn("stage1: embedding query failed, skipping vector list: %v", err)
			return nil
		}
		results, err := h.store.SearchVector(queryEmbedding, fetchLimit)
		if err != nil {
			return err
		}
		list := make([]*types.Memory, len(results))
		for i, r := range results {
			list[i] = r.Memory
		}
		logging.RetrievalDebug("stage1: vector search returned %d", len(list))
		vectorList = list
		return nil
	})

	eg.Go(func() error {
		list, err := h.expandFromActiveFiles(activeFiles, fetchLimit)
		if err != nil {
			return err
		}
		logging.RetrievalDebug("stage1: entity expansion returned %d", len(list))
		entityList = list
		return nil
	})

	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	candidates := FuseRRF([][]*types.Memory{keywordList, vectorList, entityList}, h.rrfK)
	logging.Retrieval("stage1: fused %d candidates from %d keyword + %d vector + %d entity hits",
		len(candidates), len(keywordList), len(vectorList), len(entityList))
	return candidates, nil
}

// expandFromActiveFiles finds memories linked to the active file set, then
// walks one hop of relationship and causal edges out from each to surface
// memories connected to what the agent is currently looking at.
func (h *HybridSearcher) expandFromActiveFiles(activeFiles []string, limit int) ([]*types.Memory, error) {
	if len(activeFiles) == 0 {
		return nil, nil
	}

	seeds, err := h.memoriesTouchingFiles(activeFiles, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(seeds))
	var expanded []*types.Memory
	for _, m := range seeds {
		seen[m.ID] = true
	}
	for _, m := range seeds {
		neighbors, err := h.neighborsOf(m.ID)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			expanded = append(expanded, n)
			if len(expanded) >= limit {
				return expanded, nil
			}
		}
	}
	return expanded, nil
}

func (h *HybridSearcher) memoriesTouchingFiles(activeFiles []string, limit int) ([]*types.Memory, error) {
	seen := make(map[string]bool)
	var out []*types.Memory
	for _, f := range activeFiles {
		hits, err := h.store.MemoriesLinkedToFile(f, limit)
		if err != nil {
			return nil, err
		}
		for _, m := range hits {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func (h *HybridSearcher) neighborsOf(memoryID string) ([]*types.Memory, error) {
	var neighbors []*types.Memory

	relEdges, err := h.store.RelationshipEdges(memoryID)
	if err != nil {
		return nil, err
	}
	for _, e := range relEdges {
		otherID := e.TargetID
		if otherID == memoryID {
			otherID = e.SourceID
		}
		m, err := h.store.Get(otherID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			neighbors = append(neighbors, m)
		}
	}

	causalEdges, err := h.store.CausalEdges(memoryID)
	if err != nil {
		return nil, err
	}
	for _, e := range causalEdges {
		otherID := e.TargetID
		if otherID == memoryID {
			otherID = e.SourceID
		}
		m, err := h.store.Get(otherID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			neighbors = append(neighbors, m)
		}
	}

	return neighbors, nil
}

