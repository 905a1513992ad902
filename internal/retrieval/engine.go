package retrieval

import (
	"context"
	"time"

	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

// RetrievalContext carries everything the engine needs to classify intent and bias
// scoring for a single retrieval call.
type RetrievalContext struct {
	// Focus is the free-text query or task description.
	Focus string
	// ActiveFiles are the files currently open/edited by the caller.
	ActiveFiles []string
	// SentIDs are memory ids already delivered in this session, excluded
	// from the result so a session doesn't see the same memory twice.
	SentIDs []string
}

// Config configures one Engine.
type Config struct {
	RRFK       int
	RerankTopK int
	Weights    Weights
}

// DefaultConfig returns the engine's out-of-the-box tuning.
func DefaultConfig() Config {
	return Config{
		RRFK:       DefaultRRFK,
		RerankTopK: 50,
		Weights:    DefaultWeights(),
	}
}

// Engine runs the full two-stage retrieval pipeline: hybrid candidate
// gathering fused via RRF, eight-factor re-ranking, dedup, and
// priority-weighted budget packing across compression levels.
type Engine struct {
	searcher  *HybridSearcher
	intent    *IntentEngine
	config    Config
	namespace *types.NamespaceID // optional: restrict results to one agent's namespace
}

// WithNamespaceFilter restricts retrieval to memories in namespace. Pass nil
// to search all namespaces (the default).
func (e *Engine) WithNamespaceFilter(namespace *types.NamespaceID) *Engine {
	e.namespace = namespace
	return e
}

// New builds an Engine over store s. embedder may be nil to disable the
// vector-similarity search list.
func New(s *store.Store, embedder embedding.EmbeddingEngine, config Config) *Engine {
	if config.RRFK <= 0 {
		config.RRFK = DefaultRRFK
	}
	if config.RerankTopK <= 0 {
		config.RerankTopK = 50
	}
	return &Engine{
		searcher: NewHybridSearcher(s, embedder, config.RRFK),
		intent:   NewIntentEngine(),
		config:   config,
	}
}

// Retrieve runs the full pipeline and returns the packed result within
// budget tokens. It honors ctx's deadline without returning an error: if
// the context is done during candidate gathering or before re-ranking, the
// result is empty; if it is done only after re-ranking, the scored
// candidates are still packed and returned.
func (e *Engine) Retrieve(ctx context.Context, rctx *RetrievalContext, budget int) ([]Packed, error) {
	timer := logging.StartTimer(logging.CategoryRetrieval, "Retrieve")
	defer timer.Stop()

	if rctx == nil {
		rctx = &RetrievalContext{}
	}

	intent := e.intent.Classify(rctx)
	logging.RetrievalDebug("classified intent=%s for focus=%q", intent, rctx.Focus)

	candidates, err := e.searcher.Search(ctx, rctx.Focus, rctx.ActiveFiles, e.config.RerankTopK*2)
	if err != nil {
		if ctx.Err() != nil {
			logging.RetrievalWarn("retrieve: deadline exceeded during stage 1, returning empty result")
			return nil, nil
		}
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sent := toSet(rctx.SentIDs)
	candidates = excludeSent(candidates, sent)
	if e.namespace != nil {
		candidates = filterNamespace(candidates, *e.namespace)
	}

	select {
	case <-ctx.Done():
		logging.RetrievalWarn("retrieve: deadline exceeded before stage 2, returning empty result")
		return nil, nil
	default:
	}

	scored := Score(candidates, intent, rctx.ActiveFiles, e.intent, e.config.Weights, time.Now())
	scored = DedupByID(scored)

	select {
	case <-ctx.Done():
		logging.RetrievalWarn("retrieve: deadline exceeded before budget packing, returning what was scored")
	default:
	}

	packed := PackToBudget(scored, budget)
	logging.Retrieval("retrieve: packed %d/%d candidates into budget=%d", len(packed), len(scored), budget)
	return packed, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func excludeSent(candidates []Candidate, sent map[string]bool) []Candidate {
	if len(sent) == 0 {
		return candidates
	}
	out := candidates[:0]
	for _, c := range candidates {
		if !sent[c.Memory.ID] {
			out = append(out, c)
		}
	}
	return out
}

func filterNamespace(candidates []Candidate, namespace types.NamespaceID) []Candidate {
	out := candidates[:0]
	for _, c := range candidates {
		if c.Memory.Namespace == namespace {
			out = append(out, c)
		}
	}
	return out
}
