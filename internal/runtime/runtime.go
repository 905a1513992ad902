// Package runtime centralizes initialization of every cortex subsystem
// behind one object: no subsystem is a process-wide singleton, so a caller
// (the CLI, a test, an embedding host process) builds exactly one Runtime
// and passes it around by reference, matching the engine's "centralize
// initialization through a Runtime object" design note.
package runtime

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"time"

	"lukechampine.com/blake3"

	"github.com/cortexmemory/cortex/internal/config"
	"github.com/cortexmemory/cortex/internal/consolidation"
	"github.com/cortexmemory/cortex/internal/crdt"
	"github.com/cortexmemory/cortex/internal/decay"
	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/graph"
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/prediction"
	"github.com/cortexmemory/cortex/internal/retrieval"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/temporal"
	"github.com/cortexmemory/cortex/internal/types"
	"github.com/cortexmemory/cortex/internal/validation"
)

// Runtime owns every subsystem over one storage backend. It is not a
// singleton: tests and multi-agent hosts each build their own.
type Runtime struct {
	Config *config.Config

	Store         *store.Store
	Embedder      embedding.EmbeddingEngine
	Decay         *decay.Engine
	Graph         *graph.Graph
	Temporal      *temporal.Engine
	Consolidation *consolidation.Pipeline
	Retrieval     *retrieval.Engine
	Validator     *validation.Validator
	Prediction    *prediction.Engine

	Sync      *crdt.SyncManager
	Trust     *crdt.TrustTracker
	Consensus *crdt.ConsensusDetector
	Delivery  *crdt.CausalDeliveryManager

	// Degradation tracks every fallback any subsystem has taken so far,
	// e.g. the embedding engine serving from TF-IDF instead of its primary
	// provider. HealthReport surfaces it; nothing else consumes it.
	Degradation *types.DegradationTracker
}

// New builds a Runtime from cfg: opens the store, wires an embedding
// engine, and constructs every subsystem over that one storage backend.
// Callers own the returned Runtime's lifetime and must call Close.
func New(cfg *config.Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timer := logging.StartTimer(logging.CategoryBoot, "runtime.New")
	defer timer.Stop()

	s, err := store.Open(cfg.Storage.ToStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	embedder, err := embedding.NewEngine(cfg.Embedding.ToEmbeddingConfig())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("build embedding engine: %w", err)
	}

	degradation := types.NewDegradationTracker()
	if fb, ok := embedder.(*embedding.FallbackEngine); ok {
		fb.OnDegraded(func(component, fallback string) {
			degradation.Record(component, fallback, time.Now())
		})
	}

	g := graph.New(s)
	if err := g.RebuildFromStorage(); err != nil {
		s.Close()
		return nil, fmt.Errorf("rebuild graph from storage: %w", err)
	}

	decayEngine := cfg.Decay.ToDecayEngine()

	rt := &Runtime{
		Config:        cfg,
		Store:         s,
		Embedder:      embedder,
		Decay:         decayEngine,
		Graph:         g,
		Temporal:      temporal.New(s),
		Consolidation: consolidation.New(s, embedder, g),
		Retrieval:     retrieval.New(s, embedder, cfg.Retrieval.ToRetrievalConfig()),
		Validator:     validation.NewValidator(decayEngine, OSFileChecker, NoRenameDetector),
		Prediction:    prediction.NewEngine(s),
		Sync:          crdt.NewSyncManager(s, cfg.CRDT.ToDeltaQueueLimits()),
		Trust:         cfg.CRDT.ToTrustTracker(),
		Consensus:     crdt.NewConsensusDetector(),
		Delivery:      crdt.NewCausalDeliveryManager(),
		Degradation:   degradation,
	}

	logging.Boot("runtime initialized: data_dir=%s db=%s embedder=%s agent_id=%s",
		cfg.DataDir, cfg.Storage.DatabasePath, embedder.Name(), cfg.CRDT.AgentID)

	return rt, nil
}

// Close releases the runtime's storage handle. Subsystems built over it
// (Graph, Retrieval, Consolidation, ...) hold no independent resources to
// release themselves.
func (rt *Runtime) Close() error {
	return rt.Store.Close()
}

// OSFileChecker is the default validation.FileChecker: it stats path on the
// local filesystem and, if present, hashes its contents with the same
// blake3 function memory content hashing uses, and counts its lines.
func OSFileChecker(path string) (validation.FileInfo, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.FileInfo{}, false
	}
	sum := blake3.Sum256(data)

	lines := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines++
	}

	return validation.FileInfo{
		ContentHash:    fmt.Sprintf("%x", sum),
		TotalLines:     lines,
		HasContentHash: true,
		HasTotalLines:  true,
	}, true
}

// NoRenameDetector is the default validation.RenameDetector: it never
// claims to know where a missing file went. Real rename tracking (e.g. via
// git log --follow) is left to a caller that wants to inject one.
func NoRenameDetector(path string) (string, bool) {
	return "", false
}
