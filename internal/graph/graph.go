// Package graph is the in-memory causal/relationship graph: a directed graph
// over memory ids, rebuilt from storage on startup and kept in sync with it
// on every mutation. Node identity is the memory id itself, so indices never
// shift as other nodes are added or removed.
package graph

import (
	"sync"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

// node tracks just enough about a memory to label narrative text without a
// round trip to storage.
type node struct {
	id      string
	summary string
}

// Graph holds the causal and relationship subgraphs over the same node set.
// Reads and writes are guarded by mu, mirroring the teacher's
// query-under-RLock / mutate-under-Lock discipline.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*node

	causalOut map[string]map[string]*types.CausalEdge // source -> target -> edge
	causalIn  map[string]map[string]*types.CausalEdge  // target -> source -> edge

	relOut map[string]map[string]*types.RelationshipEdge
	relIn  map[string]map[string]*types.RelationshipEdge

	store *store.Store
}

// New builds an empty graph bound to s for persistence.
func New(s *store.Store) *Graph {
	return &Graph{
		nodes:     make(map[string]*node),
		causalOut: make(map[string]map[string]*types.CausalEdge),
		causalIn:  make(map[string]map[string]*types.CausalEdge),
		relOut:    make(map[string]map[string]*types.RelationshipEdge),
		relIn:     make(map[string]map[string]*types.RelationshipEdge),
		store:     s,
	}
}

// RebuildFromStorage loads every causal and relationship edge from s and
// reconstructs the in-memory graph, per the component design's "rebuilt from
// storage on start-up" requirement. Node summaries are filled in lazily by
// EnsureNode as callers pass them; a freshly rebuilt graph has empty
// summaries until that happens.
func (g *Graph) RebuildFromStorage() error {
	timer := logging.StartTimer(logging.CategoryGraph, "RebuildFromStorage")
	defer timer.Stop()

	causal, err := g.store.AllCausalEdges()
	if err != nil {
		return err
	}
	rel, err := g.store.AllRelationshipEdges()
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range causal {
		g.ensureNodeLocked(e.SourceID)
		g.ensureNodeLocked(e.TargetID)
		g.indexCausalLocked(e)
	}
	for _, e := range rel {
		g.ensureNodeLocked(e.SourceID)
		g.ensureNodeLocked(e.TargetID)
		g.indexRelationshipLocked(e)
	}

	logging.Graph("rebuilt graph from storage: %d causal edges, %d relationship edges", len(causal), len(rel))
	return nil
}

// EnsureNode registers a node's summary, creating it if absent.
func (g *Graph) EnsureNode(id, summary string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureNodeLocked(id)
	if summary != "" {
		g.nodes[id].summary = summary
	}
}

func (g *Graph) ensureNodeLocked(id string) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &node{id: id}
	}
}

func (g *Graph) indexCausalLocked(e *types.CausalEdge) {
	if g.causalOut[e.SourceID] == nil {
		g.causalOut[e.SourceID] = make(map[string]*types.CausalEdge)
	}
	g.causalOut[e.SourceID][e.TargetID] = e
	if g.causalIn[e.TargetID] == nil {
		g.causalIn[e.TargetID] = make(map[string]*types.CausalEdge)
	}
	g.causalIn[e.TargetID][e.SourceID] = e
}

func (g *Graph) indexRelationshipLocked(e *types.RelationshipEdge) {
	if g.relOut[e.SourceID] == nil {
		g.relOut[e.SourceID] = make(map[string]*types.RelationshipEdge)
	}
	g.relOut[e.SourceID][e.TargetID] = e
	if g.relIn[e.TargetID] == nil {
		g.relIn[e.TargetID] = make(map[string]*types.RelationshipEdge)
	}
	g.relIn[e.TargetID][e.SourceID] = e
}

// AddCausalEdge inserts or updates a causal edge. If the relation is part of
// the strictly-causal subset and the edge would close a cycle, it fails with
// a types.Error of kind ErrCausalCycle carrying the offending path and the
// edge is neither indexed nor persisted.
func (g *Graph) AddCausalEdge(e *types.CausalEdge) error {
	timer := logging.StartTimer(logging.CategoryGraph, "AddCausalEdge")
	defer timer.Stop()

	e.Clamp()

	g.mu.Lock()
	if e.Relation.StrictlyCausal() {
		if path, ok := g.findPathLocked(e.TargetID, e.SourceID, true); ok {
			g.mu.Unlock()
			// path runs target -> ... -> source; prepending source shows the
			// full cycle the new source -> target edge would close.
			cycle := append([]string{e.SourceID}, path...)
			logging.GraphWarn("rejected causal edge %s -[%s]-> %s: would close cycle %v", e.SourceID, e.Relation, e.TargetID, cycle)
			return types.NewCausalCycle(cycle)
		}
	}
	g.ensureNodeLocked(e.SourceID)
	g.ensureNodeLocked(e.TargetID)
	g.indexCausalLocked(e)
	g.mu.Unlock()

	if err := g.store.PutCausalEdge(e); err != nil {
		return err
	}
	logging.Graph("added causal edge %s -[%s]-> %s (strength=%.2f)", e.SourceID, e.Relation, e.TargetID, e.Strength)
	return nil
}

// AddRelationshipEdge inserts or updates a non-causal relationship edge.
// Relationship edges never participate in cycle checking.
func (g *Graph) AddRelationshipEdge(e *types.RelationshipEdge) error {
	e.Clamp()

	g.mu.Lock()
	g.ensureNodeLocked(e.SourceID)
	g.ensureNodeLocked(e.TargetID)
	g.indexRelationshipLocked(e)
	g.mu.Unlock()

	return g.store.PutRelationshipEdge(e)
}

// findPathLocked runs BFS from start to target over the strictly-causal
// subgraph only (when strictOnly is true) and returns the full path of node
// ids, start and target included, if found. Caller must hold mu.
func (g *Graph) findPathLocked(start, target string, strictOnly bool) ([]string, bool) {
	if start == target {
		return []string{start}, true
	}
	cameFrom := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			var path []string
			for n := cur; n != ""; n = cameFrom[n] {
				path = append([]string{n}, path...)
				if n == start {
					break
				}
			}
			return path, true
		}
		for next, edge := range g.causalOut[cur] {
			if strictOnly && !edge.Relation.StrictlyCausal() {
				continue
			}
			if _, visited := cameFrom[next]; visited {
				continue
			}
			cameFrom[next] = cur
			queue = append(queue, next)
		}
	}
	return nil, false
}

// ShortestCausalPath finds the shortest strictly-causal path from source to
// target, used by chain-confidence scoring.
func (g *Graph) ShortestCausalPath(source, target string) ([]string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.findPathLocked(source, target, true)
}
