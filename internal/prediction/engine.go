package prediction

import (
	"time"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
)

// Engine coordinates all four prediction strategies against one store,
// merging and caching their output.
type Engine struct {
	store *store.Store
	cache *Cache
}

// NewEngine returns an engine sharing store — prediction must read from
// the same storage every other subsystem writes to, never a private copy.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, cache: NewCache()}
}

// Cache exposes the engine's prediction cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Predict runs all four strategies, merges and deduplicates their
// candidates, and caches the result under signals' cache key. A cache hit
// skips strategy execution entirely.
func (e *Engine) Predict(signals AggregatedSignals, now time.Time) ([]Candidate, error) {
	key := signals.CacheKey()
	if cached, ok := e.cache.Get(key, now); ok {
		logging.PredictionDebug("cache hit for %s", key)
		return cached, nil
	}

	var all []Candidate

	fileCandidates, err := FileBasedCandidates(e.store, signals.File)
	if err != nil {
		return nil, err
	}
	all = append(all, fileCandidates...)

	patternCandidates, err := PatternBasedCandidates(e.store, signals.File)
	if err != nil {
		return nil, err
	}
	all = append(all, patternCandidates...)

	temporalCandidates, err := TemporalCandidates(e.store, signals.Temporal, now)
	if err != nil {
		return nil, err
	}
	all = append(all, temporalCandidates...)

	behavioralCandidates, err := BehavioralCandidates(e.store, signals.Behavioral)
	if err != nil {
		return nil, err
	}
	all = append(all, behavioralCandidates...)

	deduped := Deduplicate(all)
	e.cache.Insert(key, deduped, now)
	logging.PredictionDebug("predicted %d candidates for %s", len(deduped), key)
	return deduped, nil
}

// OnFileChanged invalidates any cache entry derived from path — called by
// Watcher on every filesystem write, and available directly for callers
// without a live filesystem watcher.
func (e *Engine) OnFileChanged(path string) {
	e.cache.InvalidateFile(path)
}

// OnNewSession clears the entire cache — nothing about a previous
// session's working set should leak into a new one.
func (e *Engine) OnNewSession() {
	e.cache.InvalidateAll()
}
