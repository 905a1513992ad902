// Package prediction caches likely-relevant memories given ambient signals
// about what an agent is currently doing — the active file, its imports,
// recent queries, and the current intent. Four independent strategies
// (file-based, pattern-based, temporal, behavioral) each propose
// candidates; the engine merges, deduplicates, and caches the result under
// a key combining the active file and its import count, invalidating on
// file change or session reset.
package prediction

import "strconv"

// FileSignals describes the file an agent is currently working in.
type FileSignals struct {
	ActiveFile string
	Imports    []string
	Symbols    []string
	Directory  string
}

// BehavioralSignals describes an agent's recent activity.
type BehavioralSignals struct {
	RecentQueries     []string
	RecentIntents     []string
	FrequentMemoryIDs []string
}

// TemporalSignals describes when prediction is being run, for
// time-of-day/recency-based strategies.
type TemporalSignals struct {
	RecentlyAccessedLimit int
}

// AggregatedSignals bundles every signal group the four strategies read
// from.
type AggregatedSignals struct {
	File       FileSignals
	Behavioral BehavioralSignals
	Temporal   TemporalSignals
}

// CacheKey builds the key AggregatedSignals predicts under: the active
// file and the import-set size. Behavioral and temporal signals (recent
// queries, intents) are not part of the key, so two predictions for the
// same file with the same number of imports share one cache entry.
func (s AggregatedSignals) CacheKey() string {
	file := s.File.ActiveFile
	if file == "" {
		file = "__no_active_file__"
	}
	return file + ":" + strconv.Itoa(len(s.File.Imports))
}
