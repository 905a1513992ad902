package prediction

import (
	"strings"
	"time"

	"github.com/cortexmemory/cortex/internal/store"
)

// DefaultStrategyLimit bounds how many memories each strategy pulls from
// storage before scoring, keeping prediction work bounded the way
// retrieval's candidate truncation does.
const DefaultStrategyLimit = 20

// FileBasedCandidates proposes memories linked to the active file or any
// of its imports — the strongest possible signal, since these memories
// were explicitly attached to code the agent is touching right now.
func FileBasedCandidates(s *store.Store, signals FileSignals) ([]Candidate, error) {
	var out []Candidate
	paths := append([]string{signals.ActiveFile}, signals.Imports...)
	for _, p := range paths {
		if p == "" {
			continue
		}
		memories, err := s.MemoriesLinkedToFile(p, DefaultStrategyLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range memories {
			out = append(out, Candidate{
				MemoryID:   m.ID,
				Confidence: 0.9,
				Strategy:   "file_based",
				Signals:    []string{"linked_file:" + p},
			})
		}
	}
	return out, nil
}

// PatternBasedCandidates proposes memories tagged with a topic derived
// from the active file or directory name — a weaker signal than an
// explicit file link, since it's inferred from naming rather than stated
// provenance.
func PatternBasedCandidates(s *store.Store, signals FileSignals) ([]Candidate, error) {
	var out []Candidate
	for _, tag := range inferredTags(signals) {
		memories, err := s.QueryByTag(tag, DefaultStrategyLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range memories {
			out = append(out, Candidate{
				MemoryID:   m.ID,
				Confidence: 0.6,
				Strategy:   "pattern_based",
				Signals:    []string{"tag:" + tag},
			})
		}
	}
	return out, nil
}

// inferredTags derives candidate tags from a file's directory and base
// name: "internal/decay/engine.go" yields "decay" and "engine".
func inferredTags(signals FileSignals) []string {
	var tags []string
	if signals.Directory != "" {
		parts := strings.Split(signals.Directory, "/")
		if last := parts[len(parts)-1]; last != "" {
			tags = append(tags, last)
		}
	}
	if signals.ActiveFile != "" {
		base := signals.ActiveFile
		if idx := strings.LastIndex(base, "/"); idx >= 0 {
			base = base[idx+1:]
		}
		base = strings.TrimSuffix(base, ".go")
		if base != "" {
			tags = append(tags, base)
		}
	}
	return tags
}

// TemporalCandidates proposes the most recently accessed memories,
// scored by how recently they were touched — a memory from a minute ago
// is a much stronger signal than one from a week ago.
func TemporalCandidates(s *store.Store, signals TemporalSignals, now time.Time) ([]Candidate, error) {
	limit := signals.RecentlyAccessedLimit
	if limit <= 0 {
		limit = DefaultStrategyLimit
	}
	memories, err := s.RecentlyAccessed(limit)
	if err != nil {
		return nil, err
	}
	var out []Candidate
	for _, m := range memories {
		age := now.Sub(m.LastAccessed)
		confidence := recencyConfidence(age)
		out = append(out, Candidate{
			MemoryID:   m.ID,
			Confidence: confidence,
			Strategy:   "temporal",
			Signals:    []string{"recently_accessed"},
		})
	}
	return out, nil
}

// recencyConfidence decays linearly from 0.8 at "just now" to 0.1 at a
// day old, floored at 0.1 beyond that — recent activity is a fading but
// never entirely worthless signal.
func recencyConfidence(age time.Duration) float64 {
	const window = 24 * time.Hour
	if age <= 0 {
		return 0.8
	}
	if age >= window {
		return 0.1
	}
	frac := float64(age) / float64(window)
	return 0.8 - frac*0.7
}

// BehavioralCandidates proposes memories the agent has explicitly
// surfaced recently: ids already known to be frequently accessed, plus
// anything whose tags match words from recent queries or the current
// intent.
func BehavioralCandidates(s *store.Store, signals BehavioralSignals) ([]Candidate, error) {
	var out []Candidate
	for _, id := range signals.FrequentMemoryIDs {
		out = append(out, Candidate{
			MemoryID:   id,
			Confidence: 0.7,
			Strategy:   "behavioral",
			Signals:    []string{"frequent_memory_id"},
		})
	}

	words := make(map[string]bool)
	for _, q := range signals.RecentQueries {
		for _, w := range strings.Fields(strings.ToLower(q)) {
			if len(w) > 2 {
				words[w] = true
			}
		}
	}
	for _, intent := range signals.RecentIntents {
		for _, w := range strings.Fields(strings.ToLower(intent)) {
			if len(w) > 2 {
				words[w] = true
			}
		}
	}

	for w := range words {
		memories, err := s.QueryByTag(w, DefaultStrategyLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range memories {
			out = append(out, Candidate{
				MemoryID:   m.ID,
				Confidence: 0.5,
				Strategy:   "behavioral",
				Signals:    []string{"query_word:" + w},
			})
		}
	}
	return out, nil
}
