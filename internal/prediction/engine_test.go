package prediction

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "prediction_test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeMemory(t *testing.T, id, file string, tags []string, lastAccessed time.Time) *types.Memory {
	t.Helper()
	content := types.TribalContent{Knowledge: "knowledge about " + file, Severity: "medium"}
	hash, err := types.ComputeContentHash(content)
	if err != nil {
		t.Fatalf("compute content hash: %v", err)
	}
	now := time.Now()
	var files []types.FileLink
	if file != "" {
		files = []types.FileLink{{Path: file}}
	}
	return &types.Memory{
		ID:              id,
		MemoryType:      types.MemoryTypeTribal,
		Content:         content,
		Summary:         "memory about " + file,
		TransactionTime: now,
		ValidTime:       now,
		Confidence:      0.9,
		Importance:      types.ImportanceNormal,
		LastAccessed:    lastAccessed,
		LinkedFiles:     files,
		Tags:            tags,
		ContentHash:     hash,
		Namespace:       types.DefaultNamespace,
		SourceAgent:     types.DefaultAgent,
	}
}

func TestFileBasedCandidatesFindsLinkedMemory(t *testing.T) {
	s := openTestStore(t)
	m := makeMemory(t, "m1", "internal/decay/engine.go", nil, time.Now())
	if err := s.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	cands, err := FileBasedCandidates(s, FileSignals{ActiveFile: "internal/decay/engine.go"})
	if err != nil {
		t.Fatalf("FileBasedCandidates: %v", err)
	}
	if len(cands) != 1 || cands[0].MemoryID != "m1" {
		t.Fatalf("expected m1, got %v", cands)
	}
}

func TestPatternBasedCandidatesMatchesInferredTag(t *testing.T) {
	s := openTestStore(t)
	m := makeMemory(t, "m1", "", []string{"decay"}, time.Now())
	if err := s.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	cands, err := PatternBasedCandidates(s, FileSignals{ActiveFile: "internal/decay/engine.go", Directory: "internal/decay"})
	if err != nil {
		t.Fatalf("PatternBasedCandidates: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate matching the decay tag")
	}
}

func TestTemporalCandidatesRanksMostRecentHighest(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	old := makeMemory(t, "old", "", nil, now.Add(-23*time.Hour))
	fresh := makeMemory(t, "fresh", "", nil, now)
	if err := s.Create(old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := s.Create(fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	cands, err := TemporalCandidates(s, TemporalSignals{}, now)
	if err != nil {
		t.Fatalf("TemporalCandidates: %v", err)
	}
	var freshConf, oldConf float64
	for _, c := range cands {
		switch c.MemoryID {
		case "fresh":
			freshConf = c.Confidence
		case "old":
			oldConf = c.Confidence
		}
	}
	if freshConf <= oldConf {
		t.Fatalf("expected fresher memory to score higher: fresh=%v old=%v", freshConf, oldConf)
	}
}

func TestBehavioralCandidatesIncludesFrequentIDs(t *testing.T) {
	s := openTestStore(t)
	cands, err := BehavioralCandidates(s, BehavioralSignals{FrequentMemoryIDs: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("BehavioralCandidates: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %v", cands)
	}
}

func TestDeduplicateMergesAndKeepsMaxConfidence(t *testing.T) {
	cands := []Candidate{
		{MemoryID: "m1", Confidence: 0.5, Strategy: "file_based", Signals: []string{"a"}},
		{MemoryID: "m1", Confidence: 0.9, Strategy: "temporal", Signals: []string{"b"}},
		{MemoryID: "m2", Confidence: 0.3, Strategy: "behavioral"},
	}
	out := Deduplicate(cands)
	if len(out) != 2 {
		t.Fatalf("expected 2 deduped candidates, got %d", len(out))
	}
	if out[0].MemoryID != "m1" || out[0].Confidence != 0.9 {
		t.Fatalf("expected m1 first with confidence 0.9, got %+v", out[0])
	}
	if len(out[0].Signals) != 2 {
		t.Fatalf("expected merged signals, got %v", out[0].Signals)
	}
}

func TestEnginePredictCachesResult(t *testing.T) {
	s := openTestStore(t)
	m := makeMemory(t, "m1", "internal/decay/engine.go", nil, time.Now())
	if err := s.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	e := NewEngine(s)
	now := time.Now()
	signals := AggregatedSignals{File: FileSignals{ActiveFile: "internal/decay/engine.go"}}

	first, err := e.Predict(signals, now)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if e.Cache().Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", e.Cache().Len())
	}

	second, err := e.Predict(signals, now.Add(time.Second))
	if err != nil {
		t.Fatalf("Predict (cached): %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("expected cached result to match, got %v vs %v", second, first)
	}
}

func TestEngineOnFileChangedInvalidatesRelevantEntry(t *testing.T) {
	s := openTestStore(t)
	m := makeMemory(t, "m1", "internal/decay/engine.go", nil, time.Now())
	if err := s.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	e := NewEngine(s)
	now := time.Now()
	signals := AggregatedSignals{File: FileSignals{ActiveFile: "internal/decay/engine.go"}}
	if _, err := e.Predict(signals, now); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if e.Cache().Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", e.Cache().Len())
	}

	e.OnFileChanged("internal/decay/engine.go")
	if e.Cache().Len() != 0 {
		t.Fatalf("expected cache entry to be invalidated, got %d entries", e.Cache().Len())
	}
}

func TestEngineOnNewSessionClearsCache(t *testing.T) {
	s := openTestStore(t)
	e := NewEngine(s)
	now := time.Now()
	if _, err := e.Predict(AggregatedSignals{File: FileSignals{ActiveFile: "a.go"}}, now); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if _, err := e.Predict(AggregatedSignals{File: FileSignals{ActiveFile: "b.go"}}, now); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if e.Cache().Len() != 2 {
		t.Fatalf("expected 2 cache entries, got %d", e.Cache().Len())
	}
	e.OnNewSession()
	if e.Cache().Len() != 0 {
		t.Fatalf("expected cache cleared, got %d entries", e.Cache().Len())
	}
}
