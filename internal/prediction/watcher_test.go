package prediction

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherInvalidatesCacheOnFileWrite(t *testing.T) {
	s := openTestStore(t)
	e := NewEngine(s)

	dir := t.TempDir()
	filePath := filepath.Join(dir, "watched.go")
	if err := os.WriteFile(filePath, []byte("package x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	now := time.Now()
	signals := AggregatedSignals{File: FileSignals{ActiveFile: filePath}}
	if _, err := e.Predict(signals, now); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	e.Cache().Insert(signals.CacheKey(), []Candidate{{MemoryID: "m1", Signals: []string{"linked_file:" + filePath}}}, now)
	if e.Cache().Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", e.Cache().Len())
	}

	w, err := NewWatcher(e)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounceDur = 10 * time.Millisecond
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	if err := os.WriteFile(filePath, []byte("package x // changed"), 0644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.Cache().Len() == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected cache entry to be invalidated after file write, got %d entries", e.Cache().Len())
}
