package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestTFIDFEngineIsDeterministic(t *testing.T) {
	e := NewTFIDFEngine(0)
	ctx := context.Background()
	v1, err := e.Embed(ctx, "database connection pool exhaustion")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	v2, err := e.Embed(ctx, "database connection pool exhaustion")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v1) != len(v2) {
		t.Fatalf("expected matching lengths, got %d vs %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("expected identical vectors at index %d: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestTFIDFEngineDimensionsMatchesConfig(t *testing.T) {
	e := NewTFIDFEngine(64)
	v, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(v))
	}
	if e.Dimensions() != 64 {
		t.Fatalf("expected Dimensions() 64, got %d", e.Dimensions())
	}
}

func TestTFIDFEngineEmptyTextReturnsZeroVector(t *testing.T) {
	e := NewTFIDFEngine(16)
	v, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for _, f := range v {
		if f != 0 {
			t.Fatalf("expected all-zero vector for empty text, got %v", v)
		}
	}
}

func TestTFIDFEngineDistinctTextsDiffer(t *testing.T) {
	e := NewTFIDFEngine(128)
	ctx := context.Background()
	v1, _ := e.Embed(ctx, "storage engine writer lock contention")
	v2, _ := e.Embed(ctx, "retrieval ranking reciprocal rank fusion")
	same := true
	for i := range v1 {
		if v1[i] != v2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected distinct texts to produce distinct vectors")
	}
}

type failingEngine struct {
	dims int
}

func (f *failingEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("primary down")
}
func (f *failingEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("primary down")
}
func (f *failingEngine) Dimensions() int { return f.dims }
func (f *failingEngine) Name() string    { return "failing-primary" }

func TestFallbackEngineFallsBackOnPrimaryError(t *testing.T) {
	fe := NewFallbackEngine(&failingEngine{dims: 32})
	v, err := fe.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("expected fallback to succeed, got error: %v", err)
	}
	if len(v) != 32 {
		t.Fatalf("expected fallback dimensions to match primary's declared dims, got %d", len(v))
	}
}

type healthCheckingEngine struct {
	failingEngine
	healthy bool
}

func (h *healthCheckingEngine) HealthCheck(ctx context.Context) error {
	if h.healthy {
		return nil
	}
	return errors.New("unreachable")
}

func TestFallbackEngineChecksHealthBeforeCalling(t *testing.T) {
	fe := NewFallbackEngine(&healthCheckingEngine{failingEngine: failingEngine{dims: 16}, healthy: false})
	v, err := fe.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("expected fallback to succeed: %v", err)
	}
	if len(v) != 16 {
		t.Fatalf("expected 16 dims, got %d", len(v))
	}
}

func TestFallbackEngineNotifiesOnDegradedHook(t *testing.T) {
	fe := NewFallbackEngine(&failingEngine{dims: 8})
	var gotComponent, gotFallback string
	calls := 0
	fe.OnDegraded(func(component, fallback string) {
		calls++
		gotComponent, gotFallback = component, fallback
	})

	if _, err := fe.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("expected fallback to succeed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the degraded hook to fire once, got %d", calls)
	}
	if gotComponent != "embedding" || gotFallback != "tfidf_fallback" {
		t.Fatalf("unexpected hook args: %s/%s", gotComponent, gotFallback)
	}
}

func TestFallbackEngineNoDegradedHookIsANoop(t *testing.T) {
	fe := NewFallbackEngine(&failingEngine{dims: 8})
	if _, err := fe.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("expected fallback to succeed without a hook registered: %v", err)
	}
}
