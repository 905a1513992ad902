package embedding

import (
	"context"

	"github.com/cortexmemory/cortex/internal/logging"
)

// FallbackEngine wraps a primary embedding provider with the TF-IDF
// fallback: every call tries primary first, and on error (or when a
// HealthChecker-implementing primary reports itself unavailable) falls
// back to the deterministic TF-IDF engine rather than failing the write
// outright. The fallback is built with primary's Dimensions(), so vectors
// from either provider have the same width.
type FallbackEngine struct {
	primary  EmbeddingEngine
	fallback *TFIDFEngine

	// onDegraded, if set, is called every time a request actually falls
	// through to TF-IDF (not just when a HealthCheck fails) — this is the
	// real trigger site for degraded-mode reporting, since HealthCheck
	// itself always reports healthy on a FallbackEngine.
	onDegraded func(component, fallback string)
}

// NewFallbackEngine wraps primary with a TF-IDF fallback sized to match
// primary's own dimensionality — keeping both providers usable against
// the same embedding comparisons if primary later recovers.
func NewFallbackEngine(primary EmbeddingEngine) *FallbackEngine {
	return &FallbackEngine{primary: primary, fallback: NewTFIDFEngine(primary.Dimensions())}
}

// OnDegraded registers a hook invoked every time this engine falls through
// to TF-IDF. Intended for Runtime to wire into its DegradationTracker.
func (e *FallbackEngine) OnDegraded(hook func(component, fallback string)) {
	e.onDegraded = hook
}

func (e *FallbackEngine) notifyDegraded() {
	if e.onDegraded != nil {
		e.onDegraded("embedding", "tfidf_fallback")
	}
}

func (e *FallbackEngine) available(ctx context.Context) bool {
	hc, ok := e.primary.(HealthChecker)
	if !ok {
		return true
	}
	return hc.HealthCheck(ctx) == nil
}

// Embed tries primary, falling back to TF-IDF on unavailability or error.
func (e *FallbackEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.available(ctx) {
		v, err := e.primary.Embed(ctx, text)
		if err == nil {
			return v, nil
		}
		logging.EmbeddingWarn("primary embedding provider failed, falling back to tfidf: %v", err)
	} else {
		logging.EmbeddingWarn("primary embedding provider unavailable, falling back to tfidf")
	}
	e.notifyDegraded()
	return e.fallback.Embed(ctx, text)
}

// EmbedBatch tries primary for the whole batch, falling back to TF-IDF
// for the whole batch on failure. Partial primary/fallback mixes within
// one batch would make the result set dimensionally inconsistent, so the
// decision is made once per call, not per text.
func (e *FallbackEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.available(ctx) {
		v, err := e.primary.EmbedBatch(ctx, texts)
		if err == nil {
			return v, nil
		}
		logging.EmbeddingWarn("primary embedding provider batch failed, falling back to tfidf: %v", err)
	} else {
		logging.EmbeddingWarn("primary embedding provider unavailable, falling back to tfidf for batch")
	}
	e.notifyDegraded()
	return e.fallback.EmbedBatch(ctx, texts)
}

// Dimensions reports primary's dimensionality, since that's what storage
// is keyed against during normal operation.
func (e *FallbackEngine) Dimensions() int { return e.primary.Dimensions() }

// Name reports the wrapped primary's name with a "+tfidf_fallback" suffix.
func (e *FallbackEngine) Name() string { return e.primary.Name() + "+tfidf_fallback" }

// HealthCheck always succeeds: a FallbackEngine can always produce a
// vector, one way or another.
func (e *FallbackEngine) HealthCheck(ctx context.Context) error { return nil }
