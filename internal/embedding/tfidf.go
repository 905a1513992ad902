package embedding

import (
	"context"
	"math"
	"strings"
)

// DefaultTFIDFDimensions is the fixed vector width the hashing trick below
// projects every term into. Fixed rather than vocabulary-sized: a real
// TF-IDF index would grow its vocabulary over the corpus, but the fallback
// needs to be usable standalone, one document at a time, with no shared
// state between calls.
const DefaultTFIDFDimensions = 256

// TFIDFEngine is the deterministic, dependency-free embedding fallback:
// when no real embedding provider is configured or reachable, every text
// still gets a stable vector, computed from term frequency and a
// hashed-feature projection rather than cosine-similarity-worthy semantic
// embeddings. It is stateless beyond its fixed dimension count, matching
// the concurrency model's note that the fallback needs no shared index.
type TFIDFEngine struct {
	dimensions int
}

// NewTFIDFEngine returns a fallback engine with the given vector width, or
// DefaultTFIDFDimensions if dims <= 0.
func NewTFIDFEngine(dims int) *TFIDFEngine {
	if dims <= 0 {
		dims = DefaultTFIDFDimensions
	}
	return &TFIDFEngine{dimensions: dims}
}

// Embed tokenizes text, scores each term by its frequency discounted by
// the inverse of its document length (a single-document stand-in for
// inverse-document-frequency, since this engine has no corpus to draw
// real IDF statistics from), and hashes each term into one of dimensions
// buckets. The result is L2-normalized so cosine similarity against other
// TF-IDF vectors behaves sanely.
func (e *TFIDFEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	terms := tokenize(text)
	vec := make([]float64, e.dimensions)
	if len(terms) == 0 {
		return toFloat32(vec), nil
	}

	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	docLen := float64(len(terms))

	for term, count := range counts {
		tf := float64(count) / docLen
		idf := math.Log(1 + 1/tf)
		weight := tf * idf
		bucket := hashTerm(term) % e.dimensions
		vec[bucket] += weight
	}

	normalize(vec)
	return toFloat32(vec), nil
}

// EmbedBatch embeds each text independently; there is no shared state to
// amortize across a batch.
func (e *TFIDFEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the fixed vector width.
func (e *TFIDFEngine) Dimensions() int { return e.dimensions }

// Name identifies this engine in logs and health reports.
func (e *TFIDFEngine) Name() string { return "tfidf-fallback" }

// HealthCheck always succeeds: the fallback has no external dependency to
// be unreachable.
func (e *TFIDFEngine) HealthCheck(ctx context.Context) error { return nil }

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func hashTerm(term string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(term); i++ {
		h ^= uint32(term[i])
		h *= 16777619
	}
	return int(h)
}

func normalize(vec []float64) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	if sumSquares == 0 {
		return
	}
	norm := math.Sqrt(sumSquares)
	for i := range vec {
		vec[i] /= norm
	}
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
