package config

import "github.com/cortexmemory/cortex/internal/retrieval"

// RetrievalConfig controls the two-stage hybrid retrieval pipeline: the
// RRF fusion constant, how many fused candidates survive to re-ranking,
// and the eight re-rank factor weights.
type RetrievalConfig struct {
	RRFK       int     `yaml:"rrf_k"`
	RerankTopK int     `yaml:"rerank_top_k"`
	Weights    Weights `yaml:"weights"`
}

// Weights mirrors retrieval.Weights with yaml tags for config decoding.
type Weights struct {
	SemanticSimilarity float64 `yaml:"semantic_similarity"`
	KeywordMatch       float64 `yaml:"keyword_match"`
	FileProximity      float64 `yaml:"file_proximity"`
	PatternAlignment   float64 `yaml:"pattern_alignment"`
	Recency            float64 `yaml:"recency"`
	Confidence         float64 `yaml:"confidence"`
	Importance         float64 `yaml:"importance"`
	IntentTypeMatch    float64 `yaml:"intent_type_match"`
}

// DefaultRetrievalConfig mirrors retrieval.DefaultConfig().
func DefaultRetrievalConfig() RetrievalConfig {
	rc := retrieval.DefaultConfig()
	return RetrievalConfig{
		RRFK:       rc.RRFK,
		RerankTopK: rc.RerankTopK,
		Weights:    fromEngineWeights(rc.Weights),
	}
}

// ToRetrievalConfig adapts this section to the retrieval package's own
// Config, ready to pass to retrieval.New.
func (c RetrievalConfig) ToRetrievalConfig() retrieval.Config {
	return retrieval.Config{
		RRFK:       c.RRFK,
		RerankTopK: c.RerankTopK,
		Weights:    c.Weights.toEngineWeights(),
	}
}

func fromEngineWeights(w retrieval.Weights) Weights {
	return Weights{
		SemanticSimilarity: w.SemanticSimilarity,
		KeywordMatch:       w.KeywordMatch,
		FileProximity:      w.FileProximity,
		PatternAlignment:   w.PatternAlignment,
		Recency:            w.Recency,
		Confidence:         w.Confidence,
		Importance:         w.Importance,
		IntentTypeMatch:    w.IntentTypeMatch,
	}
}

func (w Weights) toEngineWeights() retrieval.Weights {
	return retrieval.Weights{
		SemanticSimilarity: w.SemanticSimilarity,
		KeywordMatch:       w.KeywordMatch,
		FileProximity:      w.FileProximity,
		PatternAlignment:   w.PatternAlignment,
		Recency:            w.Recency,
		Confidence:         w.Confidence,
		Importance:         w.Importance,
		IntentTypeMatch:    w.IntentTypeMatch,
	}
}
