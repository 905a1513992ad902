package config

import "github.com/cortexmemory/cortex/internal/embedding"

// EmbeddingConfig selects and tunes the embedding backend. Field names
// mirror embedding.Config; this section exists separately so the rest of
// the YAML tree stays yaml-tagged without embedding reaching into another
// package's json tags.
type EmbeddingConfig struct {
	// Provider is "ollama", "genai", or "tfidf".
	Provider string `yaml:"provider"`

	// DisableFallback skips wrapping Provider with the TF-IDF fallback.
	DisableFallback bool `yaml:"disable_fallback"`

	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`

	GenAIAPIKey string `yaml:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model"`
	TaskType    string `yaml:"task_type"`

	TFIDFDimensions int `yaml:"tfidf_dimensions"`
}

// DefaultEmbeddingConfig mirrors embedding.DefaultConfig().
func DefaultEmbeddingConfig() EmbeddingConfig {
	ec := embedding.DefaultConfig()
	return EmbeddingConfig{
		Provider:       ec.Provider,
		OllamaEndpoint: ec.OllamaEndpoint,
		OllamaModel:    ec.OllamaModel,
		GenAIModel:     ec.GenAIModel,
		TaskType:       ec.TaskType,
	}
}

// ToEmbeddingConfig adapts this section to embedding.Config, ready to pass
// to embedding.NewEngine.
func (c EmbeddingConfig) ToEmbeddingConfig() embedding.Config {
	return embedding.Config{
		Provider:        c.Provider,
		DisableFallback: c.DisableFallback,
		OllamaEndpoint:  c.OllamaEndpoint,
		OllamaModel:     c.OllamaModel,
		GenAIAPIKey:     c.GenAIAPIKey,
		GenAIModel:      c.GenAIModel,
		TaskType:        c.TaskType,
		TFIDFDimensions: c.TFIDFDimensions,
	}
}
