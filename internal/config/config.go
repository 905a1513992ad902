// Package config holds the cortex engine's YAML-tagged configuration tree:
// one section per subsystem, each with its own Default*Config constructor,
// plus a single Load that reads and unmarshals the whole tree, falling back
// to defaults on a missing file rather than failing.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all cortex engine configuration.
type Config struct {
	// DataDir is the root directory for the database file, logs, and any
	// other on-disk state. Subsystem paths default to locations under it.
	DataDir string `yaml:"data_dir"`

	Storage       StorageConfig       `yaml:"storage"`
	Decay         DecayConfig         `yaml:"decay"`
	Consolidation ConsolidationConfig `yaml:"consolidation"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	CRDT          CRDTConfig          `yaml:"crdt"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Logging       LoggingConfig       `yaml:"logging"`
	Limits        RuntimeLimits       `yaml:"limits"`
}

// DefaultConfig returns the out-of-the-box configuration: a local SQLite
// store under ./.cortex, Ollama embeddings, sync disabled until an agent id
// is assigned, and logging off.
func DefaultConfig() *Config {
	return &Config{
		DataDir:       ".cortex",
		Storage:       DefaultStorageConfig(),
		Decay:         DefaultDecayConfig(),
		Consolidation: DefaultConsolidationConfig(),
		Retrieval:     DefaultRetrievalConfig(),
		CRDT:          DefaultCRDTConfig(),
		Embedding:     DefaultEmbeddingConfig(),
		Logging:       DefaultLoggingConfig(),
		Limits:        DefaultRuntimeLimits(),
	}
}

// Load reads and unmarshals a YAML config file at path, applying it over
// the defaults. A missing file is not an error — Load returns the defaults,
// matching the teacher's permissive config loading, since a fresh workspace
// shouldn't need a config file to run at all.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML to path, and mirrors the logging section
// to <data_dir>/config.json in the shape internal/logging bootstraps
// itself from (that package can't import this one without a cycle, so it
// reads its own settings directly off disk).
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return c.writeLoggingBootstrap()
}

// writeLoggingBootstrap persists the subset of config internal/logging
// reads on its own: <data_dir>/config.json with a top-level "logging" key.
func (c *Config) writeLoggingBootstrap() error {
	bootstrapPath := filepath.Join(c.DataDir, "config.json")
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	payload := struct {
		Logging LoggingConfig `json:"logging"`
	}{Logging: c.Logging}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal logging bootstrap: %w", err)
	}
	return os.WriteFile(bootstrapPath, data, 0644)
}

// applyEnvOverrides layers environment variables over whatever Load parsed
// from disk, matching the teacher's priority order of file-then-env.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CORTEX_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CORTEX_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("CORTEX_AGENT_ID"); v != "" {
		c.CRDT.AgentID = v
	}
	if v := os.Getenv("GENAI_API_KEY"); v != "" {
		c.Embedding.GenAIAPIKey = v
		if c.Embedding.Provider == "" || c.Embedding.Provider == "ollama" {
			c.Embedding.Provider = "genai"
		}
	}
	if v := os.Getenv("OLLAMA_ENDPOINT"); v != "" {
		c.Embedding.OllamaEndpoint = v
	}
	if v := os.Getenv("OLLAMA_EMBEDDING_MODEL"); v != "" {
		c.Embedding.OllamaModel = v
	}
	if v := os.Getenv("CORTEX_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// Validate checks the configuration for values that would make the engine
// misbehave rather than simply fail fast at startup.
func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path must not be empty")
	}
	if c.Decay.ArchivalThreshold < 0 || c.Decay.ArchivalThreshold > 1 {
		return fmt.Errorf("decay.archival_threshold must be in [0,1]")
	}
	if c.Retrieval.RRFK <= 0 {
		return fmt.Errorf("retrieval.rrf_k must be > 0")
	}
	switch c.Embedding.Provider {
	case "ollama", "genai", "tfidf":
	default:
		return fmt.Errorf("invalid embedding provider: %s (valid: ollama, genai, tfidf)", c.Embedding.Provider)
	}
	return nil
}

// LogsDir returns where per-category log files live under DataDir,
// matching internal/logging's own layout.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}
