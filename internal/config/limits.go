package config

// RuntimeLimits bounds system-wide resource usage that doesn't belong to
// any one subsystem's own config section.
type RuntimeLimits struct {
	// DefaultRetrievalBudgetTokens is the token budget passed to
	// retrieval.Engine.Retrieve when a caller doesn't specify one.
	DefaultRetrievalBudgetTokens int `yaml:"default_retrieval_budget_tokens"`

	// MaxConcurrentConsolidations caps how many consolidation passes the
	// runtime will run at once; the pipeline holds the writer lock for its
	// duration, so more than one rarely helps and risks starving writers.
	MaxConcurrentConsolidations int `yaml:"max_concurrent_consolidations"`

	// MaxSyncPeers caps how many peer agents one runtime will sync deltas
	// with concurrently.
	MaxSyncPeers int `yaml:"max_sync_peers"`
}

// DefaultRuntimeLimits returns conservative single-node defaults.
func DefaultRuntimeLimits() RuntimeLimits {
	return RuntimeLimits{
		DefaultRetrievalBudgetTokens: 8000,
		MaxConcurrentConsolidations:  1,
		MaxSyncPeers:                 8,
	}
}
