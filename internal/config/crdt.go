package config

import (
	"github.com/cortexmemory/cortex/internal/crdt"
	"github.com/cortexmemory/cortex/internal/store"
)

// CRDTConfig controls multi-agent sync: this agent's identity, how the
// outbound delta queue backpressures, and how fast trust drifts back
// toward neutral during inactivity.
type CRDTConfig struct {
	// AgentID identifies this node in vector clocks, LWW registers, and
	// the delta queue. Must be stable across restarts for a given agent.
	AgentID string `yaml:"agent_id"`

	// SyncIntervalSeconds is how often the runtime flushes the outbound
	// delta queue to peers. Zero disables automatic sync.
	SyncIntervalSeconds int `yaml:"sync_interval_seconds"`

	// MaxPendingDeltasPerPeer bounds the durable outbound queue per peer
	// before EnqueueDelta starts rejecting with ErrSyncFailed.
	MaxPendingDeltasPerPeer int `yaml:"max_pending_deltas_per_peer"`

	// MaxDeltasPerAgentPerDay bounds how many deltas a single source agent
	// may publish across all peers in a day, before Publish starts
	// rejecting with ErrQuotaExceeded. Zero means unbounded.
	MaxDeltasPerAgentPerDay int `yaml:"max_deltas_per_agent_per_day"`

	// TrustDriftPerDay is how far a peer's trust score drifts back toward
	// 0.5 per day of inactivity.
	TrustDriftPerDay float64 `yaml:"trust_drift_per_day"`
}

// DefaultCRDTConfig returns the sync defaults used when no config file
// overrides them. AgentID is left blank; callers must assign one before
// first sync (an empty agent id would collide with every other unconfigured
// node).
func DefaultCRDTConfig() CRDTConfig {
	return CRDTConfig{
		SyncIntervalSeconds:     30,
		MaxPendingDeltasPerPeer: 1000,
		MaxDeltasPerAgentPerDay: 5000,
		TrustDriftPerDay:        crdt.DefaultTrustDriftPerDay,
	}
}

// ToDeltaQueueLimits adapts this section to the store package's queue
// backpressure knobs.
func (c CRDTConfig) ToDeltaQueueLimits() store.DeltaQueueLimits {
	return store.DeltaQueueLimits{
		MaxPending:               c.MaxPendingDeltasPerPeer,
		MaxPendingPerAgentPerDay: c.MaxDeltasPerAgentPerDay,
	}
}

// ToTrustTracker builds a crdt.TrustTracker using this section's drift rate.
func (c CRDTConfig) ToTrustTracker() *crdt.TrustTracker {
	return crdt.NewTrustTracker(c.TrustDriftPerDay)
}
