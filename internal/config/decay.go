package config

import "github.com/cortexmemory/cortex/internal/decay"

// DecayConfig controls confidence decay and archival thresholds.
type DecayConfig struct {
	// ArchivalThreshold is the decayed-confidence floor below which a
	// memory is recommended for archival.
	ArchivalThreshold float64 `yaml:"archival_threshold"`

	// ArchivalInactivityDays is how long since last access a memory must
	// sit idle before low confidence alone triggers archival.
	ArchivalInactivityDays int `yaml:"archival_inactivity_days"`
}

// DefaultDecayConfig mirrors decay.New()'s built-in defaults.
func DefaultDecayConfig() DecayConfig {
	e := decay.New()
	return DecayConfig{
		ArchivalThreshold:      e.ArchivalThreshold,
		ArchivalInactivityDays: e.ArchivalInactivityDays,
	}
}

// ToDecayEngine builds a decay.Engine from this configuration.
func (c DecayConfig) ToDecayEngine() *decay.Engine {
	e := decay.New()
	if c.ArchivalThreshold > 0 {
		e.ArchivalThreshold = c.ArchivalThreshold
	}
	if c.ArchivalInactivityDays > 0 {
		e.ArchivalInactivityDays = c.ArchivalInactivityDays
	}
	return e
}
