package config

import "github.com/cortexmemory/cortex/internal/store"

// StorageConfig controls the SQLite-backed storage layer.
type StorageConfig struct {
	// DatabasePath is where the single-writer database file lives.
	DatabasePath string `yaml:"database_path"`

	// RequireVectorExt fails Store.Open if the sqlite-vec extension isn't
	// loadable, instead of silently degrading to brute-force cosine scans.
	RequireVectorExt bool `yaml:"require_vector_ext"`

	// BusyTimeoutMS bounds how long a reader waits on the writer's lock
	// before giving up.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`

	// SnapshotInterval is how many events accumulate before the temporal
	// reconstruction layer takes a new snapshot.
	SnapshotInterval uint64 `yaml:"snapshot_interval"`
}

// DefaultStorageConfig returns the storage defaults used when no config
// file overrides them.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DatabasePath:     ".cortex/cortex.db",
		RequireVectorExt: false,
		BusyTimeoutMS:    5000,
		SnapshotInterval: 100,
	}
}

// ToStoreConfig adapts this section to the store package's own Config.
func (c StorageConfig) ToStoreConfig() store.Config {
	return store.Config{
		Path:             c.DatabasePath,
		RequireVecExt:    c.RequireVectorExt,
		BusyTimeoutMS:    c.BusyTimeoutMS,
		SnapshotInterval: c.SnapshotInterval,
	}
}
