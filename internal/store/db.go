// Package store is the durable, transactional home for memories, events,
// snapshots, embeddings, and graph edges. It owns a single-writer serial
// *sql.DB (SetMaxOpenConns(1)) so mutations never race each other, while a
// separate pool of read-only connections lets queries run concurrently
// against the same WAL-mode database file.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/cortexmemory/cortex/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the durable home for memories, events, snapshots, embeddings,
// and graph edges described in the storage contract.
type Store struct {
	writer *sql.DB
	reader *sql.DB
	mu     sync.RWMutex
	path   string

	vectorExt  bool
	requireVec bool
}

// Config controls storage-layer knobs that are not hardcoded defaults.
type Config struct {
	Path             string
	RequireVecExt    bool
	BusyTimeoutMS    int
	SnapshotInterval uint64 // events between periodic snapshots, default 100
}

func (c Config) withDefaults() Config {
	if c.BusyTimeoutMS == 0 {
		c.BusyTimeoutMS = 5000
	}
	if c.SnapshotInterval == 0 {
		c.SnapshotInterval = 100
	}
	return c
}

// Open initializes (or reopens) the SQLite-backed store at cfg.Path.
func Open(cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()

	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	logging.Store("opening store at path: %s", cfg.Path)

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	writer, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open writer connection: %w", err)
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)

	reader, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to open reader pool: %w", err)
	}
	reader.SetMaxOpenConns(4)

	for _, db := range []*sql.DB{writer, reader} {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeoutMS)); err != nil {
			logging.StoreDebug("failed to set busy_timeout: %v", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			logging.StoreDebug("failed to set journal_mode=WAL: %v", err)
		}
		if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
			logging.StoreDebug("failed to set synchronous=NORMAL: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			logging.StoreDebug("failed to set foreign_keys=ON: %v", err)
		}
	}

	s := &Store{writer: writer, reader: reader, path: cfg.Path, requireVec: cfg.RequireVecExt}
	if err := s.migrate(); err != nil {
		writer.Close()
		reader.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.detectVecExtension()
	if s.requireVec && !s.vectorExt {
		writer.Close()
		reader.Close()
		return nil, fmt.Errorf("sqlite-vec extension not available; build with -tags sqlite_vec,cgo to enable ANN search")
	}
	if s.vectorExt {
		logging.Store("sqlite-vec extension detected, ANN search enabled")
	} else {
		logging.Get(logging.CategoryStore).Warn("sqlite-vec extension unavailable; falling back to brute-force cosine search")
	}

	logging.Store("store initialization complete")
	return s, nil
}

// Close releases both connection handles.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.Store("closing store")
	werr := s.writer.Close()
	rerr := s.reader.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// detectVecExtension probes for vec0 virtual-table support on the writer
// connection; the result also holds for the reader pool since both point at
// the same sqlite3 driver registration.
func (s *Store) detectVecExtension() {
	if _, err := s.writer.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS vec_probe USING vec0(embedding float[4])"); err == nil {
		s.vectorExt = true
		_, _ = s.writer.Exec("DROP TABLE IF EXISTS vec_probe")
		return
	}
	s.vectorExt = false
}

// withSavepoint runs fn inside a named savepoint on the writer connection,
// rolling back on any error so multi-statement mutations stay atomic.
func (s *Store) withSavepoint(name string, fn func(tx *sql.Tx) error) error {
	tx, err := s.writer.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec("SAVEPOINT " + name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if err := fn(tx); err != nil {
		if _, rbErr := tx.Exec("ROLLBACK TO SAVEPOINT " + name); rbErr != nil {
			logging.Get(logging.CategoryStore).Warn("rollback to savepoint %s failed: %v", name, rbErr)
		}
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec("RELEASE SAVEPOINT " + name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return tx.Commit()
}

// cosineSimilarity computes cosine similarity between two equal-length
// vectors; mismatched lengths or zero norms return 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
