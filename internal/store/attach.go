package store

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// aliasPattern restricts ATTACH aliases to alphanumerics and underscore, per
// the ATTACH protocol: a sanitized alias is the only thing ever interpolated
// into SQL text (bind parameters can't stand in for identifiers).
var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// WithAttached opens a scoped, read-only ATTACH of dbPath under alias,
// invokes fn with a handle to run SELECTs qualified by that alias, and
// detaches on every exit path including panics propagated through fn.
func (s *Store) WithAttached(dbPath, alias string, fn func(tx *sql.Tx) error) error {
	if !aliasPattern.MatchString(alias) {
		return types.NewValidation(fmt.Sprintf("invalid attach alias %q: must be alphanumeric/underscore", alias))
	}

	timer := logging.StartTimer(logging.CategoryStore, "WithAttached")
	defer timer.Stop()

	tx, err := s.reader.Begin()
	if err != nil {
		return types.NewStorage(err)
	}
	defer func() {
		_, _ = tx.Exec(fmt.Sprintf("DETACH DATABASE %s", alias))
		tx.Rollback()
	}()

	if _, err := tx.Exec(fmt.Sprintf("ATTACH DATABASE ? AS %s", alias), dbPath); err != nil {
		return types.NewStorage(fmt.Errorf("failed to attach %s: %w", dbPath, err))
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA %s.query_only = ON", alias)); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to set query_only on attached db %s: %v", alias, err)
	}

	return fn(tx)
}
