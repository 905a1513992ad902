package store

import (
	"database/sql"
	"os"

	"github.com/cortexmemory/cortex/internal/types"
)

// Stats summarizes the store's content for health reporting: how many
// memories exist, how many of those are archived, the mean confidence
// across live memories, and the on-disk database size.
type Stats struct {
	TotalMemories     int
	ActiveMemories    int
	ArchivedMemories  int
	AverageConfidence float64
	DBSizeBytes       int64
	EmbeddedMemories  int
}

// Stats computes a point-in-time summary of the store's contents.
func (s *Store) Stats() (Stats, error) {
	var total int
	var active, archived sql.NullInt64
	var avgConfidence sql.NullFloat64

	row := s.reader.QueryRow(`
		SELECT
			COUNT(*),
			SUM(CASE WHEN archived = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN archived = 1 THEN 1 ELSE 0 END),
			AVG(CASE WHEN archived = 0 THEN confidence ELSE NULL END)
		FROM memories`)
	if err := row.Scan(&total, &active, &archived, &avgConfidence); err != nil {
		return Stats{}, types.NewStorage(err)
	}

	st := Stats{
		TotalMemories:    total,
		ActiveMemories:   int(active.Int64),
		ArchivedMemories: int(archived.Int64),
	}
	if avgConfidence.Valid {
		st.AverageConfidence = avgConfidence.Float64
	}
	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	var embedded int
	if err := s.reader.QueryRow(`SELECT COUNT(*) FROM memory_embedding_links`).Scan(&embedded); err != nil {
		return Stats{}, types.NewStorage(err)
	}
	st.EmbeddedMemories = embedded

	return st, nil
}
