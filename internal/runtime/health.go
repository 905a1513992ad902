package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/cortexmemory/cortex/internal/decay"
	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/store"
	"github.com/cortexmemory/cortex/internal/types"
)

// HealthStatus is the overall or per-subsystem health verdict.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// SubsystemHealth reports one subsystem's status.
type SubsystemHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthMetrics summarizes the store's current contents.
type HealthMetrics struct {
	TotalMemories            int     `json:"total_memories"`
	ActiveMemories           int     `json:"active_memories"`
	ArchivedMemories         int     `json:"archived_memories"`
	AverageConfidence        float64 `json:"average_confidence"`
	DBSizeBytes              int64   `json:"db_size_bytes"`
	EmbeddingCoverage        float64 `json:"embedding_coverage"`
	MemoriesNeedingReview    int     `json:"memories_needing_review"`
	UnresolvedContradictions int     `json:"unresolved_contradictions"`
	StaleCount               int     `json:"stale_count"`
}

// Severity grades a Recommendation's urgency.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Recommendation is one actionable suggestion surfaced by HealthReport,
// e.g. "12 memories need validation" / "run validation sweep".
type Recommendation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// HealthReport is the engine-wide snapshot a CLI `status` command or an
// operator dashboard renders.
type HealthReport struct {
	OverallStatus   HealthStatus              `json:"overall_status"`
	Subsystems      []SubsystemHealth         `json:"subsystems"`
	Metrics         HealthMetrics             `json:"metrics"`
	Recommendations []Recommendation          `json:"recommendations"`
	DegradedModes   []types.DegradedModeEvent `json:"degraded_modes"`
}

// reviewSweepLimit bounds how many recently-accessed memories HealthReport
// runs the full validator over. A whole-store scan would make status
// checks scale with database size; recency is a reasonable proxy for "what
// an agent would actually notice is wrong right now".
const reviewSweepLimit = 200

// HealthReport checks every subsystem and summarizes memory quality.
// Subsystem checks are independent: a failing embedder degrades the report
// rather than failing it outright, since retrieval/storage can still serve
// callers through the TF-IDF fallback.
func (rt *Runtime) HealthReport(ctx context.Context) (*HealthReport, error) {
	timer := logging.StartTimer(logging.CategoryRuntime, "HealthReport")
	defer timer.Stop()

	stats, err := rt.Store.Stats()
	if err != nil {
		return nil, fmt.Errorf("collect store stats: %w", err)
	}

	subsystems := []SubsystemHealth{{Name: "store", Status: HealthHealthy}}
	subsystems = append(subsystems, rt.embedderHealth(ctx))

	needingReview, unresolved, stale, err := rt.reviewSweep(time.Now())
	if err != nil {
		return nil, fmt.Errorf("review sweep: %w", err)
	}

	metrics := HealthMetrics{
		TotalMemories:            stats.TotalMemories,
		ActiveMemories:           stats.ActiveMemories,
		ArchivedMemories:         stats.ArchivedMemories,
		AverageConfidence:        stats.AverageConfidence,
		DBSizeBytes:              stats.DBSizeBytes,
		EmbeddingCoverage:        embeddingCoverage(stats),
		MemoriesNeedingReview:    needingReview,
		UnresolvedContradictions: unresolved,
		StaleCount:               stale,
	}

	report := &HealthReport{
		OverallStatus:   overallStatus(subsystems),
		Subsystems:      subsystems,
		Metrics:         metrics,
		Recommendations: recommendations(metrics),
		DegradedModes:   rt.Degradation.Active(),
	}
	return report, nil
}

func (rt *Runtime) embedderHealth(ctx context.Context) SubsystemHealth {
	checker, ok := rt.Embedder.(interface{ HealthCheck(context.Context) error })
	if !ok {
		return SubsystemHealth{Name: "embedding", Status: HealthHealthy}
	}
	if err := checker.HealthCheck(ctx); err != nil {
		rt.Degradation.Record("embedding", "tfidf_fallback", time.Now())
		return SubsystemHealth{
			Name:    "embedding",
			Status:  HealthDegraded,
			Message: fmt.Sprintf("primary provider unreachable, serving from fallback: %v", err),
		}
	}
	return SubsystemHealth{Name: "embedding", Status: HealthHealthy}
}

func overallStatus(subsystems []SubsystemHealth) HealthStatus {
	status := HealthHealthy
	for _, s := range subsystems {
		switch s.Status {
		case HealthUnhealthy:
			return HealthUnhealthy
		case HealthDegraded:
			status = HealthDegraded
		}
	}
	return status
}

// reviewSweep runs the validator over the most recently accessed memories
// and counts how many would benefit from a review pass, how many
// contradictions it found, and how many the decay engine would archive.
func (rt *Runtime) reviewSweep(now time.Time) (needingReview, unresolvedContradictions, stale int, err error) {
	memories, err := rt.Store.RecentlyAccessed(reviewSweepLimit)
	if err != nil {
		return 0, 0, 0, err
	}

	ctx := decay.DefaultContext()
	ctx.Now = now

	for _, m := range memories {
		related, qerr := rt.Store.QueryByType(m.MemoryType)
		if qerr != nil {
			return 0, 0, 0, qerr
		}
		edges, eerr := rt.Store.CausalEdges(m.ID)
		if eerr != nil {
			return 0, 0, 0, eerr
		}

		decayed := rt.Decay.Calculate(m, ctx)
		report := rt.Validator.Validate(m, related, edges, nil, decayed, now)

		if report.OverallScore < 0.5 {
			needingReview++
		}
		unresolvedContradictions += len(report.Contradiction.Contradictions)
		if report.Temporal.ShouldArchive {
			stale++
		}
	}
	return needingReview, unresolvedContradictions, stale, nil
}

// embeddingCoverage has no analogue to a cache in this port (the fallback
// wrapper calls through every time rather than caching vectors), so it
// reports the fraction of active memories with a stored embedding instead —
// the closest available signal for "is semantic search actually working
// right now".
func embeddingCoverage(stats store.Stats) float64 {
	if stats.ActiveMemories == 0 {
		return 1
	}
	coverage := float64(stats.EmbeddedMemories) / float64(stats.ActiveMemories)
	if coverage > 1 {
		coverage = 1
	}
	return coverage
}

// recommendations turns raw metrics into actionable suggestions. Each rule
// escalates severity past a threshold rather than just reporting a count,
// so a handful of stale memories reads as informational while a backlog
// reads as something to act on.
func recommendations(m HealthMetrics) []Recommendation {
	var recs []Recommendation

	if m.MemoriesNeedingReview > 0 {
		sev := SeverityInfo
		if m.MemoriesNeedingReview > 10 {
			sev = SeverityWarning
		}
		recs = append(recs, Recommendation{
			Severity: sev,
			Message:  fmt.Sprintf("%d memories need validation", m.MemoriesNeedingReview),
			Action:   "run a validation sweep",
		})
	}

	if m.UnresolvedContradictions > 0 {
		sev := SeverityInfo
		if m.UnresolvedContradictions > 5 {
			sev = SeverityWarning
		}
		recs = append(recs, Recommendation{
			Severity: sev,
			Message:  fmt.Sprintf("%d contradictions unresolved", m.UnresolvedContradictions),
			Action:   "review and resolve contradictions",
		})
	}

	if m.StaleCount > 20 {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d stale memories detected", m.StaleCount),
			Action:   "run a consolidation pass to archive stale memories",
		})
	}

	if m.EmbeddingCoverage < 0.30 && m.ActiveMemories > 0 {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("embedding coverage is %.0f%%", m.EmbeddingCoverage*100),
			Action:   "backfill embeddings for uncovered memories",
		})
	}

	if m.AverageConfidence < 0.5 && m.TotalMemories > 0 {
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("average confidence is %.2f, below 0.50", m.AverageConfidence),
			Action:   "run consolidation to improve memory quality",
		})
	}

	return recs
}
