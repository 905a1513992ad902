package runtime

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/store"
)

func statsFixture(active, embedded int) store.Stats {
	return store.Stats{ActiveMemories: active, EmbeddedMemories: embedded}
}

func TestEmbeddingCoverageNoActiveMemoriesIsFullCoverage(t *testing.T) {
	got := embeddingCoverage(statsFixture(0, 0))
	if got != 1 {
		t.Fatalf("expected 1.0 coverage with no active memories, got %v", got)
	}
}

func TestEmbeddingCoverageClampsToOne(t *testing.T) {
	got := embeddingCoverage(statsFixture(10, 50))
	if got != 1 {
		t.Fatalf("expected coverage clamped to 1.0, got %v", got)
	}
}

func TestEmbeddingCoveragePartial(t *testing.T) {
	got := embeddingCoverage(statsFixture(10, 4))
	if got != 0.4 {
		t.Fatalf("expected 0.4 coverage, got %v", got)
	}
}

func TestOverallStatusHealthyWhenAllHealthy(t *testing.T) {
	subs := []SubsystemHealth{{Name: "store", Status: HealthHealthy}, {Name: "embedding", Status: HealthHealthy}}
	if got := overallStatus(subs); got != HealthHealthy {
		t.Fatalf("expected healthy, got %v", got)
	}
}

func TestOverallStatusDegradedWhenOneDegraded(t *testing.T) {
	subs := []SubsystemHealth{{Name: "store", Status: HealthHealthy}, {Name: "embedding", Status: HealthDegraded}}
	if got := overallStatus(subs); got != HealthDegraded {
		t.Fatalf("expected degraded, got %v", got)
	}
}

func TestOverallStatusUnhealthyWins(t *testing.T) {
	subs := []SubsystemHealth{{Name: "store", Status: HealthUnhealthy}, {Name: "embedding", Status: HealthDegraded}}
	if got := overallStatus(subs); got != HealthUnhealthy {
		t.Fatalf("expected unhealthy to take priority, got %v", got)
	}
}

func TestRecommendationsEmptyForPristineMetrics(t *testing.T) {
	m := HealthMetrics{TotalMemories: 10, ActiveMemories: 10, AverageConfidence: 0.9, EmbeddingCoverage: 1.0}
	if recs := recommendations(m); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %v", recs)
	}
}

func TestRecommendationsEscalatesReviewBacklogSeverity(t *testing.T) {
	low := recommendations(HealthMetrics{MemoriesNeedingReview: 3})
	if len(low) != 1 || low[0].Severity != SeverityInfo {
		t.Fatalf("expected one info recommendation, got %v", low)
	}

	high := recommendations(HealthMetrics{MemoriesNeedingReview: 11})
	if len(high) != 1 || high[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning recommendation, got %v", high)
	}
}

func TestRecommendationsFlagsContradictionsByThreshold(t *testing.T) {
	low := recommendations(HealthMetrics{UnresolvedContradictions: 2})
	if len(low) != 1 || low[0].Severity != SeverityInfo {
		t.Fatalf("expected one info recommendation, got %v", low)
	}

	high := recommendations(HealthMetrics{UnresolvedContradictions: 6})
	if len(high) != 1 || high[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning recommendation, got %v", high)
	}
}

func TestRecommendationsFlagsStaleBacklog(t *testing.T) {
	recs := recommendations(HealthMetrics{StaleCount: 21})
	if len(recs) != 1 || recs[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning recommendation, got %v", recs)
	}
}

func TestRecommendationsFlagsLowEmbeddingCoverage(t *testing.T) {
	recs := recommendations(HealthMetrics{ActiveMemories: 10, EmbeddingCoverage: 0.1})
	if len(recs) != 1 || recs[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning recommendation, got %v", recs)
	}
}

func TestRecommendationsFlagsLowConfidenceAsCritical(t *testing.T) {
	recs := recommendations(HealthMetrics{TotalMemories: 5, AverageConfidence: 0.2})
	if len(recs) != 1 || recs[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical recommendation, got %v", recs)
	}
}

func TestRecommendationsSkipsLowConfidenceWithNoMemories(t *testing.T) {
	recs := recommendations(HealthMetrics{TotalMemories: 0, AverageConfidence: 0})
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations for an empty store, got %v", recs)
	}
}
