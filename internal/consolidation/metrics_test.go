package consolidation

import "testing"

func TestAssessQualityGoodMetricsPass(t *testing.T) {
	m := Metrics{Precision: 0.85, CompressionRatio: 4.0, Lift: 2.0, ContradictionRate: 0.01, Stability: 0.9}
	a := AssessQuality(m)
	if !a.OverallPass {
		t.Errorf("expected overall pass, issues: %v", a.Issues)
	}
	if len(a.Issues) != 0 {
		t.Errorf("expected no issues, got %v", a.Issues)
	}
}

func TestAssessQualityLowPrecisionFails(t *testing.T) {
	m := Metrics{Precision: 0.5, CompressionRatio: 4.0, Lift: 2.0, ContradictionRate: 0.01, Stability: 0.9}
	a := AssessQuality(m)
	if a.OverallPass || a.PrecisionOK {
		t.Error("expected precision failure")
	}
}

func TestAssessQualityLowCompressionFails(t *testing.T) {
	m := Metrics{Precision: 0.8, CompressionRatio: 1.5, Lift: 2.0, ContradictionRate: 0.01, Stability: 0.9}
	a := AssessQuality(m)
	if a.OverallPass || a.CompressionOK {
		t.Error("expected compression failure")
	}
}

func TestAssessQualityHighContradictionFails(t *testing.T) {
	m := Metrics{Precision: 0.8, CompressionRatio: 4.0, Lift: 2.0, ContradictionRate: 0.2, Stability: 0.9}
	a := AssessQuality(m)
	if a.OverallPass || a.ContradictionOK {
		t.Error("expected contradiction-rate failure")
	}
}
