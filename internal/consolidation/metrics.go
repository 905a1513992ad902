package consolidation

import "fmt"

// Quality thresholds a consolidation run's Metrics are assessed against.
const (
	MinPrecision         = 0.7
	MinCompressionRatio  = 3.0
	MaxCompressionRatio  = 5.0
	MinLift              = 1.5
	MaxContradictionRate = 0.05
	MinStability         = 0.85
)

// QualityAssessment reports which of Metrics' five dimensions pass and why
// any failed.
type QualityAssessment struct {
	PrecisionOK    bool
	CompressionOK  bool
	LiftOK         bool
	ContradictionOK bool
	StabilityOK    bool
	OverallPass    bool
	Issues         []string
}

// AssessQuality checks m against the pipeline's target thresholds. The
// pipeline itself never raises on a failed assessment; this is a separate
// call for monitoring to surface failures.
func AssessQuality(m Metrics) QualityAssessment {
	var issues []string

	precisionOK := m.Precision >= MinPrecision
	if !precisionOK {
		issues = append(issues, fmt.Sprintf("precision %.3f below minimum %.3f", m.Precision, MinPrecision))
	}

	compressionOK := m.CompressionRatio >= MinCompressionRatio
	if !compressionOK {
		issues = append(issues, fmt.Sprintf("compression ratio %.1f below minimum %.1f", m.CompressionRatio, MinCompressionRatio))
	}

	liftOK := m.Lift >= MinLift
	if !liftOK {
		issues = append(issues, fmt.Sprintf("retrieval lift %.3f below minimum %.3f", m.Lift, MinLift))
	}

	contradictionOK := m.ContradictionRate <= MaxContradictionRate
	if !contradictionOK {
		issues = append(issues, fmt.Sprintf("contradiction rate %.3f above maximum %.3f", m.ContradictionRate, MaxContradictionRate))
	}

	stabilityOK := m.Stability >= MinStability
	if !stabilityOK {
		issues = append(issues, fmt.Sprintf("stability %.3f below minimum %.3f", m.Stability, MinStability))
	}

	return QualityAssessment{
		PrecisionOK:     precisionOK,
		CompressionOK:   compressionOK,
		LiftOK:          liftOK,
		ContradictionOK: contradictionOK,
		StabilityOK:     stabilityOK,
		OverallPass:     precisionOK && compressionOK && liftOK && contradictionOK && stabilityOK,
		Issues:          issues,
	}
}
