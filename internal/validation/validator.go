package validation

import (
	"time"

	"github.com/cortexmemory/cortex/internal/crdt"
	"github.com/cortexmemory/cortex/internal/decay"
	"github.com/cortexmemory/cortex/internal/types"
)

// DimensionWeights holds how much each dimension contributes to the overall
// score. Equal weighting by default; a caller with reason to trust one
// dimension more (e.g. a namespace with no file citations at all) can
// supply its own.
type DimensionWeights struct {
	Citation      float64
	Contradiction float64
	Temporal      float64
	Pattern       float64
}

// DefaultDimensionWeights weighs all four dimensions equally.
func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{Citation: 0.25, Contradiction: 0.25, Temporal: 0.25, Pattern: 0.25}
}

// Report is the combined outcome of running all four validation
// dimensions against one memory.
type Report struct {
	MemoryID       string
	OverallScore   float64
	Citation       CitationResult
	Contradiction  ContradictionResult
	Temporal       TemporalResult
	Pattern        PatternResult
	HealingActions []HealingAction
}

// Validator runs the four validation dimensions against memories,
// composing the pre-existing citation checker, contradiction detector,
// decay engine, and pattern-consistency check into one report. It never
// mutates a memory; every finding surfaces as an advisory HealingAction
// for the caller to apply or discard.
type Validator struct {
	Decay   *decay.Engine
	Weights DimensionWeights

	CheckFile    FileChecker
	DetectRename RenameDetector
}

// NewValidator returns a validator with equal dimension weights. checkFile
// and detectRename drive the citation dimension; pass stubs that always
// report "not found, not renamed" if file-system access isn't available.
func NewValidator(decayEngine *decay.Engine, checkFile FileChecker, detectRename RenameDetector) *Validator {
	return &Validator{
		Decay:        decayEngine,
		Weights:      DefaultDimensionWeights(),
		CheckFile:    checkFile,
		DetectRename: detectRename,
	}
}

// Validate runs all four dimensions for m and combines them into one
// report. related is the set of other memories to check m against for
// contradictions (typically memories sharing a tag, topic, or file);
// edges are m's causal edges; consensusGroups and decayedConfidence are
// supplied by the caller since computing them requires context (other
// agents' memories, the decay schedule) this package doesn't own.
func (v *Validator) Validate(m *types.Memory, related []*types.Memory, edges []*types.CausalEdge, consensusGroups []crdt.ConsensusGroup, decayedConfidence float64, now time.Time) Report {
	citation := ValidateCitations(m, v.CheckFile, v.DetectRename)
	contradiction := ValidateContradictions(m, related, edges, consensusGroups)
	temporal := ValidateTemporal(v.Decay, m, decayedConfidence, now)
	pattern := ValidatePatternConsistency(m)

	overall := citation.Score*v.Weights.Citation +
		contradiction.Score*v.Weights.Contradiction +
		temporal.Score*v.Weights.Temporal +
		pattern.Score*v.Weights.Pattern

	var actions []HealingAction
	actions = append(actions, citation.HealingActions...)
	actions = append(actions, contradiction.HealingActions...)
	actions = append(actions, temporal.HealingActions...)
	actions = append(actions, pattern.HealingActions...)

	return Report{
		MemoryID:       m.ID,
		OverallScore:   overall,
		Citation:       citation,
		Contradiction:  contradiction,
		Temporal:       temporal,
		Pattern:        pattern,
		HealingActions: actions,
	}
}
