// Package decay computes time-adjusted confidence for memories and decides
// when a memory has decayed enough to archive.
package decay

import (
	"math"
	"time"

	"github.com/cortexmemory/cortex/internal/logging"
	"github.com/cortexmemory/cortex/internal/types"
)

// Context carries the inputs to confidence decay that are not stored
// directly on the Memory: the evaluation instant, how stale the memory's
// citations are, and whether any of its linked patterns are still active.
type Context struct {
	Now                time.Time
	StaleCitationRatio float64 // in [0, 1]; fraction of citations judged stale
	HasActivePatterns  bool
}

// DefaultContext evaluates decay as of now with no staleness signal.
func DefaultContext() Context {
	return Context{Now: time.Now().UTC()}
}

// halfLives maps each memory type to its age half-life in days. Types not
// present default to 90 days (see halfLifeDays).
//
// Tribal knowledge and reference material outlive a single session and
// decay slowly; observed events and conversational context are most useful
// fresh and decay fast. Everything else sits at a 90-day middle ground
// pending real usage data.
var halfLives = map[types.MemoryType]float64{
	types.MemoryTypeCore:               180,
	types.MemoryTypeTribal:             180,
	types.MemoryTypeReference:          180,
	types.MemoryTypePreference:         180,
	types.MemoryTypeSkill:              180,
	types.MemoryTypeEnvironment:        180,
	types.MemoryTypeConstraintOverride: 180,

	types.MemoryTypeEpisodic:     30,
	types.MemoryTypeConversation: 30,
	types.MemoryTypeMeeting:      30,
	types.MemoryTypeAgentSpawn:   30,
	types.MemoryTypeIncident:     30,
}

const defaultHalfLifeDays = 90

func halfLifeDays(t types.MemoryType) float64 {
	if d, ok := halfLives[t]; ok {
		return d
	}
	return defaultHalfLifeDays
}

// Engine computes decayed confidence and archival decisions. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	// ArchivalThreshold is the decayed-confidence floor below which a memory
	// is recommended for archival (spec default: 0.15).
	ArchivalThreshold float64
	// ArchivalInactivityDays is how long since last access a memory must be
	// idle before low confidence alone triggers archival.
	ArchivalInactivityDays int
}

// New builds an Engine with the spec's default thresholds.
func New() *Engine {
	return &Engine{ArchivalThreshold: 0.15, ArchivalInactivityDays: 30}
}

// Calculate returns m's confidence as of ctx.Now, per
// C(t) = clamp(0, 1, C0 * f_age * f_usage * f_importance * f_citation * f_pattern).
func (e *Engine) Calculate(m *types.Memory, ctx Context) float64 {
	fAge := ageFactor(m, ctx.Now)
	fUsage := usageFactor(m.AccessCount)
	fImportance := m.Importance.Weight()
	fCitation := citationFactor(ctx.StaleCitationRatio)
	fPattern := patternFactor(ctx.HasActivePatterns)

	c := m.Confidence * fAge * fUsage * fImportance * fCitation * fPattern
	return clamp01(c)
}

// ageFactor applies exponential decay with a type-dependent half-life,
// measured from the memory's last access rather than its creation time, so
// recently-touched memories reset their effective age.
func ageFactor(m *types.Memory, now time.Time) float64 {
	days := now.Sub(m.LastAccessed).Hours() / 24
	if days <= 0 {
		return 1.0
	}
	halfLife := halfLifeDays(m.MemoryType)
	return math.Pow(0.5, days/halfLife)
}

// usageFactor rewards frequently-accessed memories with a multiplier capped
// at 1.5, so access alone can raise confidence by at most half of its base
// value (Calculate still clamps the final result to 1).
func usageFactor(accessCount uint64) float64 {
	boost := 0.2 * math.Log1p(float64(accessCount))
	if boost > 0.5 {
		boost = 0.5
	}
	return 1 + boost
}

// citationFactor discounts confidence in proportion to how many of a
// memory's citations have gone stale.
func citationFactor(staleRatio float64) float64 {
	if staleRatio < 0 {
		staleRatio = 0
	}
	if staleRatio > 1 {
		staleRatio = 1
	}
	return 1 - staleRatio*0.5
}

// patternFactor gives a small boost when at least one linked pattern is
// still active in the codebase.
func patternFactor(hasActivePatterns bool) float64 {
	if hasActivePatterns {
		return 1.1
	}
	return 1.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ArchivalDecision reports whether a memory should be archived given its
// decayed confidence.
type ArchivalDecision struct {
	ShouldArchive bool
	Reason        string
}

// EvaluateArchival decides whether m, already decayed to decayedConfidence,
// should be archived: below threshold and idle for ArchivalInactivityDays.
func (e *Engine) EvaluateArchival(m *types.Memory, decayedConfidence float64, now time.Time) ArchivalDecision {
	if decayedConfidence >= e.ArchivalThreshold {
		return ArchivalDecision{ShouldArchive: false}
	}
	idleDays := now.Sub(m.LastAccessed).Hours() / 24
	if idleDays < float64(e.ArchivalInactivityDays) {
		return ArchivalDecision{ShouldArchive: false,
			Reason: "confidence below threshold but memory was accessed recently"}
	}
	return ArchivalDecision{
		ShouldArchive: true,
		Reason:        "decayed confidence below archival threshold with no recent activity",
	}
}

// Result is one memory's decay outcome, returned by ProcessBatch.
type Result struct {
	MemoryID   string
	Confidence float64
	Archival   ArchivalDecision
}

// ProcessBatch decays every memory in ms against the same context. The
// batch performance contract (1,000 memories/second on commodity hardware)
// holds because each memory's decay is O(1) arithmetic with no I/O.
func (e *Engine) ProcessBatch(ms []*types.Memory, ctx Context) []Result {
	timer := logging.StartTimer(logging.CategoryDecay, "ProcessBatch")
	defer timer.Stop()

	out := make([]Result, len(ms))
	for i, m := range ms {
		c := e.Calculate(m, ctx)
		out[i] = Result{
			MemoryID:   m.ID,
			Confidence: c,
			Archival:   e.EvaluateArchival(m, c, ctx.Now),
		}
	}
	logging.Decay("processed decay batch: %d memories", len(ms))
	return out
}
