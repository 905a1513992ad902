// Package retrieval implements the two-stage hybrid retrieval engine: a
// candidate-gathering stage that fuses keyword, vector, and entity-expansion
// search via Reciprocal Rank Fusion, and a re-ranking stage that scores
// candidates on eight factors and packs them into a token budget using
// priority-weighted bin-packing across compression levels.
package retrieval

import "github.com/cortexmemory/cortex/internal/types"

// Intent classifies what an agent is trying to do, used to bias which
// memory types matter most and to decide whether the query should be
// expanded before search.
type Intent string

const (
	IntentDebug     Intent = "debug"
	IntentImplement Intent = "implement"
	IntentReview    Intent = "review"
	IntentExplore   Intent = "explore"
	IntentUnknown   Intent = "unknown"
)

// debugWords and friends are the cheap lexical signals used to classify
// intent from a free-text focus string. Order matters: the first matching
// bucket wins.
var (
	debugWords     = []string{"bug", "error", "fail", "crash", "exception", "broken", "wrong", "fix"}
	implementWords = []string{"add", "implement", "build", "create", "write", "support"}
	reviewWords    = []string{"review", "audit", "check", "verify", "assess"}
)

// IntentEngine classifies retrieval intent and scores how well a memory
// type suits a given intent.
type IntentEngine struct{}

// NewIntentEngine returns a ready-to-use classifier.
func NewIntentEngine() *IntentEngine { return &IntentEngine{} }

// Classify derives an Intent from the focus string and active file set.
// Active files alone don't disambiguate intent; focus text does the real
// work here, matched against cheap keyword buckets in priority order.
func (e *IntentEngine) Classify(ctx *RetrievalContext) Intent {
	if ctx == nil {
		return IntentUnknown
	}
	focus := lower(ctx.Focus)
	switch {
	case containsAny(focus, debugWords):
		return IntentDebug
	case containsAny(focus, implementWords):
		return IntentImplement
	case containsAny(focus, reviewWords):
		return IntentReview
	case focus == "":
		return IntentUnknown
	default:
		return IntentExplore
	}
}

// Boost returns how strongly a memory of the given type suits the intent,
// in [0, 2]. Used as one of the eight re-rank factors after normalization.
func (e *IntentEngine) Boost(intent Intent, memoryType types.MemoryType) float64 {
	switch intent {
	case IntentDebug:
		switch memoryType {
		case types.MemoryTypeIncident, types.MemoryTypeCodeSmell, types.MemoryTypeTribal:
			return 2.0
		case types.MemoryTypeEpisodic, types.MemoryTypeDecision:
			return 1.0
		}
	case IntentImplement:
		switch memoryType {
		case types.MemoryTypeProcedural, types.MemoryTypePatternRationale, types.MemoryTypeReference:
			return 2.0
		case types.MemoryTypeSemantic, types.MemoryTypeConstraintOverride:
			return 1.0
		}
	case IntentReview:
		switch memoryType {
		case types.MemoryTypeConstraintOverride, types.MemoryTypeDecisionContext, types.MemoryTypeCodeSmell:
			return 2.0
		case types.MemoryTypeDecision, types.MemoryTypePatternRationale:
			return 1.0
		}
	case IntentExplore:
		switch memoryType {
		case types.MemoryTypeSemantic, types.MemoryTypeCore, types.MemoryTypeEntity:
			return 2.0
		}
	}
	return 0.5
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if len(n) <= len(haystack) && indexOf(haystack, n) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}
