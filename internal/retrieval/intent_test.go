package retrieval

import (
	"testing"

	"github.com/cortexmemory/cortex/internal/types"
)

func TestClassifyDetectsDebugIntent(t *testing.T) {
	e := NewIntentEngine()
	got := e.Classify(&RetrievalContext{Focus: "why does this crash with a nil pointer error"})
	if got != IntentDebug {
		t.Errorf("intent = %v, want debug", got)
	}
}

func TestClassifyDetectsImplementIntent(t *testing.T) {
	e := NewIntentEngine()
	got := e.Classify(&RetrievalContext{Focus: "add support for retry backoff"})
	if got != IntentImplement {
		t.Errorf("intent = %v, want implement", got)
	}
}

func TestClassifyEmptyFocusIsUnknown(t *testing.T) {
	e := NewIntentEngine()
	if got := e.Classify(&RetrievalContext{}); got != IntentUnknown {
		t.Errorf("intent = %v, want unknown", got)
	}
	if got := e.Classify(nil); got != IntentUnknown {
		t.Errorf("intent = %v, want unknown for nil context", got)
	}
}

func TestBoostFavorsIncidentsForDebugIntent(t *testing.T) {
	e := NewIntentEngine()
	incident := e.Boost(IntentDebug, types.MemoryTypeIncident)
	goal := e.Boost(IntentDebug, types.MemoryTypeGoal)
	if incident <= goal {
		t.Errorf("expected incident boost (%v) > goal boost (%v) for debug intent", incident, goal)
	}
}
