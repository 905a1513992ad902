package retrieval

import (
	"fmt"
	"strings"

	"github.com/cortexmemory/cortex/internal/types"
)

// Level is a compression level used when packing memories into a token
// budget, from least to most detailed.
type Level int

const (
	LevelL0 Level = iota // identifier only
	LevelL1              // one-line summary (~20 tokens)
	LevelL2              // summary + evidence
	LevelL3              // full content
)

// LevelsDescending is the order the budget packer tries: richest first.
var LevelsDescending = [...]Level{LevelL3, LevelL2, LevelL1, LevelL0}

func (l Level) String() string {
	switch l {
	case LevelL0:
		return "L0"
	case LevelL1:
		return "L1"
	case LevelL2:
		return "L2"
	case LevelL3:
		return "L3"
	default:
		return "L?"
	}
}

// CompressAtLevel renders m's text at the given level.
func CompressAtLevel(m *types.Memory, level Level) string {
	switch level {
	case LevelL0:
		return m.ID
	case LevelL1:
		return oneLine(m.Summary, 20)
	case LevelL2:
		var b strings.Builder
		b.WriteString(m.Summary)
		for _, f := range m.LinkedFiles {
			b.WriteString("\n- ")
			b.WriteString(f.Path)
			if f.LineStart > 0 {
				fmt.Fprintf(&b, ":%d-%d", f.LineStart, f.LineEnd)
			}
		}
		return b.String()
	case LevelL3:
		var b strings.Builder
		b.WriteString(m.Summary)
		b.WriteString("\n\n")
		b.WriteString(contentText(m.Content))
		return b.String()
	default:
		return m.ID
	}
}

// oneLine truncates text to approximately maxWords words, a cheap proxy for
// an ~20-token one-line summary without pulling in a tokenizer.
func oneLine(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// contentText renders a TypedContent payload as readable text for L3. Each
// content type is rendered field-by-field rather than as raw JSON so the
// packed text reads like prose, matching how the consolidation pipeline's
// summaries are authored.
func contentText(c types.TypedContent) string {
	switch v := c.(type) {
	case types.EpisodicContent:
		return v.Event
	case types.SemanticContent:
		return fmt.Sprintf("%s (from %d sources)", v.Generalization, v.SourceCount)
	case types.ProceduralContent:
		return fmt.Sprintf("%s: %s", v.Procedure, strings.Join(v.Steps, " -> "))
	case types.DecisionContent:
		return fmt.Sprintf("%s — %s", v.Decision, v.Rationale)
	case types.TribalContent:
		return v.Knowledge
	case types.InsightContent:
		return v.Insight
	case types.CoreContent:
		return v.Statement
	case types.ReferenceContent:
		return fmt.Sprintf("%s (%s)", v.Title, v.URI)
	case types.IncidentContent:
		return fmt.Sprintf("%s; root cause: %s; resolution: %s", v.Description, v.RootCause, v.Resolution)
	default:
		if c == nil {
			return ""
		}
		return fmt.Sprintf("%v", c)
	}
}

// EstimateTokens approximates token count for packed text, consistent with
// the rest of the engine's token accounting (roughly 4 characters/token).
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
