package types

import (
	"encoding/json"
	"fmt"
)

// memoryAlias mirrors Memory's shape but with Content left untyped, so the
// default json encoder/decoder can be reused for every other field.
type memoryAlias struct {
	ID         string      `json:"id"`
	MemoryType MemoryType  `json:"memory_type"`
	Content    json.RawMessage `json:"content"`
	Summary    string      `json:"summary"`

	TransactionTime jsonTimeImpl  `json:"transaction_time"`
	ValidTime       jsonTimeImpl  `json:"valid_time"`
	ValidUntil      *jsonTimeImpl `json:"valid_until,omitempty"`

	Confidence float64    `json:"confidence"`
	Importance Importance `json:"importance"`

	LastAccessed jsonTimeImpl `json:"last_accessed"`
	AccessCount  uint64   `json:"access_count"`

	LinkedPatterns    []PatternLink    `json:"linked_patterns,omitempty"`
	LinkedConstraints []ConstraintLink `json:"linked_constraints,omitempty"`
	LinkedFiles       []FileLink       `json:"linked_files,omitempty"`
	LinkedFunctions   []FunctionLink   `json:"linked_functions,omitempty"`

	Tags []string `json:"tags,omitempty"`

	Archived     bool    `json:"archived"`
	SupersededBy *string `json:"superseded_by,omitempty"`
	Supersedes   *string `json:"supersedes,omitempty"`

	ContentHash string      `json:"content_hash"`
	Namespace   NamespaceID `json:"namespace"`
	SourceAgent AgentID     `json:"source_agent"`
}

// MarshalJSON tags Content with its MemoryType so UnmarshalJSON can dispatch
// back to the correct concrete struct.
func (m Memory) MarshalJSON() ([]byte, error) {
	contentBytes, err := json.Marshal(m.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	alias := memoryAlias{
		ID:                m.ID,
		MemoryType:        m.MemoryType,
		Content:           contentBytes,
		Summary:           m.Summary,
		TransactionTime:   jsonTimeImpl(m.TransactionTime),
		ValidTime:         jsonTimeImpl(m.ValidTime),
		Confidence:        m.Confidence,
		Importance:        m.Importance,
		LastAccessed:      jsonTimeImpl(m.LastAccessed),
		AccessCount:       m.AccessCount,
		LinkedPatterns:    m.LinkedPatterns,
		LinkedConstraints: m.LinkedConstraints,
		LinkedFiles:       m.LinkedFiles,
		LinkedFunctions:   m.LinkedFunctions,
		Tags:              m.Tags,
		Archived:          m.Archived,
		SupersededBy:      m.SupersededBy,
		Supersedes:        m.Supersedes,
		ContentHash:       m.ContentHash,
		Namespace:         m.Namespace,
		SourceAgent:       m.SourceAgent,
	}
	if m.ValidUntil != nil {
		vu := jsonTimeImpl(*m.ValidUntil)
		alias.ValidUntil = &vu
	}
	return json.Marshal(alias)
}

// UnmarshalJSON dispatches Content to its concrete struct based on MemoryType.
func (m *Memory) UnmarshalJSON(data []byte) error {
	var alias memoryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	content, err := DecodeContent(alias.MemoryType, alias.Content)
	if err != nil {
		return err
	}

	m.ID = alias.ID
	m.MemoryType = alias.MemoryType
	m.Content = content
	m.Summary = alias.Summary
	m.TransactionTime = alias.TransactionTime.Time()
	m.ValidTime = alias.ValidTime.Time()
	if alias.ValidUntil != nil {
		t := alias.ValidUntil.Time()
		m.ValidUntil = &t
	}
	m.Confidence = alias.Confidence
	m.Importance = alias.Importance
	m.LastAccessed = alias.LastAccessed.Time()
	m.AccessCount = alias.AccessCount
	m.LinkedPatterns = alias.LinkedPatterns
	m.LinkedConstraints = alias.LinkedConstraints
	m.LinkedFiles = alias.LinkedFiles
	m.LinkedFunctions = alias.LinkedFunctions
	m.Tags = alias.Tags
	m.Archived = alias.Archived
	m.SupersededBy = alias.SupersededBy
	m.Supersedes = alias.Supersedes
	m.ContentHash = alias.ContentHash
	m.Namespace = alias.Namespace
	m.SourceAgent = alias.SourceAgent
	return nil
}

// DecodeContent dispatches a raw JSON content payload to the concrete struct
// for the given memory type. Used both by Memory.UnmarshalJSON and directly
// by the storage layer when hydrating rows without the full Memory wrapper.
func DecodeContent(t MemoryType, raw json.RawMessage) (TypedContent, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("types: empty content payload for %s", t)
	}

	decode := func(v TypedContent) (TypedContent, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("types: decode %s content: %w", t, err)
		}
		return v, nil
	}

	switch t {
	case MemoryTypeCore:
		v := &CoreContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*CoreContent), nil
	case MemoryTypeTribal:
		v := &TribalContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*TribalContent), nil
	case MemoryTypeProcedural:
		v := &ProceduralContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*ProceduralContent), nil
	case MemoryTypeSemantic:
		v := &SemanticContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*SemanticContent), nil
	case MemoryTypeEpisodic:
		v := &EpisodicContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*EpisodicContent), nil
	case MemoryTypeDecision:
		v := &DecisionContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*DecisionContent), nil
	case MemoryTypeInsight:
		v := &InsightContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*InsightContent), nil
	case MemoryTypeReference:
		v := &ReferenceContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*ReferenceContent), nil
	case MemoryTypePreference:
		v := &PreferenceContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*PreferenceContent), nil
	case MemoryTypePatternRationale:
		v := &PatternRationaleContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*PatternRationaleContent), nil
	case MemoryTypeConstraintOverride:
		v := &ConstraintOverrideContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*ConstraintOverrideContent), nil
	case MemoryTypeDecisionContext:
		v := &DecisionContextContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*DecisionContextContent), nil
	case MemoryTypeCodeSmell:
		v := &CodeSmellContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*CodeSmellContent), nil
	case MemoryTypeAgentSpawn:
		v := &AgentSpawnContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*AgentSpawnContent), nil
	case MemoryTypeEntity:
		v := &EntityContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*EntityContent), nil
	case MemoryTypeGoal:
		v := &GoalContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*GoalContent), nil
	case MemoryTypeFeedback:
		v := &FeedbackContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*FeedbackContent), nil
	case MemoryTypeWorkflow:
		v := &WorkflowContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*WorkflowContent), nil
	case MemoryTypeConversation:
		v := &ConversationContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*ConversationContent), nil
	case MemoryTypeIncident:
		v := &IncidentContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*IncidentContent), nil
	case MemoryTypeMeeting:
		v := &MeetingContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*MeetingContent), nil
	case MemoryTypeSkill:
		v := &SkillContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*SkillContent), nil
	case MemoryTypeEnvironment:
		v := &EnvironmentContent{}
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		return *c.(*EnvironmentContent), nil
	default:
		return nil, fmt.Errorf("types: unknown memory type %q", t)
	}
}
