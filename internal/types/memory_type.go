package types

// MemoryType identifies the closed sum of content shapes a Memory can carry.
// Dispatch is by this explicit tag; adding a new type means extending the sum
// and updating serialization, consolidation, and retrieval signal rules.
type MemoryType string

const (
	MemoryTypeCore               MemoryType = "core"
	MemoryTypeTribal             MemoryType = "tribal"
	MemoryTypeProcedural         MemoryType = "procedural"
	MemoryTypeSemantic           MemoryType = "semantic"
	MemoryTypeEpisodic           MemoryType = "episodic"
	MemoryTypeDecision           MemoryType = "decision"
	MemoryTypeInsight            MemoryType = "insight"
	MemoryTypeReference          MemoryType = "reference"
	MemoryTypePreference         MemoryType = "preference"
	MemoryTypePatternRationale   MemoryType = "pattern_rationale"
	MemoryTypeConstraintOverride MemoryType = "constraint_override"
	MemoryTypeDecisionContext    MemoryType = "decision_context"
	MemoryTypeCodeSmell          MemoryType = "code_smell"
	MemoryTypeAgentSpawn         MemoryType = "agent_spawn"
	MemoryTypeEntity             MemoryType = "entity"
	MemoryTypeGoal               MemoryType = "goal"
	MemoryTypeFeedback           MemoryType = "feedback"
	MemoryTypeWorkflow           MemoryType = "workflow"
	MemoryTypeConversation       MemoryType = "conversation"
	MemoryTypeIncident           MemoryType = "incident"
	MemoryTypeMeeting            MemoryType = "meeting"
	MemoryTypeSkill              MemoryType = "skill"
	MemoryTypeEnvironment        MemoryType = "environment"
)

// IsValid reports whether t is one of the known memory types.
func (t MemoryType) IsValid() bool {
	switch t {
	case MemoryTypeCore, MemoryTypeTribal, MemoryTypeProcedural, MemoryTypeSemantic,
		MemoryTypeEpisodic, MemoryTypeDecision, MemoryTypeInsight, MemoryTypeReference,
		MemoryTypePreference, MemoryTypePatternRationale, MemoryTypeConstraintOverride,
		MemoryTypeDecisionContext, MemoryTypeCodeSmell, MemoryTypeAgentSpawn, MemoryTypeEntity,
		MemoryTypeGoal, MemoryTypeFeedback, MemoryTypeWorkflow, MemoryTypeConversation,
		MemoryTypeIncident, MemoryTypeMeeting, MemoryTypeSkill, MemoryTypeEnvironment:
		return true
	}
	return false
}

// ConsolidationEligible reports whether memories of this type are candidates
// for phase-1 selection in the consolidation pipeline (Episodic or Procedural).
func (t MemoryType) ConsolidationEligible() bool {
	return t == MemoryTypeEpisodic || t == MemoryTypeProcedural
}

// TypedContent is implemented by every per-type content payload. Content is
// a structured record, never an opaque blob; Type reports the tag used for
// serialization and dispatch.
type TypedContent interface {
	Type() MemoryType
}

// CoreContent holds domain-agnostic foundational knowledge.
type CoreContent struct {
	Statement string   `json:"statement"`
	Domain    string   `json:"domain"`
	Sources   []string `json:"sources"`
}

func (CoreContent) Type() MemoryType { return MemoryTypeCore }

// TribalContent holds informal, hard-won team knowledge. Field shape is
// grounded directly on the original implementation's test fixtures.
type TribalContent struct {
	Knowledge    string   `json:"knowledge"`
	Severity     string   `json:"severity"`
	Warnings     []string `json:"warnings"`
	Consequences []string `json:"consequences"`
}

func (TribalContent) Type() MemoryType { return MemoryTypeTribal }

// ProceduralContent holds a reusable sequence of steps.
type ProceduralContent struct {
	Procedure   string   `json:"procedure"`
	Steps       []string `json:"steps"`
	Preconditions []string `json:"preconditions"`
}

func (ProceduralContent) Type() MemoryType { return MemoryTypeProcedural }

// SemanticContent holds a generalized abstraction, typically produced by
// the consolidation pipeline's abstraction phase.
type SemanticContent struct {
	Generalization string   `json:"generalization"`
	SourceCount    int      `json:"source_count"`
	Evidence       []string `json:"evidence"`
}

func (SemanticContent) Type() MemoryType { return MemoryTypeSemantic }

// EpisodicContent holds a single observed event.
type EpisodicContent struct {
	Event   string            `json:"event"`
	Context map[string]string `json:"context"`
}

func (EpisodicContent) Type() MemoryType { return MemoryTypeEpisodic }

// DecisionContent holds a decision and its rationale.
type DecisionContent struct {
	Decision     string   `json:"decision"`
	Rationale    string   `json:"rationale"`
	Alternatives []string `json:"alternatives"`
}

func (DecisionContent) Type() MemoryType { return MemoryTypeDecision }

// InsightContent holds a derived realization not directly observed.
type InsightContent struct {
	Insight    string  `json:"insight"`
	Confidence float64 `json:"confidence"`
}

func (InsightContent) Type() MemoryType { return MemoryTypeInsight }

// ReferenceContent holds a pointer to external material.
type ReferenceContent struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

func (ReferenceContent) Type() MemoryType { return MemoryTypeReference }

// PreferenceContent holds a stated preference.
type PreferenceContent struct {
	Subject  string `json:"subject"`
	Preferred string `json:"preferred"`
}

func (PreferenceContent) Type() MemoryType { return MemoryTypePreference }

// PatternRationaleContent explains why a code pattern is used.
type PatternRationaleContent struct {
	Pattern   string `json:"pattern"`
	Rationale string `json:"rationale"`
}

func (PatternRationaleContent) Type() MemoryType { return MemoryTypePatternRationale }

// ConstraintOverrideContent records a deliberate exception to a constraint.
type ConstraintOverrideContent struct {
	Constraint string `json:"constraint"`
	Reason     string `json:"reason"`
}

func (ConstraintOverrideContent) Type() MemoryType { return MemoryTypeConstraintOverride }

// DecisionContextContent captures the situational context of a decision.
type DecisionContextContent struct {
	Situation  string   `json:"situation"`
	Constraints []string `json:"constraints"`
}

func (DecisionContextContent) Type() MemoryType { return MemoryTypeDecisionContext }

// CodeSmellContent flags a recognized anti-pattern.
type CodeSmellContent struct {
	Smell      string `json:"smell"`
	Location   string `json:"location"`
	Suggestion string `json:"suggestion"`
}

func (CodeSmellContent) Type() MemoryType { return MemoryTypeCodeSmell }

// AgentSpawnContent records the spawning of a sub-agent.
type AgentSpawnContent struct {
	ParentAgent string `json:"parent_agent"`
	ChildAgent  string `json:"child_agent"`
	Purpose     string `json:"purpose"`
}

func (AgentSpawnContent) Type() MemoryType { return MemoryTypeAgentSpawn }

// EntityContent records a recognized named entity.
type EntityContent struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
}

func (EntityContent) Type() MemoryType { return MemoryTypeEntity }

// GoalContent records an agent's objective.
type GoalContent struct {
	Goal   string `json:"goal"`
	Status string `json:"status"`
}

func (GoalContent) Type() MemoryType { return MemoryTypeGoal }

// FeedbackContent records feedback received from a user or peer agent.
type FeedbackContent struct {
	Feedback string `json:"feedback"`
	Sentiment string `json:"sentiment"`
}

func (FeedbackContent) Type() MemoryType { return MemoryTypeFeedback }

// WorkflowContent records a multi-step workflow definition.
type WorkflowContent struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

func (WorkflowContent) Type() MemoryType { return MemoryTypeWorkflow }

// ConversationContent records a summarized exchange.
type ConversationContent struct {
	Participants []string `json:"participants"`
	Summary      string   `json:"summary"`
}

func (ConversationContent) Type() MemoryType { return MemoryTypeConversation }

// IncidentContent records an operational incident.
type IncidentContent struct {
	Description string `json:"description"`
	RootCause   string `json:"root_cause"`
	Resolution  string `json:"resolution"`
}

func (IncidentContent) Type() MemoryType { return MemoryTypeIncident }

// MeetingContent records a meeting summary.
type MeetingContent struct {
	Topic         string   `json:"topic"`
	Decisions     []string `json:"decisions"`
	ActionItems   []string `json:"action_items"`
}

func (MeetingContent) Type() MemoryType { return MemoryTypeMeeting }

// SkillContent records a learned capability.
type SkillContent struct {
	Skill          string `json:"skill"`
	ProficiencyHint string `json:"proficiency_hint"`
}

func (SkillContent) Type() MemoryType { return MemoryTypeSkill }

// EnvironmentContent records a fact about the runtime environment.
type EnvironmentContent struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (EnvironmentContent) Type() MemoryType { return MemoryTypeEnvironment }
