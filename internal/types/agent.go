package types

import (
	"fmt"
	"strings"
)

// AgentID identifies a distinct writer identity in the multi-agent model.
type AgentID string

// DefaultAgent is used when no agent is specified.
const DefaultAgent AgentID = "default"

func (a AgentID) String() string {
	if a == "" {
		return string(DefaultAgent)
	}
	return string(a)
}

// NamespaceID is an agent-qualified URI of the form agent://<id>/.
type NamespaceID string

// DefaultNamespace is used when no namespace is specified.
const DefaultNamespace NamespaceID = "agent://default/"

// NamespaceFor builds the canonical namespace URI for an agent.
func NamespaceFor(agent AgentID) NamespaceID {
	return NamespaceID(fmt.Sprintf("agent://%s/", agent.String()))
}

// Agent extracts the agent id segment from a namespace URI.
func (n NamespaceID) Agent() AgentID {
	s := strings.TrimPrefix(string(n), "agent://")
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return DefaultAgent
	}
	return AgentID(s)
}

func (n NamespaceID) String() string {
	if n == "" {
		return string(DefaultNamespace)
	}
	return string(n)
}
