package dto

import (
	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// AgentResponse is the read-only agent record.
type AgentResponse = agent.Record

// NewAgentList maps agent definitions to their public records.
func NewAgentList(definitions []agent.Definition) ListResponse[AgentResponse] {
	records := make([]AgentResponse, 0, len(definitions))
	for _, def := range definitions {
		records = append(records, def.Record())
	}
	return NewList(records)
}

// ToolResponse describes one function an agent may call.
type ToolResponse struct {
	Name        string         `json:"name" example:"list_repos"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewToolList maps descriptors.
func NewToolList(descriptors []tool.Descriptor) ListResponse[ToolResponse] {
	out := make([]ToolResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, ToolResponse{Name: d.Name, Description: d.Description, Parameters: d.Definition().Function.Parameters})
	}
	return NewList(out)
}
