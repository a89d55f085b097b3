package chat

import (
	"strings"

	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
)

// systemPrompt joins the agent instructions with its non-empty memory blocks.
func systemPrompt(def agent.Definition, blocks []*conversation.MemoryBlock) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(def.Instructions))

	header := false
	for _, block := range blocks {
		value := strings.TrimSpace(block.Value)
		if value == "" {
			continue
		}
		if !header {
			b.WriteString("\n\n## Memory")
			header = true
		}
		b.WriteString("\n\n### ")
		b.WriteString(block.Label)
		b.WriteString("\n")
		b.WriteString(value)
	}
	return b.String()
}
