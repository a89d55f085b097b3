package llm

import "unicode/utf8"

const (
	// DefaultContextLength is used when model context length is unknown.
	DefaultContextLength = 128000

	// TokenEstimateRatio estimates ~4 characters per token.
	TokenEstimateRatio = 4

	// MinMessagesToKeep ensures we always keep system prompt + at least one user message.
	MinMessagesToKeep = 2

	// SafetyMarginRatio reserves room for the reply.
	SafetyMarginRatio = 0.80

	truncatedSuffix = "... [truncated]"
)

// EstimateTokenCount provides a rough estimate of token count for a piece of text.
func EstimateTokenCount(text string) int {
	return utf8.RuneCountInString(text) / TokenEstimateRatio
}

// EstimateMessagesTokenCount estimates total tokens across all messages.
func EstimateMessagesTokenCount(messages []ChatMessage) int {
	total := 0
	for _, msg := range messages {
		// role and framing
		total += 10
		total += EstimateTokenCount(msg.Content)

		for _, tc := range msg.ToolCalls {
			total += 20
			total += EstimateTokenCount(tc.Function.Name)
			total += EstimateTokenCount(string(tc.Function.Arguments))
		}
	}
	return total
}

// TrimMessagesResult contains the result of trimming messages.
type TrimMessagesResult struct {
	Messages        []ChatMessage
	TrimmedCount    int
	EstimatedTokens int
}

// TrimMessagesToFitContext drops the oldest non-essential messages until the
// estimate fits the context window. Removal order: tool results, assistant
// messages carrying tool calls, then plain assistant replies. System and user
// messages are never removed, and the message at index 0 is always kept.
func TrimMessagesToFitContext(messages []ChatMessage, contextLength int) TrimMessagesResult {
	if contextLength <= 0 {
		contextLength = DefaultContextLength
	}
	maxTokens := int(float64(contextLength) * SafetyMarginRatio)

	currentTokens := EstimateMessagesTokenCount(messages)
	if currentTokens <= maxTokens {
		return TrimMessagesResult{
			Messages:        messages,
			EstimatedTokens: currentTokens,
		}
	}

	result := make([]ChatMessage, len(messages))
	copy(result, messages)
	trimmedCount := 0

	removable := []func(ChatMessage) bool{
		func(m ChatMessage) bool { return m.Role == RoleTool },
		func(m ChatMessage) bool { return m.Role == RoleAssistant && len(m.ToolCalls) > 0 },
		func(m ChatMessage) bool { return m.Role == RoleAssistant },
	}

	for currentTokens > maxTokens && len(result) > MinMessagesToKeep {
		removedIdx := -1
		for _, match := range removable {
			for i := 1; i < len(result); i++ {
				if match(result[i]) {
					removedIdx = i
					break
				}
			}
			if removedIdx != -1 {
				break
			}
		}
		if removedIdx == -1 {
			break
		}

		result = append(result[:removedIdx], result[removedIdx+1:]...)
		trimmedCount++
		currentTokens = EstimateMessagesTokenCount(result)
	}

	return TrimMessagesResult{
		Messages:        result,
		TrimmedCount:    trimmedCount,
		EstimatedTokens: currentTokens,
	}
}

// TruncateContent shortens text to maxChars runes, marking the cut.
// A non-positive maxChars disables truncation.
func TruncateContent(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + truncatedSuffix
}
