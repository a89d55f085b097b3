package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-agent-gateway/internal/domain/agent"
	"github.com/janhq/jan-agent-gateway/internal/domain/conversation"
	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

type fixture struct {
	service  *Service
	store    *store
	provider *fakeProvider
	github   *stubExecutor
	locker   *recordingLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	agents, err := agent.NewRegistry(
		agent.Definition{
			ID:           "plain",
			Name:         "Plain",
			Instructions: "You are concise.",
			MemoryBlocks: []agent.MemoryBlockSeed{{Label: "persona", Value: "likes tea"}},
		},
		agent.Definition{
			ID:               "github-helper",
			Name:             "GitHub Helper",
			Instructions:     "You help with repositories.",
			ModelPreferences: agent.ModelPreferences{Model: "qwen2.5"},
			AllowedTools:     []string{"github", "does_not_exist"},
		},
	)
	require.NoError(t, err)

	github := &stubExecutor{service: "github", names: []string{"list_repos", "get_repo"}}
	tools, err := tool.NewRegistry(github)
	require.NoError(t, err)

	st := newStore()
	provider := &fakeProvider{}
	locker := &recordingLocker{}

	service := NewService(Dependencies{
		Agents:        agents,
		Conversations: conversationRepo{st},
		Messages:      messageRepo{st},
		Memory:        memoryRepo{st},
		Locker:        locker,
		Provider:      provider,
		Tools:         tools,
		Orchestrator:  tool.NewOrchestrator(provider, tool.Options{MaxIterations: 3}),
		Credentials:   tool.Credentials{"github": "server-token"},
	}, Config{DefaultModel: "llama3.1", HistoryLimit: 50}, zerolog.Nop())

	return &fixture{service: service, store: st, provider: provider, github: github, locker: locker}
}

func TestChatRejectsBlankMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "  \n\t "})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, f.provider.calls())
	assert.Empty(t, f.store.conversations)
}

func TestChatUnknownAgent(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Chat(context.Background(), Params{AgentID: "ghost", Message: "hi"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Empty(t, f.provider.calls())
}

func TestChatWithoutToolsMakesSingleCall(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.service.SeedMemory(context.Background()))
	f.provider.CompleteFunc = scripted(text("Hello there."))

	result, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "hi, who are you?"})
	require.NoError(t, err)

	calls := f.provider.calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Tools)
	assert.Equal(t, "llama3.1", calls[0].Model)
	require.Len(t, calls[0].Messages, 2)
	assert.Equal(t, llm.RoleSystem, calls[0].Messages[0].Role)
	assert.Contains(t, calls[0].Messages[0].Content, "You are concise.")
	assert.Contains(t, calls[0].Messages[0].Content, "### persona\nlikes tea")
	assert.Equal(t, "hi, who are you?", calls[0].Messages[1].Content)

	assert.Equal(t, "Hello there.", result.Response)
	assert.Equal(t, "plain", result.Agent)
	assert.Equal(t, 1, result.Iterations)
	assert.Empty(t, result.ToolsUsed)
	assert.Equal(t, 2*time.Second, result.TotalDuration)
	assert.Equal(t, 4, result.EvalCount)
	assert.Equal(t, []string{result.ConversationID}, f.locker.keys)

	conv, err := f.service.GetConversation(context.Background(), result.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "hi, who are you", *conv.Title)

	stored := f.store.messagesOf(result.ConversationID)
	require.Len(t, stored, 2)
	assert.Equal(t, conversation.RoleUser, stored[0].Role)
	assert.Equal(t, conversation.RoleAssistant, stored[1].Role)
	assert.Equal(t, "Hello there.", stored[1].Content)
	assert.Equal(t, "llama3.1", stored[1].Metadata["model"])
}

func TestChatRunsToolLoop(t *testing.T) {
	f := newFixture(t)
	f.github.ExecuteFunc = func(name string, _ map[string]any) tool.Result {
		return tool.Succeeded(map[string]any{"repositories": []string{}, "count": 0})
	}
	f.provider.CompleteFunc = scripted(
		toolCalls(call("call_a", "list_repos", `{}`)),
		text("You have no repositories yet."),
	)

	result, err := f.service.Chat(context.Background(), Params{AgentID: "github-helper", Message: "list my repos"})
	require.NoError(t, err)

	calls := f.provider.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "qwen2.5", calls[0].Model)
	require.Len(t, calls[0].Tools, 2)

	second := calls[1].Messages
	toolMsg := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, toolMsg.Role)
	assert.Equal(t, "call_a", toolMsg.ToolCallID)
	assert.JSONEq(t, `{"repositories":[],"count":0}`, toolMsg.Content)

	assert.Equal(t, "You have no repositories yet.", result.Response)
	assert.Equal(t, 2, result.Iterations)
	assert.False(t, result.BudgetExhausted)
	require.Len(t, result.ToolsUsed, 1)
	assert.Equal(t, "list_repos", result.ToolsUsed[0].Name)
	assert.Equal(t, []string{"server-token"}, f.github.credentials)

	stored := f.store.messagesOf(result.ConversationID)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"list_repos"}, stored[1].Metadata["tools_used"])
	assert.Equal(t, 2, stored[1].Metadata["iterations"])
}

func TestChatBudgetExhaustionIsSoft(t *testing.T) {
	f := newFixture(t)
	f.provider.CompleteFunc = func(llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		return toolCalls(call("", "get_repo", `{"owner":"janhq","repo":"jan"}`)), nil
	}

	result, err := f.service.Chat(context.Background(), Params{AgentID: "github-helper", Message: "loop forever"})
	require.NoError(t, err)

	assert.Len(t, f.provider.calls(), 3)
	assert.True(t, result.BudgetExhausted)
	assert.Equal(t, tool.FallbackContent, result.Response)
	assert.Equal(t, true, f.store.messagesOf(result.ConversationID)[1].Metadata["budget_exhausted"])
}

func TestChatCredentialOverride(t *testing.T) {
	f := newFixture(t)
	f.provider.CompleteFunc = scripted(
		toolCalls(call("call_a", "list_repos", `{}`)),
		text("done"),
	)

	_, err := f.service.Chat(context.Background(), Params{
		AgentID:     "github-helper",
		Message:     "list my repos",
		Credentials: tool.Credentials{"github": "user-token", "linear": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-token"}, f.github.credentials)
}

func TestChatContinuesConversation(t *testing.T) {
	f := newFixture(t)
	f.provider.CompleteFunc = scripted(text("first answer"), text("second answer"))
	temperature := 0.7

	first, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "first question"})
	require.NoError(t, err)

	second, err := f.service.Chat(context.Background(), Params{
		AgentID:        "plain",
		ConversationID: first.ConversationID,
		Message:        "second question",
		Temperature:    &temperature,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	calls := f.provider.calls()
	require.Len(t, calls, 2)
	require.NotNil(t, calls[1].Temperature)
	assert.InDelta(t, 0.7, *calls[1].Temperature, 1e-9)

	var contents []string
	for _, msg := range calls[1].Messages[1:] {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"first question", "first answer", "second question"}, contents)
	assert.Len(t, f.store.messagesOf(first.ConversationID), 4)
}

func TestChatConversationOfAnotherAgent(t *testing.T) {
	f := newFixture(t)
	f.provider.CompleteFunc = scripted(text("hi"))

	first, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "hello"})
	require.NoError(t, err)

	_, err = f.service.Chat(context.Background(), Params{
		AgentID:        "github-helper",
		ConversationID: first.ConversationID,
		Message:        "hijack",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Len(t, f.store.messagesOf(first.ConversationID), 2)
	assert.Len(t, f.provider.calls(), 1)
}

func TestChatUnknownConversation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Chat(context.Background(), Params{AgentID: "plain", ConversationID: "conv_missing", Message: "hello"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Empty(t, f.provider.calls())
}

func TestChatModelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want platformerrors.ErrorType
	}{
		{name: "unreachable", err: llm.NewTransportError("fake", errors.New("connection refused")), want: platformerrors.ErrorTypeServiceUnavailable},
		{name: "server error", err: llm.NewStatusError("fake", http.StatusBadGateway, errors.New("bad gateway")), want: platformerrors.ErrorTypeServiceUnavailable},
		{name: "rejected", err: llm.NewStatusError("fake", http.StatusBadRequest, errors.New("unknown model")), want: platformerrors.ErrorTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.provider.CompleteFunc = func(llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
				return nil, tt.err
			}

			for _, agentID := range []string{"plain", "github-helper"} {
				_, err := f.service.Chat(context.Background(), Params{AgentID: agentID, Message: "hello"})
				require.Error(t, err)
				assert.True(t, platformerrors.IsErrorType(err, tt.want), "agent %s: %v", agentID, err)
			}
		})
	}
}

func TestChatStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.appendErr = platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "disk full", nil)

	_, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "hello"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError))
	assert.Empty(t, f.provider.calls())
}

func TestChatLockFailure(t *testing.T) {
	f := newFixture(t)
	f.locker.err = context.DeadlineExceeded

	_, err := f.service.Chat(context.Background(), Params{AgentID: "plain", Message: "hello"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeServiceUnavailable))
}

func TestChatStreamWithoutTools(t *testing.T) {
	f := newFixture(t)
	stream := &sliceStream{fragments: []string{"Hel", "lo", "!"}, usage: &llm.Usage{CompletionTokens: 3}}
	f.provider.StreamFunc = func(llm.ChatCompletionRequest) (llm.Stream, error) { return stream, nil }
	sink := &recordingSink{}

	result, err := f.service.ChatStream(context.Background(), Params{AgentID: "plain", Message: "greet me"}, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo", "!"}, sink.fragments)
	assert.Equal(t, "Hello!", result.Response)
	assert.Equal(t, 3, result.Usage.CompletionTokens)
	assert.True(t, stream.closed)
	assert.Equal(t, 1, f.provider.streams)

	stored := f.store.messagesOf(result.ConversationID)
	require.Len(t, stored, 2)
	assert.Equal(t, "Hello!", stored[1].Content)
}

func TestChatStreamWithTools(t *testing.T) {
	f := newFixture(t)
	f.provider.CompleteFunc = scripted(
		toolCalls(call("call_1", "list_repos", `{}`), call("call_2", "unknown_fn", `{}`)),
		text("Two calls made."),
	)
	sink := &recordingSink{}

	result, err := f.service.ChatStream(context.Background(), Params{AgentID: "github-helper", Message: "list my repos"}, sink)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"call_1", "call_2"}, sink.started)
	assert.ElementsMatch(t, []string{"call_1", "call_2"}, sink.finished)
	assert.Equal(t, []string{"Two calls made."}, sink.fragments)
	assert.Zero(t, f.provider.streams)

	require.Len(t, result.ToolsUsed, 2)
	assert.Equal(t, "list_repos", result.ToolsUsed[0].Name)
	assert.Contains(t, result.ToolsUsed[1].Content, `"error"`)
}

func TestChatStreamRequiresSink(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ChatStream(context.Background(), Params{AgentID: "plain", Message: "hi"}, nil)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}

func TestAgentTools(t *testing.T) {
	f := newFixture(t)

	descriptors, err := f.service.AgentTools(context.Background(), "github-helper")
	require.NoError(t, err)
	var names []string
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"list_repos", "get_repo"}, names)

	descriptors, err = f.service.AgentTools(context.Background(), "plain")
	require.NoError(t, err)
	assert.NotNil(t, descriptors)
	assert.Empty(t, descriptors)
}

func TestSystemPromptSkipsEmptyMemory(t *testing.T) {
	prompt := systemPrompt(agent.Definition{Instructions: "  Be kind.  "}, []*conversation.MemoryBlock{
		{Label: "blank", Value: "   "},
		{Label: "goals", Value: "ship"},
	})
	assert.Equal(t, "Be kind.\n\n## Memory\n\n### goals\nship", prompt)
	assert.False(t, strings.Contains(prompt, "blank"))

	assert.Equal(t, "Be kind.", systemPrompt(agent.Definition{Instructions: "Be kind."}, nil))
}
