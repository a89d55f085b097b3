package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

func newToolbox(t *testing.T, executors ...Executor) *Toolbox {
	t.Helper()
	registry, err := NewRegistry(executors...)
	require.NoError(t, err)
	box, unresolved := registry.Toolbox(registry.Services())
	require.Empty(t, unresolved)
	return box
}

func baseMessages() []llm.ChatMessage {
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: "You are a helpful engineering assistant."},
		{Role: llm.RoleUser, Content: "list my repos"},
	}
}

func TestOrchestratorListReposScenario(t *testing.T) {
	github := newFuncExecutor("github", "list_repos")
	var gotCredential string
	github.ExecuteFunc = func(_ context.Context, name string, _ map[string]any, credential string) Result {
		gotCredential = credential
		return Succeeded([]map[string]any{})
	}

	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("call_abc", "list_repos", `{}`)),
		textResponse("You do not have any repositories yet."),
	}}

	orch := NewOrchestrator(provider, Options{})
	result, err := orch.Execute(context.Background(), ExecuteParams{
		Model:       "llama3.1",
		Messages:    baseMessages(),
		Toolbox:     newToolbox(t, github),
		Credentials: Credentials{"github": "ghp_test"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls())
	assert.Equal(t, 2, result.Iterations)
	assert.False(t, result.BudgetExhausted)
	assert.Equal(t, "You do not have any repositories yet.", result.Content)
	assert.Equal(t, "ghp_test", gotCredential)

	require.Len(t, result.Executions, 1)
	assert.Equal(t, "list_repos", result.Executions[0].ToolName)
	assert.Equal(t, ExecutionStatusCompleted, result.Executions[0].Status)

	second := provider.requests[1]
	require.Len(t, second.Messages, 4)
	assert.Equal(t, llm.RoleAssistant, second.Messages[2].Role)
	require.Len(t, second.Messages[2].ToolCalls, 1)
	assert.Equal(t, "call_abc", second.Messages[2].ToolCalls[0].ID)
	assert.Equal(t, llm.RoleTool, second.Messages[3].Role)
	assert.Equal(t, "call_abc", second.Messages[3].ToolCallID)
	assert.Equal(t, "[]", second.Messages[3].Content)
	assert.Len(t, second.Tools, 1)
}

func TestOrchestratorDoesNotMutateInput(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("c1", "list_repos", `{}`)),
		textResponse("done"),
	}}
	input := baseMessages()

	_, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: input,
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.NoError(t, err)
	assert.Len(t, input, 2)
}

func TestOrchestratorBudgetExhausted(t *testing.T) {
	provider := &scriptedProvider{
		repeat: toolCallResponse("still checking", callOf("c", "list_repos", `{}`)),
	}
	hook := &recordingHook{}

	result, err := NewOrchestrator(provider, Options{MaxIterations: 3, Hook: hook}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls())
	assert.True(t, result.BudgetExhausted)
	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t, "still checking", result.Content)
	require.Len(t, hook.runs, 1)
	assert.True(t, hook.runs[0].BudgetExhausted)
}

func TestOrchestratorBudgetExhaustedWithoutText(t *testing.T) {
	provider := &scriptedProvider{
		repeat: toolCallResponse("", callOf("c", "list_repos", `{}`)),
	}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: "sys"},
			{Role: llm.RoleAssistant, Content: "an answer from an earlier turn"},
			{Role: llm.RoleUser, Content: "again"},
		},
		Toolbox: newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxIterations, provider.calls())
	assert.True(t, result.BudgetExhausted)
	assert.Equal(t, FallbackContent, result.Content)
}

func TestOrchestratorParamsOverrideIterations(t *testing.T) {
	provider := &scriptedProvider{
		repeat: toolCallResponse("", callOf("c", "list_repos", `{}`)),
	}

	result, err := NewOrchestrator(provider, Options{MaxIterations: 10}).Execute(context.Background(), ExecuteParams{
		Messages:      baseMessages(),
		Toolbox:       newToolbox(t, newFuncExecutor("github", "list_repos")),
		MaxIterations: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls())
	assert.True(t, result.BudgetExhausted)
}

func TestOrchestratorUnknownFunctionIsIsolated(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("",
			callOf("call_1", "delete_everything", `{}`),
			callOf("call_2", "list_repos", `{}`),
		),
		textResponse("Here are your repositories."),
	}}
	github := newFuncExecutor("github", "list_repos")
	github.ExecuteFunc = func(context.Context, string, map[string]any, string) Result {
		return Succeeded([]map[string]any{{"name": "jan"}})
	}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	require.Len(t, result.Executions, 2)
	assert.Equal(t, ExecutionStatusFailed, result.Executions[0].Status)
	assert.Contains(t, result.Executions[0].Result.ErrorMessage(), "unknown function")
	assert.Equal(t, ExecutionStatusCompleted, result.Executions[1].Status)

	toolMessages := provider.requests[1].Messages[3:]
	require.Len(t, toolMessages, 2)

	var failure map[string]string
	require.NoError(t, json.Unmarshal([]byte(toolMessages[0].Content), &failure))
	assert.Contains(t, failure["error"], "delete_everything")

	var repos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(toolMessages[1].Content), &repos))
	assert.Equal(t, "jan", repos[0]["name"])
}

func TestOrchestratorPreservesSubmissionOrder(t *testing.T) {
	const batch = 5
	github := newFuncExecutor("github", "get_repo")
	github.ExecuteFunc = func(_ context.Context, _ string, args map[string]any, _ string) Result {
		index := int(args["index"].(float64))
		// later submissions finish first
		time.Sleep(time.Duration(batch-index) * 10 * time.Millisecond)
		return Succeeded(map[string]any{"index": index})
	}

	var calls []llm.ToolCall
	for i := 0; i < batch; i++ {
		calls = append(calls, callOf(fmt.Sprintf("call_%d", i), "get_repo", fmt.Sprintf(`{"index": %d}`, i)))
	}
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", calls...),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	require.Len(t, result.Executions, batch)
	toolMessages := provider.requests[1].Messages[3:]
	require.Len(t, toolMessages, batch)
	for i := 0; i < batch; i++ {
		assert.Equal(t, calls[i].ID, result.Executions[i].CallID)
		assert.Equal(t, calls[i].ID, toolMessages[i].ToolCallID)
		assert.JSONEq(t, fmt.Sprintf(`{"index": %d}`, i), toolMessages[i].Content)
	}
}

func TestOrchestratorDispatchesSiblingsConcurrently(t *testing.T) {
	var started atomic.Int32
	allStarted := make(chan struct{})

	github := newFuncExecutor("github", "get_repo")
	github.ExecuteFunc = func(context.Context, string, map[string]any, string) Result {
		if started.Add(1) == 2 {
			close(allStarted)
		}
		select {
		case <-allStarted:
			return Succeeded("ok")
		case <-time.After(2 * time.Second):
			return Failed("sibling call never started")
		}
	}

	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("a", "get_repo", `{}`), callOf("b", "get_repo", `{}`)),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	for _, execution := range result.Executions {
		assert.False(t, execution.Result.IsError(), execution.Result.ErrorMessage())
	}
}

func TestOrchestratorArgumentPayloads(t *testing.T) {
	var received []map[string]any
	github := newFuncExecutor("github", "get_repo")
	github.ExecuteFunc = func(_ context.Context, _ string, args map[string]any, _ string) Result {
		received = append(received, args)
		return Succeeded("ok")
	}

	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("s", "get_repo", `"{\"owner\":\"janhq\",\"repo\":\"jan\"}"`)),
		toolCallResponse("", callOf("bad", "get_repo", `"{not json"`)),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "janhq", received[0]["owner"])

	require.Len(t, result.Executions, 2)
	assert.Equal(t, ExecutionStatusCompleted, result.Executions[0].Status)
	assert.Equal(t, ExecutionStatusFailed, result.Executions[1].Status)
	assert.Contains(t, result.Executions[1].Result.ErrorMessage(), "could not parse arguments")
	assert.Equal(t, "done", result.Content)
}

func TestOrchestratorRecoversExecutorPanics(t *testing.T) {
	github := newFuncExecutor("github", "get_repo", "list_repos")
	github.ExecuteFunc = func(_ context.Context, name string, _ map[string]any, _ string) Result {
		if name == "get_repo" {
			panic("nil pointer")
		}
		return Succeeded("fine")
	}
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("p", "get_repo", `{}`), callOf("q", "list_repos", `{}`)),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	assert.True(t, result.Executions[0].Result.IsError())
	assert.False(t, result.Executions[1].Result.IsError())
}

func TestOrchestratorToolTimeout(t *testing.T) {
	github := newFuncExecutor("github", "get_repo")
	github.ExecuteFunc = func(ctx context.Context, _ string, _ map[string]any, _ string) Result {
		<-ctx.Done()
		return Failed("request aborted: %v", ctx.Err())
	}
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("slow", "get_repo", `{}`)),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{ToolTimeout: 20 * time.Millisecond}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	require.Len(t, result.Executions, 1)
	assert.Contains(t, result.Executions[0].Result.ErrorMessage(), "did not complete")
}

func TestOrchestratorModelErrorPropagatesWithoutRetry(t *testing.T) {
	runtimeErr := llm.NewTransportError("scripted", errors.New("connection refused"))
	provider := &scriptedProvider{err: runtimeErr}
	hook := &recordingHook{}

	result, err := NewOrchestrator(provider, Options{Hook: hook}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, llm.IsUnreachable(err))
	assert.Equal(t, 1, provider.calls())
	assert.Equal(t, 1, hook.modelErrors)
	require.Len(t, hook.runs, 1)
	assert.Error(t, hook.runs[0].Err)
}

func TestOrchestratorEmptyChoicesIsFailure(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{{Model: "m"}}}

	_, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.ErrorIs(t, err, llm.ErrNoChoices)
	assert.False(t, llm.IsUnreachable(err))
}

func TestOrchestratorAssignsMissingCallIDs(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("", "list_repos", `{}`)),
		textResponse("done"),
	}}

	result, err := NewOrchestrator(provider, Options{}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
	})

	require.NoError(t, err)
	issued := provider.requests[1].Messages[2].ToolCalls[0].ID
	assert.NotEmpty(t, issued)
	assert.Equal(t, issued, provider.requests[1].Messages[3].ToolCallID)
	assert.Equal(t, issued, result.Executions[0].CallID)
}

func TestOrchestratorHooksAndUsage(t *testing.T) {
	base := &recordingHook{}
	perRun := &recordingHook{}
	first := toolCallResponse("", callOf("a", "list_repos", `{}`), callOf("b", "nope", `{}`))
	first.Usage = &llm.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}
	first.Metrics = &llm.RuntimeMetrics{TotalDuration: time.Second, EvalCount: 2}
	second := textResponse("done")
	second.Usage = &llm.Usage{PromptTokens: 20, CompletionTokens: 5, TotalTokens: 25}
	second.Metrics = &llm.RuntimeMetrics{TotalDuration: 2 * time.Second, EvalCount: 5}
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{first, second}}

	result, err := NewOrchestrator(provider, Options{Hook: base}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, newFuncExecutor("github", "list_repos")),
		Hook:     perRun,
	})

	require.NoError(t, err)
	for _, hook := range []*recordingHook{base, perRun} {
		assert.Equal(t, 2, hook.modelStarts)
		assert.Equal(t, 2, hook.toolStarts)
		assert.Equal(t, 1, hook.toolErrors)
		require.Len(t, hook.runs, 1)
		assert.Equal(t, 2, hook.runs[0].ToolCalls)
	}
	assert.Equal(t, 37, result.Usage.TotalTokens)
	assert.Equal(t, 7, result.Metrics.EvalCount)
	assert.Equal(t, 3*time.Second, result.Metrics.TotalDuration)
}

func TestOrchestratorTruncatesLargeResults(t *testing.T) {
	github := newFuncExecutor("github", "get_file_contents")
	github.ExecuteFunc = func(context.Context, string, map[string]any, string) Result {
		return Succeeded("0123456789abcdef")
	}
	provider := &scriptedProvider{responses: []*llm.ChatCompletionResponse{
		toolCallResponse("", callOf("f", "get_file_contents", `{}`)),
		textResponse("done"),
	}}

	_, err := NewOrchestrator(provider, Options{MaxResultChars: 4}).Execute(context.Background(), ExecuteParams{
		Messages: baseMessages(),
		Toolbox:  newToolbox(t, github),
	})

	require.NoError(t, err)
	assert.Equal(t, llm.TruncateContent("0123456789abcdef", 4), provider.requests[1].Messages[3].Content)
}
