package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/dto"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/middlewares"
)

// sseSink forwards answer fragments and tool events to the client. The
// response headers are written on the first event, so a turn that fails
// early can still be answered with a regular status code. Once the client
// disconnects events are dropped and the turn runs to completion.
type sseSink struct {
	tool.NopHook

	c       *gin.Context
	mu      sync.Mutex
	started bool
}

func newSSESink(c *gin.Context) *sseSink {
	return &sseSink{c: c}
}

// Started reports whether any event has been written.
func (s *sseSink) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *sseSink) Delta(fragment string) error {
	if fragment == "" {
		return nil
	}
	s.emit(EventDelta, dto.DeltaEvent{Content: fragment})
	return nil
}

func (s *sseSink) OnToolCallStart(ctx context.Context, event tool.ToolCallEvent) context.Context {
	s.emit(EventToolCall, dto.ToolCallEvent{
		ID:        event.CallID,
		Name:      event.Name,
		Arguments: event.Arguments,
		Iteration: event.Iteration,
	})
	return ctx
}

func (s *sseSink) OnToolCallFinish(_ context.Context, event tool.ToolCallEvent) {
	status := tool.ExecutionStatusCompleted
	if event.Result.IsError() {
		status = tool.ExecutionStatusFailed
	}
	s.emit(EventToolResult, dto.ToolResultEvent{
		ID:         event.CallID,
		Name:       event.Name,
		Status:     string(status),
		Content:    event.Result.Content(),
		DurationMs: event.Duration.Milliseconds(),
	})
}

func (s *sseSink) emit(event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c.Request.Context().Err() != nil {
		return
	}
	if !s.started {
		middlewares.PrepareSSE(s.c)
		s.c.Status(http.StatusOK)
		s.started = true
	}
	s.c.SSEvent(event, payload)
	s.c.Writer.Flush()
}
