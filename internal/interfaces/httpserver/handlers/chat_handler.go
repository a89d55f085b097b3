package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/infrastructure/observability"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/dto"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// SSE event names of the streaming chat endpoint.
const (
	EventDelta      = "chat.delta"
	EventToolCall   = "chat.tool_call"
	EventToolResult = "chat.tool_result"
	EventCompleted  = "chat.completed"
	EventError      = "chat.error"
)

// ChatHandler runs chat turns against an agent.
type ChatHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewChatHandler(service ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Chat godoc
// @Summary      Chat with an agent
// @Description  Runs one conversation turn. When the agent has tools the model may call them
// @Description  repeatedly, up to the configured iteration budget, before the final answer is returned.
// @Description  Omit conversationId to start a new conversation.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        agent_id          path      string            true   "Agent ID"
// @Param        X-GitHub-Token    header    string            false  "GitHub token for this request"
// @Param        X-Linear-Api-Key  header    string            false  "Linear API key for this request"
// @Param        request           body      dto.ChatRequest   true   "Chat request"
// @Success      200               {object}  dto.ChatResponse
// @Failure      400               {object}  responses.ErrorResponse
// @Failure      404               {object}  responses.ErrorResponse
// @Failure      409               {object}  responses.ErrorResponse
// @Failure      502               {object}  responses.ErrorResponse
// @Failure      503               {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	agentID := c.Param("agent_id")
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}

	// The turn is persisted even when the client goes away.
	ctx, span := observability.StartChatSpan(context.WithoutCancel(c.Request.Context()), agentID, req.ConversationID, false)
	defer span.End()

	result, err := h.service.Chat(ctx, req.Params(agentID, credentialOverrides(c)))
	if err != nil {
		observability.RecordError(span, err)
		responses.HandleError(c, h.log, err, "chat failed")
		return
	}
	c.JSON(http.StatusOK, dto.NewChatResponse(result))
}

// Stream godoc
// @Summary      Chat with an agent over SSE
// @Description  Same turn as the chat endpoint, streamed as Server-Sent Events:
// @Description  - `chat.delta`: a fragment of the answer
// @Description  - `chat.tool_call` / `chat.tool_result`: each function call and its outcome
// @Description  - `chat.completed`: the full chat response
// @Description  - `chat.error`: the error envelope, when the turn fails after streaming started
// @Description  Errors raised before the first event are returned as plain JSON.
// @Tags         chat
// @Accept       json
// @Produce      text/event-stream
// @Param        agent_id          path      string            true   "Agent ID"
// @Param        X-GitHub-Token    header    string            false  "GitHub token for this request"
// @Param        X-Linear-Api-Key  header    string            false  "Linear API key for this request"
// @Param        request           body      dto.ChatRequest   true   "Chat request"
// @Success      200               {string}  string  "SSE stream"
// @Failure      400               {object}  responses.ErrorResponse
// @Failure      404               {object}  responses.ErrorResponse
// @Failure      409               {object}  responses.ErrorResponse
// @Failure      503               {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/chat/stream [post]
func (h *ChatHandler) Stream(c *gin.Context) {
	agentID := c.Param("agent_id")
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}

	ctx, span := observability.StartChatSpan(context.WithoutCancel(c.Request.Context()), agentID, req.ConversationID, true)
	defer span.End()

	sink := newSSESink(c)
	result, err := h.service.ChatStream(ctx, req.Params(agentID, credentialOverrides(c)), sink)
	if err != nil {
		observability.RecordError(span, err)
		if !sink.Started() {
			responses.HandleError(c, h.log, err, "chat failed")
			return
		}
		h.log.Error().Err(err).Str("agent_id", agentID).Msg("chat stream failed")
		_, body := platformerrors.ErrorBody(err)
		sink.emit(EventError, body)
		return
	}
	sink.emit(EventCompleted, dto.NewChatResponse(result))
}
