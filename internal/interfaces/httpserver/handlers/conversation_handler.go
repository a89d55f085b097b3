package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/dto"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

const defaultListLimit = 50

// ConversationHandler exposes stored conversations and their messages.
type ConversationHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewConversationHandler(service ChatService, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// ListByAgent godoc
// @Summary      List an agent's conversations
// @Description  Most recently updated first.
// @Tags         conversations
// @Produce      json
// @Param        agent_id  path      string  true   "Agent ID"
// @Param        limit     query     int     false  "Maximum number of conversations (1-500, default 50)"
// @Success      200       {object}  dto.ListResponse[dto.ConversationResponse]
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/conversations [get]
func (h *ConversationHandler) ListByAgent(c *gin.Context) {
	limit, ok := h.bindLimit(c)
	if !ok {
		return
	}
	conversations, err := h.service.ListConversations(c.Request.Context(), c.Param("agent_id"), limit)
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationList(conversations))
}

// Get godoc
// @Summary      Get a conversation
// @Tags         conversations
// @Produce      json
// @Param        conversation_id  path      string  true  "Conversation ID"
// @Success      200              {object}  dto.ConversationResponse
// @Failure      404              {object}  responses.ErrorResponse
// @Router       /v1/conversations/{conversation_id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.GetConversation(c.Request.Context(), c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationResponse(conv))
}

// Messages godoc
// @Summary      List conversation messages
// @Description  Returns the newest messages, oldest first.
// @Tags         conversations
// @Produce      json
// @Param        conversation_id  path      string  true   "Conversation ID"
// @Param        limit            query     int     false  "Maximum number of messages (1-500, default 50)"
// @Success      200              {object}  dto.ListResponse[dto.MessageResponse]
// @Failure      400              {object}  responses.ErrorResponse
// @Failure      404              {object}  responses.ErrorResponse
// @Router       /v1/conversations/{conversation_id}/messages [get]
func (h *ConversationHandler) Messages(c *gin.Context) {
	limit, ok := h.bindLimit(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	conv, err := h.service.GetConversation(ctx, c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to load conversation")
		return
	}
	messages, err := h.service.ListMessages(ctx, conv.PublicID, limit)
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageList(messages))
}

// Delete godoc
// @Summary      Delete a conversation
// @Description  Removes the conversation and its messages. Waits for a turn in flight to finish.
// @Tags         conversations
// @Produce      json
// @Param        conversation_id  path      string  true  "Conversation ID"
// @Success      200              {object}  dto.DeletedResponse
// @Failure      404              {object}  responses.ErrorResponse
// @Failure      503              {object}  responses.ErrorResponse
// @Router       /v1/conversations/{conversation_id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	if err := h.service.DeleteConversation(c.Request.Context(), conversationID); err != nil {
		responses.HandleError(c, h.log, err, "failed to delete conversation")
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{ID: conversationID, Object: "conversation", Deleted: true})
}

func (h *ConversationHandler) bindLimit(c *gin.Context) (int, bool) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, "invalid query: "+err.Error())
		return 0, false
	}
	if query.Limit == 0 {
		return defaultListLimit, true
	}
	return query.Limit, true
}
