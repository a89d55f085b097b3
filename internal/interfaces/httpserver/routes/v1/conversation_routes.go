package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRouter, h *handlers.ConversationHandler) {
	conversations := router.Group("/conversations/:conversation_id")
	conversations.GET("", h.Get)
	conversations.GET("/messages", h.Messages)
	conversations.DELETE("", h.Delete)
}
