package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/handlers"
)

func registerAgentRoutes(router gin.IRouter, h *handlers.Provider) {
	agents := router.Group("/agents")
	agents.GET("", h.Agent.List)

	agent := agents.Group("/:agent_id")
	agent.GET("", h.Agent.Get)
	agent.GET("/tools", h.Agent.Tools)

	agent.POST("/chat", h.Chat.Chat)
	agent.POST("/chat/stream", h.Chat.Stream)

	agent.GET("/conversations", h.Conversation.ListByAgent)

	agent.GET("/memory", h.Memory.List)
	agent.PUT("/memory/:label", h.Memory.Set)
}
