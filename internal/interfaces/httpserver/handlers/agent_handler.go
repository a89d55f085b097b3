package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/dto"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/responses"
)

// AgentHandler exposes the read-only agent registry.
type AgentHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewAgentHandler(service ChatService, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		service: service,
		log:     log.With().Str("handler", "agent").Logger(),
	}
}

// List godoc
// @Summary      List agents
// @Description  Returns every agent loaded at startup.
// @Tags         agents
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.AgentResponse]
// @Router       /v1/agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewAgentList(h.service.Agents()))
}

// Get godoc
// @Summary      Get an agent
// @Tags         agents
// @Produce      json
// @Param        agent_id  path      string  true  "Agent ID"
// @Success      200       {object}  dto.AgentResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id} [get]
func (h *AgentHandler) Get(c *gin.Context) {
	def, err := h.service.Agent(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to load agent")
		return
	}
	c.JSON(http.StatusOK, def.Record())
}

// Tools godoc
// @Summary      List agent tools
// @Description  Returns the functions the agent is allowed to call, with their parameter schemas.
// @Tags         agents
// @Produce      json
// @Param        agent_id  path      string  true  "Agent ID"
// @Success      200       {object}  dto.ListResponse[dto.ToolResponse]
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/tools [get]
func (h *AgentHandler) Tools(c *gin.Context) {
	descriptors, err := h.service.AgentTools(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to list agent tools")
		return
	}
	c.JSON(http.StatusOK, dto.NewToolList(descriptors))
}
