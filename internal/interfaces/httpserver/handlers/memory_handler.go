package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/dto"
	"github.com/janhq/jan-agent-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-agent-gateway/internal/utils/platformerrors"
)

// MemoryHandler exposes an agent's memory blocks.
type MemoryHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewMemoryHandler(service ChatService, log zerolog.Logger) *MemoryHandler {
	return &MemoryHandler{
		service: service,
		log:     log.With().Str("handler", "memory").Logger(),
	}
}

// List godoc
// @Summary      List agent memory
// @Tags         memory
// @Produce      json
// @Param        agent_id  path      string  true  "Agent ID"
// @Success      200       {object}  dto.ListResponse[dto.MemoryBlockResponse]
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/memory [get]
func (h *MemoryHandler) List(c *gin.Context) {
	blocks, err := h.service.ListMemory(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to list memory")
		return
	}
	c.JSON(http.StatusOK, dto.NewMemoryList(blocks))
}

// Set godoc
// @Summary      Set an agent memory block
// @Description  Creates or replaces the block. It is injected into the system prompt of later turns.
// @Tags         memory
// @Accept       json
// @Produce      json
// @Param        agent_id  path      string                true  "Agent ID"
// @Param        label     path      string                true  "Block label"
// @Param        request   body      dto.SetMemoryRequest  true  "Block value"
// @Success      200       {object}  dto.MemoryBlockResponse
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Router       /v1/agents/{agent_id}/memory/{label} [put]
func (h *MemoryHandler) Set(c *gin.Context) {
	var req dto.SetMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	block, err := h.service.SetMemory(c.Request.Context(), c.Param("agent_id"), c.Param("label"), *req.Value)
	if err != nil {
		responses.HandleError(c, h.log, err, "failed to set memory")
		return
	}
	c.JSON(http.StatusOK, dto.NewMemoryBlockResponse(block))
}
