package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-agent-gateway/internal/domain/health"
)

// StatusHandler reports collaborator reachability.
type StatusHandler struct {
	checker StatusChecker
}

func NewStatusHandler(checker StatusChecker) *StatusHandler {
	return &StatusHandler{checker: checker}
}

// Status godoc
// @Summary      Service status
// @Description  Aggregates model runtime and store reachability. Degraded still answers 200.
// @Tags         status
// @Produce      json
// @Success      200  {object}  health.Report
// @Failure      503  {object}  health.Report
// @Router       /v1/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())
	c.JSON(statusCode(report), report)
}

// Ready answers the readiness probe.
func (h *StatusHandler) Ready(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())
	state := "ready"
	if !report.Status.IsServing() {
		state = "not_ready"
	}
	c.JSON(statusCode(report), gin.H{"status": state})
}

func statusCode(report health.Report) int {
	if report.Status.IsServing() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
