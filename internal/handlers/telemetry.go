package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Live telemetry snapshot
// @Description  Latest sample plus connection state. The sample is retained while reconnecting so clients can show a stale value instead of no data.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.TelemetrySnapshot
// @Router       /api/telemetry [get]
func (h *Handler) telemetrySnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Live.Snapshot())
}
