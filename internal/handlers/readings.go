package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tempmonitor/internal/repository"

	"github.com/gin-gonic/gin"
)

// @Summary      List triggered readings
// @Description  Readings ascending by (recorded_at, id). Use 'after' (last seen id) with 'limit' for stable pages under concurrent inserts.
// @Tags         readings
// @Produce      json
// @Param        limit  query   int     false  "page size (0 = all, capped at 500)"
// @Param        after  query   string  false  "id of the last reading of the previous page"
// @Success      200  {array}   models.TriggeredReading
// @Failure      400  {object}  map[string]string
// @Router       /api/readings [get]
func (h *Handler) listReadings(c *gin.Context) {
	page := repository.ReadingPage{After: c.Query("after")}

	if qs := c.Query("limit"); qs != "" {
		limit, err := strconv.Atoi(qs)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		page.Limit = limit
	}

	readings, err := h.services.Readings.List(c.Request.Context(), page)
	if err != nil {
		if errors.Is(err, repository.ErrCursorNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown 'after' cursor"})
			return
		}
		if h.log != nil {
			h.log.Errorw("readings_list_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load readings"})
		return
	}
	c.JSON(http.StatusOK, readings)
}
