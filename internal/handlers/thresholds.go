package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createThresholdRequest struct {
	Value *float64 `json:"value"`
}

// @Summary      List thresholds
// @Tags         thresholds
// @Produce      json
// @Success      200  {array}  models.Threshold
// @Router       /api/thresholds [get]
func (h *Handler) listThresholds(c *gin.Context) {
	thresholds, err := h.services.Thresholds.List(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("thresholds_list_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load thresholds"})
		return
	}
	c.JSON(http.StatusOK, thresholds)
}

// @Summary      Latest threshold
// @Description  Returns the most recently created threshold, or null if none exist.
// @Tags         thresholds
// @Produce      json
// @Success      200  {object}  models.Threshold
// @Router       /api/thresholds/latest [get]
func (h *Handler) latestThreshold(c *gin.Context) {
	latest, err := h.services.Thresholds.Latest(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("threshold_latest_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load threshold"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

// @Summary      Create threshold
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        threshold  body      createThresholdRequest  true  "trigger value in °C"
// @Success      201  {object}  models.Threshold
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/thresholds [post]
// @Security     BearerAuth
func (h *Handler) createThreshold(c *gin.Context) {
	var input createThresholdRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value required"})
		return
	}

	created, err := h.services.Thresholds.Create(c.Request.Context(), *input.Value)
	if err != nil {
		if h.log != nil {
			h.log.Infow("threshold_create_failed", "err", err, "username", c.GetString(ctxKeyUsername))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.log != nil {
		h.log.Infow("threshold_created", "value", created.Value, "username", c.GetString(ctxKeyUsername))
	}
	c.JSON(http.StatusCreated, created)
}
