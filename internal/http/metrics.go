package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectshelf/internal/domain"
)

type engagementRequest struct {
	TimeSpent *int64 `json:"timeSpent" binding:"required"`
}

func (h *Handler) increment(field domain.MetricField) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.recordMetric(c, field, 1)
	}
}

func (h *Handler) incrementEngagementTime(c *gin.Context) {
	var req engagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.recordMetric(c, domain.MetricEngagementTime, *req.TimeSpent)
}

func (h *Handler) recordMetric(c *gin.Context, field domain.MetricField, amount int64) {
	m, err := h.metrics.Increment(c.Request.Context(), c.Param("portfolioId"), field, amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.telemetry != nil {
		h.telemetry.Engagement(string(field), amount)
	}
	c.JSON(http.StatusOK, toMetricsResponse(m))
}

func (h *Handler) getMetrics(c *gin.Context) {
	m, err := h.metrics.Get(c.Request.Context(), c.Param("portfolioId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMetricsResponse(m))
}
