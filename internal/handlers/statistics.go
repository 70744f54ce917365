package handlers

import (
	"net/http"

	"journal-dashboard/internal/dashboard"
	"journal-dashboard/internal/query"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	sessions
}

func NewStatisticsHandler(host *dashboard.Host) *StatisticsHandler {
	return &StatisticsHandler{sessions{host: host}}
}

// GetStatistics godoc
// @Summary Reload the analytics for a range
// @Description Stat cards, the four analytics charts and the insights for the range
// @Tags statistics
// @Param range query string false "7d, 30d, 365d or custom" default(30d)
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {object} dashboard.View
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	mode, err := query.ParseRangeMode(c.DefaultQuery("range", string(query.Range30d)))
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.SetAnalyticsRange(c.Request.Context(), mode, c.Query("start_date"), c.Query("end_date")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}
