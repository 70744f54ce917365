package handlers

import (
	"net/http"

	"journal-dashboard/internal/dashboard"
	"journal-dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	sessions
}

func NewSubscriptionHandler(host *dashboard.Host) *SubscriptionHandler {
	return &SubscriptionHandler{sessions{host: host}}
}

// ChangePlan godoc
// @Summary Upgrade or downgrade the subscription
// @Description A paid plan answers with the payment link; free downgrades immediately
// @Tags subscription
// @Param request body models.UpgradeRequest true "Target plan"
// @Success 200 {object} models.PlanChange
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /subscription [post]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req models.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	change, err := ctrl.ChangePlan(c.Request.Context(), req.Plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}
