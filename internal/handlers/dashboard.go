package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"journal-dashboard/internal/dashboard"
	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// sessions resolves the dashboard controller of the signed-in session.
type sessions struct {
	host *dashboard.Host
}

// controller returns the dashboard of the request's session. A dashboard
// created for a new session is initialized before use.
func (s sessions) controller(c *gin.Context) (*dashboard.Controller, bool) {
	session := middleware.SessionFrom(c)
	if session == nil {
		respondError(c, errorvalues.ErrAuthMissing)
		return nil, false
	}
	ctrl, fresh := s.host.For(session)
	if fresh {
		if err := ctrl.Init(c.Request.Context()); err != nil && !errors.Is(err, errorvalues.ErrSuperseded) {
			// failures are reported through the view notices
			slog.Warn("dashboard init incomplete", slog.String("error", err.Error()))
		}
	}
	return ctrl, true
}

type DashboardHandler struct {
	sessions
}

func NewDashboardHandler(host *dashboard.Host) *DashboardHandler {
	return &DashboardHandler{sessions{host: host}}
}

// GetDashboard godoc
// @Summary Current dashboard view
// @Tags dashboard
// @Success 200 {object} dashboard.View
// @Failure 302 "no session, redirect to login"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// Refresh reloads every view, keeping the current page.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.RefreshAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}
