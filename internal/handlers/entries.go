package handlers

import (
	"net/http"
	"strconv"

	"journal-dashboard/internal/dashboard"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"

	"github.com/gin-gonic/gin"
)

type EntriesHandler struct {
	sessions
}

func NewEntriesHandler(host *dashboard.Host) *EntriesHandler {
	return &EntriesHandler{sessions{host: host}}
}

// FilterRequest selects the date range of the entries list.
type FilterRequest struct {
	Range     string `json:"range" binding:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// GetEntries godoc
// @Summary Load a page of entries
// @Tags entries
// @Param page query int false "Zero-based page" default(0)
// @Success 200 {object} dashboard.View
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /entries [get]
func (h *EntriesHandler) GetEntries(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "page must be a non-negative integer",
		})
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.Refresh(c.Request.Context(), page); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

func (h *EntriesHandler) NextPage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.NextPage(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

func (h *EntriesHandler) PrevPage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.PrevPage(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// ApplyFilter godoc
// @Summary Change the entries date range
// @Tags entries
// @Param request body FilterRequest true "Range"
// @Success 200 {object} dashboard.View
// @Failure 400 {object} models.ErrorResponse
// @Router /entries/filter [post]
func (h *EntriesHandler) ApplyFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	mode, err := query.ParseRangeMode(req.Range)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.ApplyFilter(c.Request.Context(), mode, req.StartDate, req.EndDate); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// CreateEntry godoc
// @Summary Save a journal entry
// @Tags entries
// @Param request body models.CreateEntryRequest true "Entry"
// @Success 201 {object} dashboard.View
// @Failure 400 {object} models.ErrorResponse
// @Router /entries [post]
func (h *EntriesHandler) CreateEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if _, err := ctrl.SaveEntry(c.Request.Context(), req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctrl.View())
}
