package handlers

import (
	"net/http"
	"strings"

	"journal-dashboard/internal/dashboard"

	"github.com/gin-gonic/gin"
)

// SearchHandler filters the entries on the current page.
type SearchHandler struct {
	sessions
}

func NewSearchHandler(host *dashboard.Host) *SearchHandler {
	return &SearchHandler{sessions{host: host}}
}

// SearchResponse is the response for an entry search
type SearchResponse struct {
	Results []dashboard.EntryView `json:"results"`
	Query   string                `json:"query"`
	Total   int                   `json:"total"`
}

// Search godoc
// @Summary Fuzzy search over the visible entries
// @Tags entries
// @Param q query string false "Search text"
// @Success 200 {object} SearchResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	results := ctrl.Search(q)
	c.JSON(http.StatusOK, SearchResponse{
		Results: results,
		Query:   q,
		Total:   len(results),
	})
}
