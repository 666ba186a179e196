package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/response"
)

// SearchHandler exposes the cross-entity search endpoint.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler constructs SearchHandler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search godoc
// @Summary Search students, teachers, courses and rooms
// @Tags Search
// @Produce json
// @Param q query string true "Search query (min 2 characters)"
// @Param limit query int false "Max results per entity"
// @Success 200 {object} response.Envelope
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	results, err := h.search.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
