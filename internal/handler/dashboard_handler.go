package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/response"
)

// DashboardHandler exposes the admin landing page summary.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler. A nil service means
// the feature is disabled and the endpoint answers 404.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Entity counts and the latest optimized schedule
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.dashboard == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "dashboard is disabled"))
		return
	}
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
