package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/response"
)

// CampusHandler exposes campus endpoints.
type CampusHandler struct {
	campuses *service.CampusService
}

// NewCampusHandler constructs CampusHandler.
func NewCampusHandler(campuses *service.CampusService) *CampusHandler {
	return &CampusHandler{campuses: campuses}
}

// List godoc
// @Summary List campuses
// @Tags Campuses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campuses [get]
func (h *CampusHandler) List(c *gin.Context) {
	campuses, err := h.campuses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses, nil)
}

// Get godoc
// @Summary Get campus detail
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus ID"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [get]
func (h *CampusHandler) Get(c *gin.Context) {
	campus, err := h.campuses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campus, nil)
}

// Create godoc
// @Summary Create campus
// @Tags Campuses
// @Accept json
// @Produce json
// @Param payload body service.CreateCampusRequest true "Campus payload"
// @Success 201 {object} response.Envelope
// @Router /campuses [post]
func (h *CampusHandler) Create(c *gin.Context) {
	var req service.CreateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	campus, err := h.campuses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, campus)
}
