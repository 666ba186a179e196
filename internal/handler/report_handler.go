package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/response"
)

// RequestReportPayload selects the export format for a timetable report.
type RequestReportPayload struct {
	Format string `json:"format" binding:"required"`
}

// ReportHandler exposes asynchronous timetable export endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler. A nil service means the
// feature is disabled and every endpoint answers 404.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) disabled(c *gin.Context) bool {
	if h.reports != nil {
		return false
	}
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report generation is disabled"))
	return true
}

// Request godoc
// @Summary Queue a timetable export
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body RequestReportPayload true "Report format (csv or pdf)"
// @Success 202 {object} response.Envelope
// @Router /schedules/{id}/reports [post]
func (h *ReportHandler) Request(c *gin.Context) {
	if h.disabled(c) {
		return
	}
	var payload RequestReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.reports.Request(c.Request.Context(), c.Param("id"), models.ReportFormat(payload.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Get godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Report job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	if h.disabled(c) {
		return
	}
	job, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished report via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	if h.disabled(c) {
		return
	}
	path, err := h.reports.Download(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
