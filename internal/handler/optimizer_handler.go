package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/response"
)

// GenerateScheduleRequest is the inbound payload for a generation run.
type GenerateScheduleRequest struct {
	Mode                    string `json:"mode" binding:"required"`
	OptimizationTimeSeconds *int   `json:"optimizationTimeSeconds"`
	OptimizationMode        string `json:"optimizationMode"`
	Wait                    bool   `json:"wait"`
}

// OptimizerHandler exposes the schedule generation workflow.
type OptimizerHandler struct {
	orchestration *service.OrchestrationService
	modes         *service.ModeService
}

// NewOptimizerHandler constructs OptimizerHandler.
func NewOptimizerHandler(orchestration *service.OrchestrationService, modes *service.ModeService) *OptimizerHandler {
	return &OptimizerHandler{orchestration: orchestration, modes: modes}
}

// Health godoc
// @Summary Optimizer availability probe
// @Description Runs a fresh health check against the optimizer service.
// @Tags Optimizer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /optimizer/health [get]
func (h *OptimizerHandler) Health(c *gin.Context) {
	available := h.modes.OptimizerAvailable(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"available": available}, nil)
}

// Modes godoc
// @Summary Generation modes with current availability
// @Description Manual mode is always available; optimizer-backed modes depend on a fresh health probe.
// @Tags Optimizer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /optimizer/modes [get]
func (h *OptimizerHandler) Modes(c *gin.Context) {
	modes := h.modes.AvailableModes(c.Request.Context())
	response.JSON(c, http.StatusOK, modes, nil)
}

// Generate godoc
// @Summary Run the schedule generation workflow
// @Description Exports the dataset, requests an optimization job and imports the result. With wait=false the job is submitted and polling continues in the background.
// @Tags Optimizer
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body GenerateScheduleRequest true "Generation parameters"
// @Success 200 {object} response.Envelope "Completed run (wait=true)"
// @Success 202 {object} response.Envelope "Accepted run (wait=false)"
// @Router /schedules/{id}/generate [post]
func (h *OptimizerHandler) Generate(c *gin.Context) {
	var payload GenerateScheduleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	req, err := dto.NewScheduleGenerationRequest(
		c.Param("id"),
		dto.GenerationMode(payload.Mode),
		payload.OptimizationTimeSeconds,
		dto.OptimizationMode(payload.OptimizationMode),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.orchestration.Run(c.Request.Context(), req, payload.Wait)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Accepted {
		response.Accepted(c, result)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// JobStatus godoc
// @Summary Point-in-time optimization job status
// @Tags Optimizer
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /optimizer/jobs/{jobId} [get]
func (h *OptimizerHandler) JobStatus(c *gin.Context) {
	status, err := h.orchestration.JobStatus(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Compare godoc
// @Summary Compare two schedules by optimization quality
// @Description Lower hard score wins outright, soft score breaks ties.
// @Tags Optimizer
// @Produce json
// @Param schedule1 query string true "First schedule ID"
// @Param schedule2 query string true "Second schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/compare [get]
func (h *OptimizerHandler) Compare(c *gin.Context) {
	id1 := c.Query("schedule1")
	id2 := c.Query("schedule2")
	if id1 == "" || id2 == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedule1 and schedule2 are required"))
		return
	}
	comparison, err := h.orchestration.Compare(c.Request.Context(), id1, id2)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparison, nil)
}
