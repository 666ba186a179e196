package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
)

type stubScheduleFinder struct {
	schedules map[string]*models.Schedule
}

func (s *stubScheduleFinder) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if schedule, ok := s.schedules[id]; ok {
		return schedule, nil
	}
	return nil, sql.ErrNoRows
}

type stubWorkflowExporter struct{}

func (stubWorkflowExporter) Export(ctx context.Context, scheduleID string) (*dto.ExportResult, error) {
	return &dto.ExportResult{Success: true, ScheduleID: scheduleID, ExportID: "exp-1"}, nil
}

type stubWorkflowImporter struct{}

func (stubWorkflowImporter) Import(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error) {
	return &dto.ImportResult{Success: true, ScheduleID: scheduleID, JobID: jobID, SectionsCreated: 3}, nil
}

type stubWorkflowClient struct {
	healthy bool
}

func (s stubWorkflowClient) RequestGeneration(ctx context.Context, req dto.GenerationJobRequest) (string, error) {
	return "job-77", nil
}

func (s stubWorkflowClient) JobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	return &dto.JobStatus{JobID: jobID, Status: dto.JobStateCompleted, Progress: 100}, nil
}

func (s stubWorkflowClient) HealthCheck(ctx context.Context) bool {
	return s.healthy
}

func newOptimizerHandler(t *testing.T, healthy bool) *OptimizerHandler {
	t.Helper()
	store := &stubScheduleFinder{schedules: map[string]*models.Schedule{
		"sched-1": {ID: "sched-1", Name: "Fall", HardScore: 0, SoftScore: 30},
		"sched-2": {ID: "sched-2", Name: "Spring", HardScore: 1, SoftScore: 5},
	}}
	client := stubWorkflowClient{healthy: healthy}
	orchestration := service.NewOrchestrationService(
		stubWorkflowExporter{}, stubWorkflowImporter{}, client, store,
		service.NewMetricsService(),
		config.OptimizerConfig{PollInterval: time.Millisecond, PollMaxAttempts: 3},
		zap.NewNop(),
	)
	modes := service.NewModeService(client, true, zap.NewNop())
	return NewOptimizerHandler(orchestration, modes)
}

func performJSON(t *testing.T, handlerFn gin.HandlerFunc, method, target string, params gin.Params, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handlerFn(c)
	return recorder
}

func TestGenerateWaitReturnsCompletedRun(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Generate, http.MethodPost, "/schedules/sched-1/generate",
		gin.Params{{Key: "id", Value: "sched-1"}},
		gin.H{"mode": "FULLY_AUTOMATED", "wait": true})

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var envelope struct {
		Data dto.GenerationRunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, "job-77", envelope.Data.JobID)
	require.NotNil(t, envelope.Data.Import)
	assert.Equal(t, 3, envelope.Data.Import.SectionsCreated)
}

func TestGenerateAsyncReturnsAccepted(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Generate, http.MethodPost, "/schedules/sched-1/generate",
		gin.Params{{Key: "id", Value: "sched-1"}},
		gin.H{"mode": "AI_ASSISTED"})

	require.Equal(t, http.StatusAccepted, recorder.Code, recorder.Body.String())
	var envelope struct {
		Data dto.GenerationRunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Accepted)
	assert.Equal(t, "job-77", envelope.Data.JobID)
}

func TestGenerateRejectsManualMode(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Generate, http.MethodPost, "/schedules/sched-1/generate",
		gin.Params{{Key: "id", Value: "sched-1"}},
		gin.H{"mode": "MANUAL", "wait": true})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGenerateRejectsZeroTimeBudget(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Generate, http.MethodPost, "/schedules/sched-1/generate",
		gin.Params{{Key: "id", Value: "sched-1"}},
		gin.H{"mode": "AI_ASSISTED", "optimizationTimeSeconds": 0, "wait": true})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGenerateUnknownScheduleReturns404(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Generate, http.MethodPost, "/schedules/missing/generate",
		gin.Params{{Key: "id", Value: "missing"}},
		gin.H{"mode": "AI_ASSISTED", "wait": true})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestModesReflectOptimizerHealth(t *testing.T) {
	h := newOptimizerHandler(t, false)
	recorder := performJSON(t, h.Modes, http.MethodGet, "/optimizer/modes", nil, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data []dto.ModeAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 3)
	for _, mode := range envelope.Data {
		if mode.Mode == dto.GenerationModeManual {
			assert.True(t, mode.Available)
		} else {
			assert.False(t, mode.Available)
			assert.NotEmpty(t, mode.Reason)
		}
	}
}

func TestCompareEndpoint(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Compare, http.MethodGet, "/schedules/compare?schedule1=sched-1&schedule2=sched-2", nil, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data dto.ScheduleComparison `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "sched-1", envelope.Data.Recommendation)
}

func TestCompareRequiresBothIDs(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.Compare, http.MethodGet, "/schedules/compare?schedule1=sched-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestJobStatusEndpoint(t *testing.T) {
	h := newOptimizerHandler(t, true)
	recorder := performJSON(t, h.JobStatus, http.MethodGet, "/optimizer/jobs/job-77",
		gin.Params{{Key: "jobId", Value: "job-77"}}, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data dto.JobStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, dto.JobStateCompleted, envelope.Data.Status)
}
