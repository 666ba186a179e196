package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.OptimizerConfig{
		BaseURL:        server.URL,
		HealthTimeout:  time.Second,
		RequestTimeout: time.Second,
	}, nil)
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	require.True(t, client.HealthCheck(context.Background()))
}

func TestHealthCheckUnreachable(t *testing.T) {
	client := NewClient(config.OptimizerConfig{
		BaseURL:       "http://127.0.0.1:1",
		HealthTimeout: 100 * time.Millisecond,
	}, nil)
	require.False(t, client.HealthCheck(context.Background()))
}

func TestHealthCheckUnhealthyStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	require.False(t, client.HealthCheck(context.Background()))
}

func TestExportSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export", r.URL.Path)
		var payload dto.ExportPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "sched-1", payload.ScheduleID)
		_ = json.NewEncoder(w).Encode(dto.ExportResult{
			Success:          true,
			ScheduleID:       payload.ScheduleID,
			ExportID:         "exp-1",
			ImportID:         "imp-1",
			StudentsExported: 2,
			CoursesExported:  1,
			TeachersExported: 1,
		})
	}))

	result, err := client.Export(context.Background(), dto.ExportPayload{ScheduleID: "sched-1"})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "exp-1", result.ExportID)
	require.Equal(t, 2, result.StudentsExported)
}

func TestExportBusinessRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.ExportResult{Success: false, Message: "schedule has no demand"})
	}))

	result, err := client.Export(context.Background(), dto.ExportPayload{ScheduleID: "sched-1"})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "schedule has no demand", result.Message)
}

func TestExportRejectedPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "malformed teacher reference"})
	}))

	_, err := client.Export(context.Background(), dto.ExportPayload{ScheduleID: "sched-1"})
	require.True(t, appErrors.Is(err, appErrors.ErrOptimizerRejected))
	require.Contains(t, err.Error(), "malformed teacher reference")
}

func TestExportUnreachable(t *testing.T) {
	client := NewClient(config.OptimizerConfig{
		BaseURL:        "http://127.0.0.1:1",
		RequestTimeout: 100 * time.Millisecond,
	}, nil)
	_, err := client.Export(context.Background(), dto.ExportPayload{ScheduleID: "sched-1"})
	require.True(t, appErrors.Is(err, appErrors.ErrOptimizerUnavailable))
}

func TestRequestGenerationValidatesBeforeNetwork(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected for invalid parameters")
	}))

	_, err := client.RequestGeneration(context.Background(), dto.GenerationJobRequest{
		ScheduleID:              "sched-1",
		OptimizationTimeSeconds: 0,
		OptimizationMode:        dto.OptimizationModeBalanced,
	})
	require.True(t, appErrors.Is(err, appErrors.ErrOptimizerRejected))

	_, err = client.RequestGeneration(context.Background(), dto.GenerationJobRequest{
		ScheduleID:              "sched-1",
		OptimizationTimeSeconds: 120,
		OptimizationMode:        "AGGRESSIVE",
	})
	require.True(t, appErrors.Is(err, appErrors.ErrOptimizerRejected))
}

func TestRequestGenerationReturnsJobID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"jobId": "job-42"})
	}))

	jobID, err := client.RequestGeneration(context.Background(), dto.GenerationJobRequest{
		ScheduleID:              "sched-1",
		OptimizationTimeSeconds: 120,
		OptimizationMode:        dto.OptimizationModeBalanced,
	})
	require.NoError(t, err)
	require.Equal(t, "job-42", jobID)
}

func TestJobStatusUnknownJob(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.JobStatus(context.Background(), "job-missing")
	require.True(t, appErrors.Is(err, appErrors.ErrUnknownJob))
}

func TestJobStatusRepeatedReadIsStable(t *testing.T) {
	hard, soft := 0, 12
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/status/job-42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.JobStatus{
			JobID:     "job-42",
			Status:    dto.JobStateCompleted,
			Progress:  100,
			HardScore: &hard,
			SoftScore: &soft,
		})
	}))

	first, err := client.JobStatus(context.Background(), "job-42")
	require.NoError(t, err)
	second, err := client.JobStatus(context.Background(), "job-42")
	require.NoError(t, err)

	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.HardScore, second.HardScore)
	require.Equal(t, first.SoftScore, second.SoftScore)
}

func TestResultFetch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/result/job-42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.OptimizerResult{
			JobID:      "job-42",
			ScheduleID: "sched-1",
			Sections:   []dto.ResultSection{{SectionID: "sec-1", CourseID: "course-1", TeacherID: "teacher-1"}},
			HardScore:  0,
			SoftScore:  30,
		})
	}))

	result, err := client.Result(context.Background(), "job-42")
	require.NoError(t, err)
	require.Equal(t, "sched-1", result.ScheduleID)
	require.Len(t, result.Sections, 1)
}
