package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type fakeScheduleStore struct {
	schedules map[string]*models.Schedule
}

func (f *fakeScheduleStore) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if schedule, ok := f.schedules[id]; ok {
		copied := *schedule
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

type fakeExporter struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, scheduleID string) (*dto.ExportResult, error)
}

func (f *fakeExporter) Export(ctx context.Context, scheduleID string) (*dto.ExportResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, scheduleID)
	}
	return &dto.ExportResult{Success: true, ScheduleID: scheduleID, ExportID: "exp-1", StudentsExported: 10}, nil
}

type fakeImporter struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error)
}

func (f *fakeImporter) Import(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, scheduleID, jobID, method)
	}
	return &dto.ImportResult{Success: true, ScheduleID: scheduleID, JobID: jobID, SectionsCreated: 4}, nil
}

func (f *fakeImporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGenClient struct {
	mu       sync.Mutex
	statuses []dto.JobStatus
	polls    int

	requestErr error
	jobID      string
}

func (f *fakeGenClient) RequestGeneration(ctx context.Context, req dto.GenerationJobRequest) (string, error) {
	if f.requestErr != nil {
		return "", f.requestErr
	}
	if f.jobID == "" {
		return "job-1", nil
	}
	return f.jobID, nil
}

func (f *fakeGenClient) JobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.polls
	f.polls++
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	status := f.statuses[idx]
	status.JobID = jobID
	return &status, nil
}

func newTestOrchestration(t *testing.T, exporter *fakeExporter, importer *fakeImporter, client *fakeGenClient, store *fakeScheduleStore) *OrchestrationService {
	t.Helper()
	if store == nil {
		store = &fakeScheduleStore{schedules: map[string]*models.Schedule{
			"sched-1": {ID: "sched-1", Name: "Fall", Status: models.ScheduleStatusDraft},
		}}
	}
	cfg := config.OptimizerConfig{PollInterval: time.Millisecond, PollMaxAttempts: 5}
	return NewOrchestrationService(exporter, importer, client, store, NewMetricsService(), cfg, zap.NewNop())
}

func mustRequest(t *testing.T, scheduleID string) dto.ScheduleGenerationRequest {
	t.Helper()
	req, err := dto.NewScheduleGenerationRequest(scheduleID, dto.GenerationModeFullyAutomated, nil, "")
	require.NoError(t, err)
	return req
}

func TestRunWaitCompletesAndImports(t *testing.T) {
	exporter := &fakeExporter{}
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{
		{Status: dto.JobStateProcessing, Progress: 40},
		{Status: dto.JobStateCompleted, Progress: 100},
	}}
	svc := newTestOrchestration(t, exporter, importer, client, nil)

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, dto.StageImport, result.Stage)
	assert.Equal(t, dto.JobStateCompleted, result.Status)
	assert.Equal(t, "job-1", result.JobID)
	require.NotNil(t, result.Import)
	assert.Equal(t, 4, result.Import.SectionsCreated)
	assert.Equal(t, 1, importer.callCount())
	assert.Empty(t, svc.ActiveRuns())
}

func TestRunExportFailureStopsWorkflow(t *testing.T) {
	exporter := &fakeExporter{fn: func(ctx context.Context, scheduleID string) (*dto.ExportResult, error) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no active students to schedule")
	}}
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}
	svc := newTestOrchestration(t, exporter, importer, client, nil)

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, dto.StageExport, result.Stage)
	assert.Equal(t, appErrors.ErrValidation.Code, result.ErrorCode)
	assert.Zero(t, importer.callCount())
	assert.Empty(t, result.JobID)
	assert.Empty(t, svc.ActiveRuns())
}

func TestRunUnknownScheduleRejectedBeforeExport(t *testing.T) {
	exporter := &fakeExporter{}
	svc := newTestOrchestration(t, exporter, &fakeImporter{}, &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}, nil)

	_, err := svc.Run(context.Background(), mustRequest(t, "missing"), true)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrScheduleNotFound))
	assert.Zero(t, exporter.calls)
}

func TestRunRejectsConcurrentRunOnSameSchedule(t *testing.T) {
	exportStarted := make(chan struct{})
	releaseExport := make(chan struct{})
	var startedOnce sync.Once
	exporter := &fakeExporter{fn: func(ctx context.Context, scheduleID string) (*dto.ExportResult, error) {
		startedOnce.Do(func() { close(exportStarted) })
		<-releaseExport
		return &dto.ExportResult{Success: true, ScheduleID: scheduleID}, nil
	}}
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}
	svc := newTestOrchestration(t, exporter, importer, client, nil)

	firstDone := make(chan *dto.GenerationRunResult, 1)
	go func() {
		result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
		require.NoError(t, err)
		firstDone <- result
	}()
	<-exportStarted

	_, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflictingOperation))

	close(releaseExport)
	result := <-firstDone
	assert.True(t, result.Success)

	// the slot frees once the first run finishes
	result2, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.True(t, result2.Success)
}

func TestRunPollingTimesOutWithoutImport(t *testing.T) {
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateProcessing, Progress: 10}}}
	svc := newTestOrchestration(t, &fakeExporter{}, importer, client, nil)
	svc.pollMaxAttempts = 3

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, dto.StagePoll, result.Stage)
	assert.Equal(t, dto.JobStateTimeout, result.Status)
	assert.Equal(t, appErrors.ErrOptimizationTimeout.Code, result.ErrorCode)
	assert.Zero(t, importer.callCount())
	assert.Equal(t, 3, client.polls)
}

func TestRunRemoteFailureReported(t *testing.T) {
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{
		{Status: dto.JobStateProcessing},
		{Status: dto.JobStateFailed, Message: "infeasible problem"},
	}}
	svc := newTestOrchestration(t, &fakeExporter{}, importer, client, nil)

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, dto.StagePoll, result.Stage)
	assert.Equal(t, dto.JobStateFailed, result.Status)
	assert.Equal(t, "infeasible problem", result.Message)
	assert.Zero(t, importer.callCount())
}

func TestRunCancelledDuringPolling(t *testing.T) {
	importer := &fakeImporter{}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateProcessing}}}
	svc := newTestOrchestration(t, &fakeExporter{}, importer, client, nil)
	svc.pollInterval = 50 * time.Millisecond
	svc.pollMaxAttempts = 100

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(75 * time.Millisecond)
		cancel()
	}()

	result, err := svc.Run(ctx, mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, dto.StagePoll, result.Stage)
	assert.Zero(t, importer.callCount())
}

func TestRunImportFailureIsFinal(t *testing.T) {
	importer := &fakeImporter{fn: func(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error) {
		return nil, appErrors.Clone(appErrors.ErrInternal, "failed to apply optimizer result")
	}}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}
	svc := newTestOrchestration(t, &fakeExporter{}, importer, client, nil)

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), true)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, dto.StageImport, result.Stage)
	assert.Equal(t, 1, importer.callCount())
}

func TestRunAsyncReturnsAcceptedAndFinishesInBackground(t *testing.T) {
	imported := make(chan struct{})
	importer := &fakeImporter{fn: func(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error) {
		defer close(imported)
		return &dto.ImportResult{Success: true, ScheduleID: scheduleID, JobID: jobID}, nil
	}}
	client := &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}
	svc := newTestOrchestration(t, &fakeExporter{}, importer, client, nil)

	result, err := svc.Run(context.Background(), mustRequest(t, "sched-1"), false)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.False(t, result.Success)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, dto.JobStateProcessing, result.Status)

	select {
	case <-imported:
	case <-time.After(2 * time.Second):
		t.Fatal("background import never ran")
	}

	// single-flight slot is released after the background run
	require.Eventually(t, func() bool {
		return len(svc.ActiveRuns()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCompare(t *testing.T) {
	store := &fakeScheduleStore{schedules: map[string]*models.Schedule{
		"a": {ID: "a", Name: "Plan A", HardScore: 0, SoftScore: 40, ConflictCount: 0},
		"b": {ID: "b", Name: "Plan B", HardScore: 2, SoftScore: 10, ConflictCount: 2},
		"c": {ID: "c", Name: "Plan C", HardScore: 0, SoftScore: 25, ConflictCount: 0},
		"d": {ID: "d", Name: "Plan D", HardScore: 0, SoftScore: 40, ConflictCount: 0},
	}}
	svc := newTestOrchestration(t, &fakeExporter{}, &fakeImporter{}, &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateCompleted}}}, store)

	tests := []struct {
		name string
		id1  string
		id2  string
		want string
	}{
		{"hard score dominates soft score", "a", "b", "a"},
		{"hard score dominates regardless of order", "b", "a", "a"},
		{"soft score breaks hard ties", "a", "c", "c"},
		{"identical scores are equivalent", "a", "d", dto.RecommendationEquivalent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			comparison, err := svc.Compare(context.Background(), tc.id1, tc.id2)
			require.NoError(t, err)
			assert.Equal(t, tc.want, comparison.Recommendation)
			assert.NotEmpty(t, comparison.Reason)
		})
	}

	t.Run("unknown schedule", func(t *testing.T) {
		_, err := svc.Compare(context.Background(), "a", "missing")
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrScheduleNotFound))
	})
}

func TestJobStatusRequiresJobID(t *testing.T) {
	svc := newTestOrchestration(t, &fakeExporter{}, &fakeImporter{}, &fakeGenClient{statuses: []dto.JobStatus{{Status: dto.JobStateProcessing}}}, nil)
	_, err := svc.JobStatus(context.Background(), "")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
