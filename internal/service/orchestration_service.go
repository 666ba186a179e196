package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type generationClient interface {
	RequestGeneration(ctx context.Context, req dto.GenerationJobRequest) (string, error)
	JobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error)
}

type exportRunner interface {
	Export(ctx context.Context, scheduleID string) (*dto.ExportResult, error)
}

type importRunner interface {
	Import(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error)
}

type orchestrationScheduleStore interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
}

// OrchestrationService drives the full generation workflow: export the
// dataset, request a job, poll it to a terminal state and import the
// solution. At most one run per schedule is in flight at a time.
type OrchestrationService struct {
	exporter  exportRunner
	importer  importRunner
	client    generationClient
	schedules orchestrationScheduleStore
	metrics   *MetricsService
	logger    *zap.Logger

	pollInterval    time.Duration
	pollMaxAttempts int

	mu       sync.Mutex
	inFlight map[string]string // scheduleID -> jobID ("" until the job is accepted)
}

// NewOrchestrationService constructs the orchestration service.
func NewOrchestrationService(exporter exportRunner, importer importRunner, client generationClient,
	schedules orchestrationScheduleStore, metrics *MetricsService, cfg config.OptimizerConfig, logger *zap.Logger) *OrchestrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	attempts := cfg.PollMaxAttempts
	if attempts <= 0 {
		attempts = 60
	}
	return &OrchestrationService{
		exporter:        exporter,
		importer:        importer,
		client:          client,
		schedules:       schedules,
		metrics:         metrics,
		logger:          logger,
		pollInterval:    interval,
		pollMaxAttempts: attempts,
		inFlight:        make(map[string]string),
	}
}

// Run executes one generation workflow for the request. With wait set it
// blocks through polling and import and returns the final outcome. Without
// it the export and job submission still happen synchronously, then polling
// and import continue in the background and the accepted jobID is returned.
//
// Run returns an error only for pre-flight problems: a missing schedule or
// a concurrent run on the same schedule. Once the workflow starts, failures
// are reported inside the GenerationRunResult.
func (s *OrchestrationService) Run(ctx context.Context, req dto.ScheduleGenerationRequest, wait bool) (*dto.GenerationRunResult, error) {
	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, fmt.Sprintf("schedule %s not found", req.ScheduleID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if !s.acquire(req.ScheduleID) {
		return nil, appErrors.Clone(appErrors.ErrConflictingOperation,
			fmt.Sprintf("a generation run is already in progress for schedule %s", req.ScheduleID))
	}

	started := time.Now()
	done := s.metrics.GenerationStarted()

	finish := func(result *dto.GenerationRunResult) *dto.GenerationRunResult {
		s.release(req.ScheduleID)
		done()
		outcome := "success"
		if !result.Success {
			outcome = "failure"
			if result.Status == dto.JobStateTimeout {
				outcome = "timeout"
			}
		}
		s.metrics.ObserveGenerationRun(string(req.Mode), outcome, time.Since(started))
		return result
	}

	exportResult, err := s.exporter.Export(ctx, req.ScheduleID)
	if err != nil {
		return finish(s.failure(req, dto.StageExport, "", err)), nil
	}

	jobID, err := s.client.RequestGeneration(ctx, dto.GenerationJobRequest{
		ScheduleID:              req.ScheduleID,
		OptimizationTimeSeconds: req.OptimizationTimeSeconds,
		OptimizationMode:        req.OptimizationMode,
	})
	if err != nil {
		return finish(s.failure(req, dto.StageGenerate, "", err)), nil
	}
	s.setJob(req.ScheduleID, jobID)
	s.logger.Info("optimization job accepted",
		zap.String("schedule_id", req.ScheduleID),
		zap.String("job_id", jobID),
		zap.String("mode", string(req.Mode)),
		zap.Int("time_budget_seconds", req.OptimizationTimeSeconds))

	if !wait {
		go func() {
			// Detached from the request context. The budget covers the
			// full poll window plus the job's own optimization time.
			budget := time.Duration(s.pollMaxAttempts)*s.pollInterval +
				time.Duration(req.OptimizationTimeSeconds)*time.Second
			bgCtx, cancel := context.WithTimeout(context.Background(), budget)
			defer cancel()
			result := finish(s.awaitAndImport(bgCtx, req, jobID, exportResult))
			if result.Success {
				s.logger.Info("background generation run completed",
					zap.String("schedule_id", req.ScheduleID), zap.String("job_id", jobID))
			} else {
				s.logger.Warn("background generation run failed",
					zap.String("schedule_id", req.ScheduleID),
					zap.String("job_id", jobID),
					zap.String("stage", string(result.Stage)),
					zap.String("error_code", result.ErrorCode),
					zap.String("message", result.Message))
			}
		}()
		return &dto.GenerationRunResult{
			Accepted:   true,
			ScheduleID: req.ScheduleID,
			JobID:      jobID,
			Stage:      dto.StagePoll,
			Status:     dto.JobStateProcessing,
			Export:     exportResult,
		}, nil
	}

	return finish(s.awaitAndImport(ctx, req, jobID, exportResult)), nil
}

// awaitAndImport polls the job to a terminal state and imports the result
// of a completed job. Import failures are final, the workflow never retries
// them.
func (s *OrchestrationService) awaitAndImport(ctx context.Context, req dto.ScheduleGenerationRequest, jobID string, exportResult *dto.ExportResult) *dto.GenerationRunResult {
	status, err := s.poll(ctx, jobID)
	if err != nil {
		return s.failure(req, dto.StagePoll, jobID, err)
	}

	switch status.Status {
	case dto.JobStateCompleted:
		// proceed to import
	case dto.JobStateTimeout:
		result := s.failure(req, dto.StagePoll, jobID,
			appErrors.Clone(appErrors.ErrOptimizationTimeout, "optimization did not finish within the polling window"))
		result.Status = dto.JobStateTimeout
		return result
	default:
		message := status.Message
		if message == "" {
			message = fmt.Sprintf("optimization job ended in state %s", status.Status)
		}
		result := s.failure(req, dto.StagePoll, jobID, appErrors.Clone(appErrors.ErrOptimizerRejected, message))
		result.Status = status.Status
		return result
	}

	importResult, err := s.importer.Import(ctx, req.ScheduleID, jobID, req.Mode)
	if err != nil {
		return s.failure(req, dto.StageImport, jobID, err)
	}

	return &dto.GenerationRunResult{
		Success:    true,
		ScheduleID: req.ScheduleID,
		JobID:      jobID,
		Stage:      dto.StageImport,
		Status:     dto.JobStateCompleted,
		Export:     exportResult,
		Import:     importResult,
	}
}

// poll queries job status on a fixed interval until the job reaches a
// terminal state or the attempt budget runs out. Exhausting the budget
// yields a synthetic TIMEOUT status; the remote job may still be running.
func (s *OrchestrationService) poll(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= s.pollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			s.metrics.ObservePollAttempts(attempt - 1)
			return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation run cancelled")
		case <-timer.C:
		}

		status, err := s.client.JobStatus(ctx, jobID)
		if err != nil {
			// Unknown jobs will not recover; transient transport errors
			// are absorbed and the next tick retries.
			if appErrors.Is(err, appErrors.ErrUnknownJob) {
				s.metrics.ObservePollAttempts(attempt)
				return nil, err
			}
			s.logger.Warn("status poll failed", zap.String("job_id", jobID), zap.Int("attempt", attempt), zap.Error(err))
		} else {
			s.logger.Debug("status poll",
				zap.String("job_id", jobID),
				zap.String("status", string(status.Status)),
				zap.Int("progress", status.Progress),
				zap.Int("attempt", attempt))
			if status.Status.Terminal() {
				s.metrics.ObservePollAttempts(attempt)
				return status, nil
			}
		}

		timer.Reset(s.pollInterval)
	}

	s.metrics.ObservePollAttempts(s.pollMaxAttempts)
	return &dto.JobStatus{JobID: jobID, Status: dto.JobStateTimeout}, nil
}

// JobStatus proxies a point-in-time job status lookup.
func (s *OrchestrationService) JobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	if jobID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "jobId is required")
	}
	return s.client.JobStatus(ctx, jobID)
}

// Compare ranks two persisted schedules. Lower hard score wins outright,
// soft score breaks ties, equal scores on both components are reported as
// equivalent. Neither schedule is modified.
func (s *OrchestrationService) Compare(ctx context.Context, id1, id2 string) (*dto.ScheduleComparison, error) {
	first, err := s.loadForCompare(ctx, id1)
	if err != nil {
		return nil, err
	}
	second, err := s.loadForCompare(ctx, id2)
	if err != nil {
		return nil, err
	}

	comparison := &dto.ScheduleComparison{
		Schedule1ID:        first.ID,
		Schedule1Name:      first.Name,
		Schedule1HardScore: first.HardScore,
		Schedule1SoftScore: first.SoftScore,
		Schedule1Conflicts: first.ConflictCount,
		Schedule1Method:    first.GenerationMethod,
		Schedule2ID:        second.ID,
		Schedule2Name:      second.Name,
		Schedule2HardScore: second.HardScore,
		Schedule2SoftScore: second.SoftScore,
		Schedule2Conflicts: second.ConflictCount,
		Schedule2Method:    second.GenerationMethod,
	}

	switch {
	case first.HardScore < second.HardScore:
		comparison.Recommendation = first.ID
		comparison.Reason = fmt.Sprintf("%s has fewer hard constraint violations (%d vs %d)", first.Name, first.HardScore, second.HardScore)
	case second.HardScore < first.HardScore:
		comparison.Recommendation = second.ID
		comparison.Reason = fmt.Sprintf("%s has fewer hard constraint violations (%d vs %d)", second.Name, second.HardScore, first.HardScore)
	case first.SoftScore < second.SoftScore:
		comparison.Recommendation = first.ID
		comparison.Reason = fmt.Sprintf("hard scores tie at %d, %s has the better soft score (%d vs %d)", first.HardScore, first.Name, first.SoftScore, second.SoftScore)
	case second.SoftScore < first.SoftScore:
		comparison.Recommendation = second.ID
		comparison.Reason = fmt.Sprintf("hard scores tie at %d, %s has the better soft score (%d vs %d)", first.HardScore, second.Name, second.SoftScore, first.SoftScore)
	default:
		comparison.Recommendation = dto.RecommendationEquivalent
		comparison.Reason = "both schedules score identically on hard and soft constraints"
	}

	return comparison, nil
}

func (s *OrchestrationService) loadForCompare(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, fmt.Sprintf("schedule %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// failure builds a non-success result from a stage error, mapping typed
// errors onto their workflow error codes.
func (s *OrchestrationService) failure(req dto.ScheduleGenerationRequest, stage dto.GenerationRunStage, jobID string, err error) *dto.GenerationRunResult {
	code := appErrors.ErrInternal.Code
	message := err.Error()
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}
	s.logger.Warn("generation run failed",
		zap.String("schedule_id", req.ScheduleID),
		zap.String("stage", string(stage)),
		zap.String("error_code", code),
		zap.Error(err))
	return &dto.GenerationRunResult{
		Success:    false,
		ScheduleID: req.ScheduleID,
		JobID:      jobID,
		Stage:      stage,
		Message:    message,
		ErrorCode:  code,
	}
}

func (s *OrchestrationService) acquire(scheduleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inFlight[scheduleID]; exists {
		return false
	}
	s.inFlight[scheduleID] = ""
	return true
}

func (s *OrchestrationService) setJob(scheduleID, jobID string) {
	s.mu.Lock()
	s.inFlight[scheduleID] = jobID
	s.mu.Unlock()
}

func (s *OrchestrationService) release(scheduleID string) {
	s.mu.Lock()
	delete(s.inFlight, scheduleID)
	s.mu.Unlock()
}

// ActiveRuns returns the schedules with a generation run in flight mapped
// to their job IDs.
func (s *OrchestrationService) ActiveRuns() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := make(map[string]string, len(s.inFlight))
	for scheduleID, jobID := range s.inFlight {
		runs[scheduleID] = jobID
	}
	return runs
}
