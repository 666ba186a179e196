package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Sections(ctx context.Context, scheduleID string) ([]models.Section, error)
	SlotAssignments(ctx context.Context, scheduleID string) ([]models.SlotAssignment, error)
	Counts(ctx context.Context, scheduleID string) (*models.ScheduleCounts, error)
	Delete(ctx context.Context, id string) error
}

// CreateScheduleRequest holds payload for creating draft schedules.
type CreateScheduleRequest struct {
	Name     string `json:"name" validate:"required"`
	TermName string `json:"term_name" validate:"required"`
}

// ScheduleDetail bundles a schedule with its contents.
type ScheduleDetail struct {
	models.Schedule
	Sections []models.Section        `json:"sections"`
	Slots    []models.SlotAssignment `json:"slots"`
	Counts   models.ScheduleCounts   `json:"counts"`
}

// ScheduleService handles timetable read and lifecycle use-cases. Optimizer
// write-backs go through the import workflow, not this service.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// List returns all schedules.
func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns a schedule with its sections, slots and content counts.
func (s *ScheduleService) Get(ctx context.Context, id string) (*ScheduleDetail, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	sections, err := s.repo.Sections(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule sections")
	}
	slots, err := s.repo.SlotAssignments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot assignments")
	}
	counts, err := s.repo.Counts(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count schedule contents")
	}
	return &ScheduleDetail{Schedule: *schedule, Sections: sections, Slots: slots, Counts: *counts}, nil
}

// Create registers a new draft schedule.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule := &models.Schedule{
		Name:             req.Name,
		TermName:         req.TermName,
		Status:           models.ScheduleStatusDraft,
		GenerationMethod: "MANUAL",
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, nil
}

// Delete removes a schedule and all its contents.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrScheduleNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}
