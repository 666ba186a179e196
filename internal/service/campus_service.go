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

type campusRepository interface {
	List(ctx context.Context) ([]models.Campus, error)
	FindByID(ctx context.Context, id string) (*models.Campus, error)
	Create(ctx context.Context, campus *models.Campus) error
}

// CreateCampusRequest holds payload for creating campuses.
type CreateCampusRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// CampusService handles campus use-cases.
type CampusService struct {
	repo      campusRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCampusService constructs the campus service.
func NewCampusService(repo campusRepository, validate *validator.Validate, logger *zap.Logger) *CampusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampusService{repo: repo, validator: validate, logger: logger}
}

// List returns all campuses.
func (s *CampusService) List(ctx context.Context) ([]models.Campus, error) {
	campuses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
	}
	return campuses, nil
}

// Get returns a single campus.
func (s *CampusService) Get(ctx context.Context, id string) (*models.Campus, error) {
	campus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	return campus, nil
}

// Create registers a new campus.
func (s *CampusService) Create(ctx context.Context, req CreateCampusRequest) (*models.Campus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campus payload")
	}
	campus := &models.Campus{Name: req.Name, Address: req.Address}
	if err := s.repo.Create(ctx, campus); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create campus")
	}
	return campus, nil
}
