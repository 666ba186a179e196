package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

// CampusRepository persists campuses.
type CampusRepository struct {
	db *sqlx.DB
}

// NewCampusRepository constructs the repository.
func NewCampusRepository(db *sqlx.DB) *CampusRepository {
	return &CampusRepository{db: db}
}

// List returns all campuses.
func (r *CampusRepository) List(ctx context.Context) ([]models.Campus, error) {
	const query = `SELECT id, name, address, created_at, updated_at FROM campuses ORDER BY name`
	var campuses []models.Campus
	if err := r.db.SelectContext(ctx, &campuses, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// FindByID loads a campus by identifier.
func (r *CampusRepository) FindByID(ctx context.Context, id string) (*models.Campus, error) {
	const query = `SELECT id, name, address, created_at, updated_at FROM campuses WHERE id = $1`
	var campus models.Campus
	if err := r.db.GetContext(ctx, &campus, query, id); err != nil {
		return nil, err
	}
	return &campus, nil
}

// Create inserts a campus.
func (r *CampusRepository) Create(ctx context.Context, campus *models.Campus) error {
	if campus.ID == "" {
		campus.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	campus.CreatedAt = now
	campus.UpdatedAt = now

	const query = `
INSERT INTO campuses (id, name, address, created_at, updated_at)
VALUES (:id, :name, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, campus); err != nil {
		return fmt.Errorf("insert campus: %w", err)
	}
	return nil
}
