package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

// ReportRepository persists timetable export jobs.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, schedule_id, format, status, file_path, download_url, error, created_at, updated_at`

// Create inserts a pending report job.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusPending
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	const query = `
INSERT INTO report_jobs (id, schedule_id, format, status, created_at, updated_at)
VALUES (:id, :schedule_id, :format, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("insert report job: %w", err)
	}
	return nil
}

// FindByID loads a report job by identifier.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM report_jobs WHERE id = $1`, reportColumns)
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing flips a job to PROCESSING.
func (r *ReportRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.ReportStatusProcessing, nil, nil, nil)
}

// MarkCompleted records the rendered file and its download URL.
func (r *ReportRepository) MarkCompleted(ctx context.Context, id, filePath, downloadURL string) error {
	return r.setStatus(ctx, id, models.ReportStatusCompleted, &filePath, &downloadURL, nil)
}

// MarkFailed records the failure reason.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.setStatus(ctx, id, models.ReportStatusFailed, nil, nil, &reason)
}

func (r *ReportRepository) setStatus(ctx context.Context, id string, status models.ReportStatus, filePath, downloadURL, reason *string) error {
	const query = `
UPDATE report_jobs SET status = $1, file_path = COALESCE($2, file_path),
download_url = COALESCE($3, download_url), error = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, status, filePath, downloadURL, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update report job status: %w", err)
	}
	return requireRowsAffected(result, "report job")
}
