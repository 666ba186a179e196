package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

// DashboardRepository serves the aggregate queries behind the admin landing page.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// EntityCounts returns active entity totals in one round trip.
func (r *DashboardRepository) EntityCounts(ctx context.Context) (*models.EntityCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM students WHERE active = TRUE) AS students,
(SELECT COUNT(*) FROM teachers WHERE active = TRUE) AS teachers,
(SELECT COUNT(*) FROM courses WHERE active = TRUE) AS courses,
(SELECT COUNT(*) FROM rooms) AS rooms,
(SELECT COUNT(*) FROM schedules) AS schedules`
	var counts models.EntityCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}
	return &counts, nil
}

// LatestOptimizedSchedule returns the most recently imported schedule, or nil
// when no schedule has been optimized yet.
func (r *DashboardRepository) LatestOptimizedSchedule(ctx context.Context) (*models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules
WHERE status = $1 ORDER BY imported_at DESC NULLS LAST LIMIT 1`, scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, models.ScheduleStatusOptimized); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load latest optimized schedule: %w", err)
	}
	return &schedule, nil
}
