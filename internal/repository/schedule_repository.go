package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

// ScheduleRepository persists authoritative timetables. All optimizer
// write-backs flow through ApplyImport so they commit as one unit.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, name, term_name, status, hard_score, soft_score, conflict_count, generation_method, imported_at, created_at, updated_at`

// List returns schedules ordered by recency.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules ORDER BY created_at DESC`, scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by its identifier.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id = $1`, scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create inserts a new draft schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusDraft
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `
INSERT INTO schedules (id, name, term_name, status, hard_score, soft_score, conflict_count, generation_method, created_at, updated_at)
VALUES (:id, :name, :term_name, :status, :hard_score, :soft_score, :conflict_count, :generation_method, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// Sections returns the sections of a schedule.
func (r *ScheduleRepository) Sections(ctx context.Context, scheduleID string) ([]models.Section, error) {
	const query = `SELECT id, schedule_id, course_id, teacher_id, capacity, created_at
FROM sections WHERE schedule_id = $1 ORDER BY created_at`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// SlotAssignments returns the slot assignments of a schedule.
func (r *ScheduleRepository) SlotAssignments(ctx context.Context, scheduleID string) ([]models.SlotAssignment, error) {
	const query = `SELECT id, schedule_id, section_id, day_of_week, period, room_id, created_at
FROM slot_assignments WHERE schedule_id = $1 ORDER BY day_of_week, period`
	var slots []models.SlotAssignment
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list slot assignments: %w", err)
	}
	return slots, nil
}

// Counts aggregates section/slot/placement totals, used to audit imports.
func (r *ScheduleRepository) Counts(ctx context.Context, scheduleID string) (*models.ScheduleCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM sections WHERE schedule_id = $1) AS sections,
(SELECT COUNT(*) FROM slot_assignments WHERE schedule_id = $1) AS slots,
(SELECT COUNT(*) FROM enrollment_placements WHERE schedule_id = $1) AS placements`
	var counts models.ScheduleCounts
	if err := r.db.GetContext(ctx, &counts, query, scheduleID); err != nil {
		return nil, fmt.Errorf("count schedule contents: %w", err)
	}
	return &counts, nil
}

// ApplyImport replaces the schedule's sections, slot assignments and
// enrollment placements with the optimizer result, and stamps the schedule
// row with the result's scores. Everything runs in one transaction: a
// failure at any point leaves the prior schedule fully intact.
func (r *ScheduleRepository) ApplyImport(ctx context.Context, imp models.ScheduleImport) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, query := range []string{
		`DELETE FROM enrollment_placements WHERE schedule_id = $1`,
		`DELETE FROM slot_assignments WHERE schedule_id = $1`,
		`DELETE FROM sections WHERE schedule_id = $1`,
	} {
		if _, err = tx.ExecContext(ctx, query, imp.ScheduleID); err != nil {
			return fmt.Errorf("clear previous schedule contents: %w", err)
		}
	}

	const insertSection = `
INSERT INTO sections (id, schedule_id, course_id, teacher_id, capacity, created_at)
VALUES (:id, :schedule_id, :course_id, :teacher_id, :capacity, :created_at)`
	for i := range imp.Sections {
		if imp.Sections[i].CreatedAt.IsZero() {
			imp.Sections[i].CreatedAt = imp.ImportedAt
		}
		if _, err = tx.NamedExecContext(ctx, insertSection, imp.Sections[i]); err != nil {
			return fmt.Errorf("insert section: %w", err)
		}
	}

	const insertSlot = `
INSERT INTO slot_assignments (id, schedule_id, section_id, day_of_week, period, room_id, created_at)
VALUES (:id, :schedule_id, :section_id, :day_of_week, :period, :room_id, :created_at)`
	for i := range imp.Slots {
		if imp.Slots[i].CreatedAt.IsZero() {
			imp.Slots[i].CreatedAt = imp.ImportedAt
		}
		if _, err = tx.NamedExecContext(ctx, insertSlot, imp.Slots[i]); err != nil {
			return fmt.Errorf("insert slot assignment: %w", err)
		}
	}

	const insertPlacement = `
INSERT INTO enrollment_placements (id, schedule_id, section_id, student_id, created_at)
VALUES (:id, :schedule_id, :section_id, :student_id, :created_at)`
	for i := range imp.Placements {
		if imp.Placements[i].CreatedAt.IsZero() {
			imp.Placements[i].CreatedAt = imp.ImportedAt
		}
		if _, err = tx.NamedExecContext(ctx, insertPlacement, imp.Placements[i]); err != nil {
			return fmt.Errorf("insert enrollment placement: %w", err)
		}
	}

	const stampSchedule = `
UPDATE schedules SET status = $1, hard_score = $2, soft_score = $3, conflict_count = $4,
generation_method = $5, imported_at = $6, updated_at = $6 WHERE id = $7`
	var result sql.Result
	result, err = tx.ExecContext(ctx, stampSchedule,
		models.ScheduleStatusOptimized, imp.HardScore, imp.SoftScore, imp.ConflictCount,
		imp.GenerationMethod, imp.ImportedAt, imp.ScheduleID)
	if err != nil {
		return fmt.Errorf("stamp schedule scores: %w", err)
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("stamp schedule scores: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return fmt.Errorf("schedule %s not found during import: %w", imp.ScheduleID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import transaction: %w", err)
	}
	return nil
}

// Delete removes a schedule and its contents.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, query := range []string{
		`DELETE FROM enrollment_placements WHERE schedule_id = $1`,
		`DELETE FROM slot_assignments WHERE schedule_id = $1`,
		`DELETE FROM sections WHERE schedule_id = $1`,
		`DELETE FROM schedules WHERE id = $1`,
	} {
		if _, err = tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("delete schedule: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}
