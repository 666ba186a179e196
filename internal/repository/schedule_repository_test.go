package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleImport() models.ScheduleImport {
	room := "room-1"
	return models.ScheduleImport{
		ScheduleID: "sched-1",
		Sections: []models.Section{
			{ID: "sec-1", ScheduleID: "sched-1", CourseID: "course-1", TeacherID: "teacher-1", Capacity: 30},
		},
		Slots: []models.SlotAssignment{
			{ID: "slot-1", ScheduleID: "sched-1", SectionID: "sec-1", DayOfWeek: 1, Period: 2, RoomID: &room},
		},
		Placements: []models.EnrollmentPlacement{
			{ID: "pl-1", ScheduleID: "sched-1", SectionID: "sec-1", StudentID: "student-1"},
		},
		HardScore:        0,
		SoftScore:        42,
		ConflictCount:    0,
		GenerationMethod: "FULLY_AUTOMATED",
		ImportedAt:       time.Now().UTC(),
	}
}

func TestApplyImportCommitsAsOneUnit(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM enrollment_placements`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM slot_assignments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sections`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sections`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO slot_assignments`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO enrollment_placements`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE schedules SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyImport(context.Background(), sampleImport())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyImportRollsBackOnMidFailure(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	// Sections are written, then the slot insert fails. The transaction
	// must roll back so the prior schedule remains untouched.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM enrollment_placements`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM slot_assignments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sections`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sections`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO slot_assignments`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ApplyImport(context.Background(), sampleImport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert slot assignment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyImportRollsBackWhenScheduleMissing(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM enrollment_placements`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM slot_assignments`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sections`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO sections`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO slot_assignments`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO enrollment_placements`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE schedules SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyImport(context.Background(), sampleImport())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounts(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(`SELECT`).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"sections", "slots", "placements"}).AddRow(4, 12, 80))

	counts, err := repo.Counts(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Sections)
	assert.Equal(t, 12, counts.Slots)
	assert.Equal(t, 80, counts.Placements)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "term_name", "status", "hard_score", "soft_score", "conflict_count", "generation_method", "imported_at", "created_at", "updated_at"}).
		AddRow("sched-1", "Fall draft", "2026/2027-1", "OPTIMIZED", 0, 42, 0, "AI_ASSISTED", now, now, now)
	mock.ExpectQuery(`SELECT .* FROM schedules WHERE id = \$1`).
		WithArgs("sched-1").
		WillReturnRows(rows)

	schedule, err := repo.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusOptimized, schedule.Status)
	assert.Equal(t, 42, schedule.SoftScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
