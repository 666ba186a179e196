package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type stubResultFetcher struct {
	result *dto.OptimizerResult
	err    error
	calls  int
}

func (f *stubResultFetcher) Result(ctx context.Context, jobID string) (*dto.OptimizerResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type stubImportStore struct {
	schedule *models.Schedule
	applied  *models.ScheduleImport
	applyErr error
}

func (s *stubImportStore) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s.schedule == nil || s.schedule.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.schedule, nil
}

func (s *stubImportStore) ApplyImport(ctx context.Context, imp models.ScheduleImport) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = &imp
	return nil
}

func solvedResult() *dto.OptimizerResult {
	room := "room-1"
	return &dto.OptimizerResult{
		JobID:      "job-1",
		ScheduleID: "sched-1",
		Sections: []dto.ResultSection{
			{SectionID: "opt-sec-1", CourseID: "c-1", TeacherID: "t-1", Capacity: 30},
			{SectionID: "opt-sec-2", CourseID: "c-2", TeacherID: "t-2", Capacity: 25},
		},
		Slots: []dto.ResultSlot{
			{SectionID: "opt-sec-1", DayOfWeek: 1, Period: 1, RoomID: &room},
			{SectionID: "opt-sec-2", DayOfWeek: 1, Period: 2},
		},
		Placements: []dto.ResultPlacement{
			{SectionID: "opt-sec-1", StudentID: "st-1"},
			{SectionID: "opt-sec-1", StudentID: "st-2"},
			{SectionID: "opt-sec-2", StudentID: "st-1"},
		},
		HardScore:     0,
		SoftScore:     17,
		ConflictCount: 0,
	}
}

func TestImportAppliesSolvedTimetable(t *testing.T) {
	store := &stubImportStore{schedule: &models.Schedule{ID: "sched-1", Name: "Fall"}}
	fetcher := &stubResultFetcher{result: solvedResult()}
	svc := NewImportService(fetcher, store, nil, zap.NewNop())

	result, err := svc.Import(context.Background(), "sched-1", "job-1", dto.GenerationModeFullyAutomated)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.SectionsCreated)
	assert.Equal(t, 2, result.SlotsAssigned)
	assert.Equal(t, 3, result.StudentsScheduled)
	assert.Equal(t, 0, result.HardScore)
	assert.Equal(t, 17, result.SoftScore)
	assert.False(t, result.ImportTimestamp.IsZero())

	require.NotNil(t, store.applied)
	assert.Equal(t, "FULLY_AUTOMATED", store.applied.GenerationMethod)
	// slots and placements must reference the freshly minted section rows
	sectionIDs := map[string]bool{}
	for _, sec := range store.applied.Sections {
		assert.NotEmpty(t, sec.ID)
		assert.NotEqual(t, "opt-sec-1", sec.ID)
		sectionIDs[sec.ID] = true
	}
	for _, slot := range store.applied.Slots {
		assert.True(t, sectionIDs[slot.SectionID])
	}
	for _, placement := range store.applied.Placements {
		assert.True(t, sectionIDs[placement.SectionID])
	}
}

func TestImportUnknownSchedule(t *testing.T) {
	fetcher := &stubResultFetcher{result: solvedResult()}
	svc := NewImportService(fetcher, &stubImportStore{}, nil, zap.NewNop())

	_, err := svc.Import(context.Background(), "missing", "job-1", dto.GenerationModeAIAssisted)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrScheduleNotFound))
	assert.Zero(t, fetcher.calls, "result should not be fetched for a missing schedule")
}

func TestImportSurfacesFetchError(t *testing.T) {
	store := &stubImportStore{schedule: &models.Schedule{ID: "sched-1"}}
	fetcher := &stubResultFetcher{err: appErrors.Clone(appErrors.ErrUnknownJob, "job not found")}
	svc := NewImportService(fetcher, store, nil, zap.NewNop())

	_, err := svc.Import(context.Background(), "sched-1", "job-gone", dto.GenerationModeAIAssisted)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownJob))
	assert.Nil(t, store.applied)
}

func TestImportFailedTransactionSurfaced(t *testing.T) {
	store := &stubImportStore{schedule: &models.Schedule{ID: "sched-1"}, applyErr: sql.ErrTxDone}
	fetcher := &stubResultFetcher{result: solvedResult()}
	svc := NewImportService(fetcher, store, nil, zap.NewNop())

	_, err := svc.Import(context.Background(), "sched-1", "job-1", dto.GenerationModeAIAssisted)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
