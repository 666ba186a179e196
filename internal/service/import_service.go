package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type resultFetcher interface {
	Result(ctx context.Context, jobID string) (*dto.OptimizerResult, error)
}

type importScheduleStore interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ApplyImport(ctx context.Context, imp models.ScheduleImport) error
}

// ImportService pulls a completed job's solution from the optimizer and
// applies it to the schedule as one transaction. Its ImportResult is the
// sole authority for whether an optimized schedule went live.
type ImportService struct {
	client resultFetcher
	store  importScheduleStore
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewImportService constructs the import service.
func NewImportService(client resultFetcher, store importScheduleStore, cache *CacheService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		client: client,
		store:  store,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Import fetches the solved timetable for jobID and commits it to the
// schedule. Any failure leaves the previous schedule contents untouched
// and is surfaced to the caller without retrying.
func (s *ImportService) Import(ctx context.Context, scheduleID, jobID string, method dto.GenerationMode) (*dto.ImportResult, error) {
	if _, err := s.store.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	result, err := s.client.Result(ctx, jobID)
	if err != nil {
		return nil, err
	}

	importedAt := s.now().UTC()
	imp := buildScheduleImport(scheduleID, result, method, importedAt)

	if err := s.store.ApplyImport(ctx, imp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScheduleNotFound, "schedule disappeared during import")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply optimizer result")
	}

	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("optimizer result imported",
		zap.String("schedule_id", scheduleID),
		zap.String("job_id", jobID),
		zap.Int("sections", len(imp.Sections)),
		zap.Int("slots", len(imp.Slots)),
		zap.Int("placements", len(imp.Placements)),
		zap.Int("hard_score", result.HardScore),
		zap.Int("soft_score", result.SoftScore))

	return &dto.ImportResult{
		Success:           true,
		ScheduleID:        scheduleID,
		JobID:             jobID,
		SectionsCreated:   len(imp.Sections),
		SlotsAssigned:     len(imp.Slots),
		StudentsScheduled: len(imp.Placements),
		HardScore:         result.HardScore,
		SoftScore:         result.SoftScore,
		ImportTimestamp:   importedAt,
	}, nil
}

// buildScheduleImport converts the wire result into persistence rows. The
// optimizer's section identifiers are correlation tokens, fresh row IDs are
// minted here and remapped onto slots and placements.
func buildScheduleImport(scheduleID string, result *dto.OptimizerResult, method dto.GenerationMode, importedAt time.Time) models.ScheduleImport {
	sectionIDs := make(map[string]string, len(result.Sections))
	imp := models.ScheduleImport{
		ScheduleID:       scheduleID,
		HardScore:        result.HardScore,
		SoftScore:        result.SoftScore,
		ConflictCount:    result.ConflictCount,
		GenerationMethod: string(method),
		ImportedAt:       importedAt,
	}

	for _, sec := range result.Sections {
		id := uuid.NewString()
		sectionIDs[sec.SectionID] = id
		imp.Sections = append(imp.Sections, models.Section{
			ID:         id,
			ScheduleID: scheduleID,
			CourseID:   sec.CourseID,
			TeacherID:  sec.TeacherID,
			Capacity:   sec.Capacity,
			CreatedAt:  importedAt,
		})
	}
	for _, slot := range result.Slots {
		imp.Slots = append(imp.Slots, models.SlotAssignment{
			ID:         uuid.NewString(),
			ScheduleID: scheduleID,
			SectionID:  sectionIDs[slot.SectionID],
			DayOfWeek:  slot.DayOfWeek,
			Period:     slot.Period,
			RoomID:     slot.RoomID,
			CreatedAt:  importedAt,
		})
	}
	for _, placement := range result.Placements {
		imp.Placements = append(imp.Placements, models.EnrollmentPlacement{
			ID:         uuid.NewString(),
			ScheduleID: scheduleID,
			SectionID:  sectionIDs[placement.SectionID],
			StudentID:  placement.StudentID,
			CreatedAt:  importedAt,
		})
	}
	return imp
}
