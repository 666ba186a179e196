package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type exportStudentSource interface {
	ListActive(ctx context.Context) ([]models.Student, error)
}

type exportTeacherSource interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type exportCourseSource interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

type exportRoomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type exportScheduleSource interface {
	Sections(ctx context.Context, scheduleID string) ([]models.Section, error)
	SlotAssignments(ctx context.Context, scheduleID string) ([]models.SlotAssignment, error)
}

type exportPusher interface {
	Export(ctx context.Context, payload dto.ExportPayload) (*dto.ExportResult, error)
}

// ExportService snapshots the institution's current data and pushes it to
// the optimizer as the problem definition for one generation run.
type ExportService struct {
	students  exportStudentSource
	teachers  exportTeacherSource
	courses   exportCourseSource
	rooms     exportRoomSource
	schedules exportScheduleSource
	client    exportPusher
	logger    *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(students exportStudentSource, teachers exportTeacherSource, courses exportCourseSource,
	rooms exportRoomSource, schedules exportScheduleSource, client exportPusher, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:  students,
		teachers:  teachers,
		courses:   courses,
		rooms:     rooms,
		schedules: schedules,
		client:    client,
		logger:    logger,
	}
}

// Export builds the problem snapshot and pushes it to the optimizer. It
// fails before any network call when the dataset cannot produce a usable
// timetable: no active students, no active courses or no active teachers.
func (s *ExportService) Export(ctx context.Context, scheduleID string) (*dto.ExportResult, error) {
	payload, err := s.buildPayload(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if len(payload.Students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no active students to schedule")
	}
	if len(payload.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no active courses to schedule")
	}
	if len(payload.Teachers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no active teachers to schedule")
	}

	result, err := s.client.Export(ctx, *payload)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "optimizer rejected the exported dataset"
		}
		return nil, appErrors.Clone(appErrors.ErrOptimizerRejected, message)
	}
	s.logger.Info("dataset exported to optimizer",
		zap.String("schedule_id", scheduleID),
		zap.String("export_id", result.ExportID),
		zap.Int("students", result.StudentsExported),
		zap.Int("courses", result.CoursesExported),
		zap.Int("teachers", result.TeachersExported))
	return result, nil
}

func (s *ExportService) buildPayload(ctx context.Context, scheduleID string) (*dto.ExportPayload, error) {
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot students")
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot teachers")
	}
	courses, err := s.courses.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot courses")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot rooms")
	}

	payload := &dto.ExportPayload{ScheduleID: scheduleID}
	for _, st := range students {
		payload.Students = append(payload.Students, dto.ExportStudent{
			ID:         st.ID,
			FullName:   st.FullName,
			GradeLevel: st.GradeLevel,
		})
	}
	for _, t := range teachers {
		payload.Teachers = append(payload.Teachers, dto.ExportTeacher{
			ID:             t.ID,
			FullName:       t.FullName,
			MaxWeeklyHours: t.MaxWeeklyHours,
		})
	}
	for _, c := range courses {
		payload.Courses = append(payload.Courses, dto.ExportCourse{
			ID:          c.ID,
			Code:        c.Code,
			TeacherID:   c.TeacherID,
			WeeklyHours: c.WeeklyHours,
			Capacity:    c.Capacity,
			GradeLevel:  c.GradeLevel,
		})
	}
	for _, r := range rooms {
		payload.Rooms = append(payload.Rooms, dto.ExportRoom{
			ID:       r.ID,
			Capacity: r.Capacity,
			RoomType: r.RoomType,
		})
	}

	// Existing slots seed the optimizer so a re-run can refine rather than
	// start from scratch.
	sections, err := s.schedules.Sections(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot schedule sections")
	}
	courseBySection := make(map[string]string, len(sections))
	for _, sec := range sections {
		courseBySection[sec.ID] = sec.CourseID
	}
	slots, err := s.schedules.SlotAssignments(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot slot assignments")
	}
	for _, slot := range slots {
		payload.CurrentSlots = append(payload.CurrentSlots, dto.ExportSlot{
			CourseID:  courseBySection[slot.SectionID],
			DayOfWeek: slot.DayOfWeek,
			Period:    slot.Period,
			RoomID:    slot.RoomID,
		})
	}

	return payload, nil
}
